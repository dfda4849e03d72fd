package backup

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/saarthi-app/saarthi/internal/common"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/saarthi-app/saarthi/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "backup.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedPerson(t *testing.T, store *storage.SQLiteStorage, no int64, name string) *model.Person {
	t.Helper()

	stored, err := store.AddPerson(context.Background(), &model.Person{
		No: no, Name: name, State: "Kerala", Salary: 50000, HomeLoan: 100000, HomeEMI: 900,
	})
	require.NoError(t, err)
	return stored
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestStorage(t)

	asha := seedPerson(t, source, 1, "Asha")
	seedPerson(t, source, 2, "Binu")
	theme := "dark"
	_, err := source.SaveSettings(ctx, model.SettingsUpdate{Theme: &theme})
	require.NoError(t, err)

	data, err := NewCodec(source).Export(ctx)
	require.NoError(t, err)

	target := newTestStorage(t)
	seedPerson(t, target, 99, "Doomed")

	result, err := NewCodec(target).Import(ctx, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.People)
	assert.True(t, result.Settings)

	people, err := target.GetAllPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2, "import replaces, never appends")
	assert.Equal(t, "Asha", people[0].Name)
	assert.Equal(t, "Binu", people[1].Name)

	// Identity minted in the source store survives the round trip.
	assert.Equal(t, asha.ID, people[0].ID)
	assert.True(t, people[0].CreatedAt.Equal(asha.CreatedAt))

	settings, err := target.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
}

func TestExportEnvelopeShape(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	seedPerson(t, store, 1, "Asha")

	data, err := NewCodec(store).Export(ctx)
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Contains(t, envelope, "version")
	assert.Contains(t, envelope, "exportDate")
	assert.Contains(t, envelope, "data")

	var version int
	require.NoError(t, json.Unmarshal(envelope["version"], &version))
	assert.Equal(t, EnvelopeVersion, version)

	var exportDate string
	require.NoError(t, json.Unmarshal(envelope["exportDate"], &exportDate))
	_, err = time.Parse(time.RFC3339, exportDate)
	assert.NoError(t, err)
}

func TestDecodeLegacyFlatArray(t *testing.T) {
	legacy := []byte(`{
		"version": "1.0",
		"exportDate": "2023-05-01T00:00:00Z",
		"totalRecords": 1,
		"data": [
			{"id": "legacy-1", "no": 5, "name": "Ravi", "state": "Punjab", "salary": 30000}
		]
	}`)

	payload, err := Decode(legacy)
	require.NoError(t, err)
	require.Len(t, payload.People, 1)
	assert.Equal(t, "legacy-1", payload.People[0].ID)
	assert.Equal(t, int64(5), payload.People[0].No)
	assert.Nil(t, payload.Settings)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "this is not json"},
		{"missing data", `{"version": 2, "exportDate": "2024-01-01T00:00:00Z"}`},
		{"null data", `{"version": 2, "data": null}`},
		{"data is a scalar", `{"version": 2, "data": 42}`},
		{"data object without people", `{"version": 2, "data": {"settings": null}}`},
		{"people not a list", `{"version": 2, "data": {"people": "nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, common.ErrInvalidFormat)
		})
	}
}

func TestImportMalformedDataLeavesStoreIntact(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	seedPerson(t, store, 1, "Asha")

	_, err := NewCodec(store).Import(ctx, []byte("garbage"), nil)
	require.ErrorIs(t, err, common.ErrInvalidFormat)

	count, err := store.CountPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "decode failures must never clear existing data")
}

func TestImportReportsProgress(t *testing.T) {
	ctx := context.Background()
	source := newTestStorage(t)
	for i := int64(1); i <= 3; i++ {
		seedPerson(t, source, i, "Person")
	}
	data, err := NewCodec(source).Export(ctx)
	require.NoError(t, err)

	target := newTestStorage(t)
	var calls [][2]int
	_, err = NewCodec(target).Import(ctx, data, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}
