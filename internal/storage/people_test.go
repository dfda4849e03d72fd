package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/saarthi-app/saarthi/internal/common"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testPerson(no int64, name string) *model.Person {
	return &model.Person{
		No:    no,
		Name:  name,
		State: "Kerala",
	}
}

func TestAddPersonAssignsIdentity(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	stored, err := store.AddPerson(ctx, testPerson(1, "Asha"))
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())
	assert.Equal(t, model.SyncStatusPending, stored.SyncStatus)

	got, err := store.GetPerson(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, int64(1), got.No)
}

func TestAddPersonPreservesSuppliedIdentity(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	person := testPerson(7, "Ravi")
	person.ID = "backup-id-7"
	person.CreatedAt = created
	person.UpdatedAt = created
	person.SyncStatus = model.SyncStatusSynced

	stored, err := store.AddPerson(ctx, person)
	require.NoError(t, err)
	assert.Equal(t, "backup-id-7", stored.ID)

	got, err := store.GetPerson(ctx, "backup-id-7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreatedAt.Equal(created), "createdAt %v, want %v", got.CreatedAt, created)
	assert.Equal(t, model.SyncStatusSynced, got.SyncStatus)
}

func TestAddPersonDuplicateNoFailsAndLeavesStoreUnchanged(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.AddPerson(ctx, testPerson(1, "Asha"))
	require.NoError(t, err)

	_, err = store.AddPerson(ctx, testPerson(1, "Binu"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	people, err := store.GetAllPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Asha", people[0].Name)
}

func TestAddPersonValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		person *model.Person
	}{
		{"missing name", &model.Person{No: 1, State: "Kerala"}},
		{"missing state", &model.Person{No: 1, Name: "Asha"}},
		{"non-positive no", &model.Person{No: 0, Name: "Asha", State: "Kerala"}},
		{"negative amount", &model.Person{No: 1, Name: "Asha", State: "Kerala", HomeLoan: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.AddPerson(ctx, tt.person)
			assert.ErrorIs(t, err, ErrInvalidPerson)
		})
	}
}

func TestUpdatePersonMergesPartialFields(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	stored, err := store.AddPerson(ctx, &model.Person{
		No: 1, Name: "Asha", State: "Kerala", Salary: 1000, HomeLoan: 500,
	})
	require.NoError(t, err)

	salary := 2000.0
	updated, err := store.UpdatePerson(ctx, stored.ID, model.PersonUpdate{Salary: &salary})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, updated.Salary)
	assert.Equal(t, 500.0, updated.HomeLoan, "unset fields must survive the merge")
	assert.Equal(t, stored.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(stored.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(stored.UpdatedAt))
	assert.Equal(t, model.SyncStatusPending, updated.SyncStatus)
}

func TestUpdatePersonNotFound(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	name := "Ghost"
	_, err := store.UpdatePerson(ctx, "missing", model.PersonUpdate{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdatePersonDuplicateNo(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.AddPerson(ctx, testPerson(1, "Asha"))
	require.NoError(t, err)
	second, err := store.AddPerson(ctx, testPerson(2, "Binu"))
	require.NoError(t, err)

	no := int64(1)
	_, err = store.UpdatePerson(ctx, second.ID, model.PersonUpdate{No: &no})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	// Failed update leaves the stored record unchanged.
	got, err := store.GetPerson(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.No)
}

func TestDeletePersonIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	stored, err := store.AddPerson(ctx, testPerson(1, "Asha"))
	require.NoError(t, err)

	require.NoError(t, store.DeletePerson(ctx, stored.ID))
	require.NoError(t, store.DeletePerson(ctx, stored.ID), "deleting an absent id must be a no-op")
	require.NoError(t, store.DeletePerson(ctx, "never-existed"))

	got, err := store.GetPerson(ctx, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetPersonAbsentReturnsNil(t *testing.T) {
	store := newTestStorage(t)

	got, err := store.GetPerson(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAllPeopleInsertionOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	names := []string{"Asha", "Binu", "Chitra", "Devan"}
	for i, name := range names {
		_, err := store.AddPerson(ctx, testPerson(int64(i+1), name))
		require.NoError(t, err)
	}

	people, err := store.GetAllPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, len(names))
	for i, name := range names {
		assert.Equal(t, name, people[i].Name)
	}
}

func TestClearAllPeopleLeavesSettings(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.AddPerson(ctx, testPerson(1, "Asha"))
	require.NoError(t, err)

	theme := "dark"
	_, err = store.SaveSettings(ctx, model.SettingsUpdate{Theme: &theme})
	require.NoError(t, err)

	require.NoError(t, store.ClearAllPeople(ctx))

	count, err := store.CountPeople(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
}

func TestPersonRoundTripAllFields(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	person := &model.Person{
		No: 42, Name: "Meera", State: "Tamil Nadu", Salary: 85000,
		VehicleLoan: 1, VehicleEMI: 2, HomeLoan: 3, HomeEMI: 4,
		PersonalLoan: 5, PersonalLoanEMI: 6, LandLoan: 7, LandLoanEMI: 8,
		EducationLoan: 9, EducationLoanEMI: 10, Chitti: 11, ChittiEMI: 12,
		GoldLoan: 13, GoldLoanEMI: 14, AgifLoan: 15, AgifLoanEMI: 16,
		OtherLoans: 17, OtherEMIsOnline: 18, OtherEMIsOffline: 19,
		InvestmentStockMarket: 20, InvestmentMutualFund: 21,
		InvestmentFixedDeposits: 22, InvestmentGoldEMI: 23,
		Saving:          24,
		CibilScoreImage: "data:image/png;base64,AAAA",
	}

	stored, err := store.AddPerson(ctx, person)
	require.NoError(t, err)

	got, err := store.GetPerson(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, stored.No, got.No)
	assert.Equal(t, stored.Amounts(), got.Amounts())
	assert.Equal(t, stored.CibilScoreImage, got.CibilScoreImage)
}
