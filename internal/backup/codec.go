// Package backup serializes the full collection to and from the JSON
// backup envelope and restores it through the normal store add path.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saarthi-app/saarthi/internal/common"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/saarthi-app/saarthi/internal/service"
)

// EnvelopeVersion is written into every export.
const EnvelopeVersion = 2

// Envelope is the backup file format. Data holds people and settings.
type Envelope struct {
	Version    int     `json:"version"`
	ExportDate string  `json:"exportDate"`
	Data       Payload `json:"data"`
}

// Payload is the rich data section of the envelope.
type Payload struct {
	People   []model.Person  `json:"people"`
	Settings *model.Settings `json:"settings,omitempty"`
}

// ImportResult reports what a completed import restored.
type ImportResult struct {
	People   int
	Settings bool
}

// ProgressFunc is called after each restored record during import.
type ProgressFunc func(done, total int)

// Codec reads and writes backups against a storage backend, bypassing the
// query pipeline entirely.
type Codec struct {
	store service.Storage
}

// NewCodec creates a codec over the given storage.
func NewCodec(store service.Storage) *Codec {
	return &Codec{store: store}
}

// Export serializes the full collection and settings as formatted JSON.
func (c *Codec) Export(ctx context.Context) ([]byte, error) {
	people, err := c.store.GetAllPeople(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := c.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	envelope := Envelope{
		Version:    EnvelopeVersion,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Data: Payload{
			People:   people,
			Settings: settings,
		},
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return out, nil
}

// rawEnvelope defers the data section so both envelope variants can be
// detected: the rich {people, settings} object and the legacy flat array.
type rawEnvelope struct {
	Version      json.RawMessage `json:"version"`
	ExportDate   string          `json:"exportDate"`
	TotalRecords int             `json:"totalRecords"`
	Data         json.RawMessage `json:"data"`
}

type rawPayload struct {
	People   json.RawMessage `json:"people"`
	Settings *model.Settings `json:"settings"`
}

// Decode parses backup text into a payload without touching storage.
// Malformed text or a missing/misshapen data section fails with
// common.ErrInvalidFormat.
func Decode(data []byte) (*Payload, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil, fmt.Errorf("%w: missing data field", common.ErrInvalidFormat)
	}

	// Legacy exports carry the people list directly as an array.
	var people []model.Person
	if err := json.Unmarshal(raw.Data, &people); err == nil {
		return &Payload{People: people}, nil
	}

	var payload rawPayload
	if err := json.Unmarshal(raw.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: data is neither a people list nor an object: %v", common.ErrInvalidFormat, err)
	}
	if len(payload.People) == 0 || string(payload.People) == "null" {
		return nil, fmt.Errorf("%w: data object has no people list", common.ErrInvalidFormat)
	}
	if err := json.Unmarshal(payload.People, &people); err != nil {
		return nil, fmt.Errorf("%w: invalid people list: %v", common.ErrInvalidFormat, err)
	}

	return &Payload{People: people, Settings: payload.Settings}, nil
}

// Import performs a destructive replace: existing people are cleared, then
// every record in the backup is re-inserted through the normal add path so
// store invariants are reapplied uniformly. Identity carried by the payload
// (id, timestamps) is preserved; the add path only mints what is absent.
// The caller owns the confirmation step; this function never prompts.
//
// Each insert is an independent atomic step: a failure partway leaves the
// records inserted so far in place, and the error surfaces unchanged.
func (c *Codec) Import(ctx context.Context, data []byte, progress ProgressFunc) (*ImportResult, error) {
	payload, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := c.store.ClearAllPeople(ctx); err != nil {
		return nil, err
	}

	total := len(payload.People)
	for i := range payload.People {
		person := payload.People[i]
		if _, err := c.store.AddPerson(ctx, &person); err != nil {
			return nil, fmt.Errorf("failed to restore person %d of %d: %w", i+1, total, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	result := &ImportResult{People: total}

	if payload.Settings != nil {
		s := payload.Settings
		update := model.SettingsUpdate{
			Theme:      &s.Theme,
			Currency:   &s.Currency,
			Language:   &s.Language,
			AutoBackup: &s.AutoBackup,
			LastBackup: s.LastBackup,
		}
		if _, err := c.store.SaveSettings(ctx, update); err != nil {
			return nil, err
		}
		result.Settings = true
	}

	return result, nil
}
