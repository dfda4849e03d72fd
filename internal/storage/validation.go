// Package storage provides the data persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saarthi-app/saarthi/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidPerson  = errors.New("invalid person")
	ErrInvalidStatus  = errors.New("invalid sync status")
	ErrInvalidTheme   = errors.New("invalid theme")
	ErrNegativeAmount = errors.New("amounts must be non-negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePerson validates a fully-populated person record at the mutation
// boundary. Storage itself only enforces the uniqueness indexes.
func validatePerson(p *model.Person) error {
	if p == nil {
		return fmt.Errorf("%w: person", ErrNilParameter)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPerson)
	}
	if p.No <= 0 {
		return fmt.Errorf("%w: sequence number must be positive", ErrInvalidPerson)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPerson)
	}
	if strings.TrimSpace(p.State) == "" {
		return fmt.Errorf("%w: missing state", ErrInvalidPerson)
	}
	for _, amount := range p.Amounts() {
		if amount < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidPerson, ErrNegativeAmount)
		}
	}

	switch p.SyncStatus {
	case model.SyncStatusSynced, model.SyncStatusPending, model.SyncStatusError:
		// Valid status
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, p.SyncStatus)
	}

	return nil
}

// validateSettings validates the merged settings record before persisting.
func validateSettings(s *model.Settings) error {
	if s == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}

	switch s.Theme {
	case "light", "dark", "system":
		// Valid theme
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTheme, s.Theme)
	}

	if strings.TrimSpace(s.Currency) == "" {
		return fmt.Errorf("%w: currency", ErrEmptyString)
	}
	if strings.TrimSpace(s.Language) == "" {
		return fmt.Errorf("%w: language", ErrEmptyString)
	}

	return nil
}
