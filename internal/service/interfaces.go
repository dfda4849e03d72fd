// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/saarthi-app/saarthi/internal/model"
)

// Storage defines the contract for the persistence layer. Every write is
// atomic at single-record granularity; a failed call leaves prior state
// unchanged.
type Storage interface {
	// Person operations
	AddPerson(ctx context.Context, person *model.Person) (*model.Person, error)
	UpdatePerson(ctx context.Context, id string, update model.PersonUpdate) (*model.Person, error)
	DeletePerson(ctx context.Context, id string) error
	GetPerson(ctx context.Context, id string) (*model.Person, error)
	GetAllPeople(ctx context.Context) ([]model.Person, error)
	CountPeople(ctx context.Context) (int, error)
	ClearAllPeople(ctx context.Context) error

	// Settings operations
	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, update model.SettingsUpdate) (*model.Settings, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
