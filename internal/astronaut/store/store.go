// Package store persists people, career summaries and duty ledgers.
//
// Two implementations share the Store contract: InMemoryStore for tests and the
// memory driver, and SQLStore for PostgreSQL and SQLite. Both report missing rows
// as sentinel.ErrNotFound and uniqueness conflicts as sentinel.ErrAlreadyUsed.
package store

import (
	"context"
	"time"

	"stargate/internal/astronaut/models"
)

// Store is the persistence surface of the astronaut service.
type Store interface {
	CreatePerson(ctx context.Context, person *models.Person) error
	FindPersonByName(ctx context.Context, name string) (*models.Person, error)
	FindPersonByID(ctx context.Context, id int64) (*models.Person, error)
	ListPeople(ctx context.Context) ([]*models.Person, error)

	FindDetail(ctx context.Context, personID int64) (*models.AstronautDetail, error)
	ListDetails(ctx context.Context) ([]*models.AstronautDetail, error)
	SaveDetail(ctx context.Context, detail *models.AstronautDetail) error

	ListDutiesByPerson(ctx context.Context, personID int64) ([]*models.AstronautDuty, error)
	ListDutiesActiveOn(ctx context.Context, day time.Time) ([]*models.AstronautDuty, error)
	CreateDuty(ctx context.Context, duty *models.AstronautDuty) error
	SetDutyEndDate(ctx context.Context, dutyID int64, end *time.Time) error
}

// TxStore is a Store that can run a callback atomically.
type TxStore interface {
	Store
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
	Ping(ctx context.Context) error
}

var (
	_ TxStore = (*InMemoryStore)(nil)
	_ TxStore = (*SQLStore)(nil)
)
