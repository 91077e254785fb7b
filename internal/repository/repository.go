package repository

import (
	"context"
	"database/sql"
	"time"

	"cardputer_radio/internal/models"
)

// Operators stores the accounts allowed to drive the radio.
type Operators interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
	Count(ctx context.Context) (int, error)
}

// StateRepo persists the last status snapshot (single row).
type StateRepo interface {
	Save(ctx context.Context, s models.StatusSnapshot) error
	Load(ctx context.Context) (models.StatusSnapshot, error)
}

// EventRepo is the append-only mode transition log.
type EventRepo interface {
	Append(ctx context.Context, e models.RadioEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.RadioEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Operators: NewOperatorSQLite(db),
	}
}
