package service

import (
	"context"
	"time"

	"luckydraw/events"
	"luckydraw/models"
)

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	// GetByID retrieves a draw by its ID without locking
	GetByID(ctx context.Context, id int64) (*models.Draw, error)

	// GetByIDForUpdate retrieves a draw by ID holding an exclusive row lock until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Draw, error)

	// SetWinner records the winner of a pending draw.
	// Returns false when the draw already has a winner.
	SetWinner(ctx context.Context, drawID, supporterID, ticketNumber int64, decidedAt time.Time) (bool, error)
}

// OrderRepository defines the read interface against the ticket ledger
type OrderRepository interface {
	// ListSucceededTickets returns one row per ticket number of every succeeded order of a
	// fundraiser, ordered by ticket number then order ID. Duplicates are not removed.
	ListSucceededTickets(ctx context.Context, fundraiserID int64) ([]*models.TicketEntry, error)
}

// SupporterRepository defines the interface for supporter data access
type SupporterRepository interface {
	// GetByID retrieves a supporter by ID
	GetByID(ctx context.Context, id int64) (*models.Supporter, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// RandomSource yields uniformly distributed integers in [0, n)
type RandomSource interface {
	IntN(n int) int
}

// TicketPoolService resolves the eligible ticket pool of a fundraiser
type TicketPoolService interface {
	// ResolvePool returns the deduplicated, ascending ticket pool of a fundraiser
	ResolvePool(ctx context.Context, fundraiserID int64) ([]*models.TicketEntry, error)
}

// DrawService defines the interface for winner selection
type DrawService interface {
	// SelectWinner picks and records the single winner of a draw
	SelectWinner(ctx context.Context, drawID int64) (*models.WinnerResult, error)

	// GetWinner returns the recorded winner of a decided draw
	GetWinner(ctx context.Context, drawID int64) (*models.WinnerResult, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction, a no-op after Commit
	Rollback() error

	// Repository getters
	DrawRepository() DrawRepository
	OrderRepository() OrderRepository
	SupporterRepository() SupporterRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
