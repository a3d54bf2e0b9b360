package repository

import (
	"context"
	"errors"
	"fmt"

	"luckydraw/database"
	"luckydraw/events"
	"luckydraw/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	lockTimeoutMillis int64
	transactionalBus  *events.TransactionalBus
	drawRepo          service.DrawRepository
	orderRepo         service.OrderRepository
	supporterRepo     service.SupporterRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory.
// lockTimeoutMillis bounds row lock waits inside each unit of work, zero means wait forever.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, lockTimeoutMillis int64) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:                db,
		eventBus:          eventBus,
		lockTimeoutMillis: lockTimeoutMillis,
	}
}

type unitOfWorkFactory struct {
	db                *database.DB
	eventBus          *events.Bus
	lockTimeoutMillis int64
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:                f.db,
		lockTimeoutMillis: f.lockTimeoutMillis,
		transactionalBus:  events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new read-committed transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := database.SetLocalLockTimeout(ctx, tx, u.lockTimeoutMillis); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.drawRepo = newDrawRepositoryWithTx(tx)
	u.orderRepo = newOrderRepositoryWithTx(tx)
	u.supporterRepo = newSupporterRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	// The caller's context may already be cancelled, the rollback must still reach the server
	err := u.tx.Rollback(context.WithoutCancel(u.ctx))
	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// DrawRepository returns the draw repository for this unit of work
func (u *unitOfWork) DrawRepository() service.DrawRepository {
	if u.drawRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRepo
}

// OrderRepository returns the order repository for this unit of work
func (u *unitOfWork) OrderRepository() service.OrderRepository {
	if u.orderRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.orderRepo
}

// SupporterRepository returns the supporter repository for this unit of work
func (u *unitOfWork) SupporterRepository() service.SupporterRepository {
	if u.supporterRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.supporterRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
