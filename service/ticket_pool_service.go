package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"luckydraw/metrics"
	"luckydraw/models"

	log "github.com/sirupsen/logrus"
)

type ticketPoolService struct {
	uowFactory UnitOfWorkFactory
}

// NewTicketPoolService creates a new ticket pool service
func NewTicketPoolService(uowFactory UnitOfWorkFactory) TicketPoolService {
	return &ticketPoolService{
		uowFactory: uowFactory,
	}
}

func (s *ticketPoolService) ResolvePool(ctx context.Context, fundraiserID int64) ([]*models.TicketEntry, error) {
	if fundraiserID <= 0 {
		return nil, fmt.Errorf("fundraiser %d: %w", fundraiserID, ErrInvalidID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read only, nothing to commit

	return resolveTicketPool(ctx, uow.OrderRepository(), fundraiserID)
}

// resolveTicketPool builds the pool from the ledger rows visible to repo's transaction.
// A ticket claimed by several orders is kept once, owned by the lowest order ID.
func resolveTicketPool(ctx context.Context, repo OrderRepository, fundraiserID int64) ([]*models.TicketEntry, error) {
	rows, err := repo.ListSucceededTickets(ctx, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for fundraiser %d: %w", fundraiserID, err)
	}

	owners := make(map[int64]*models.TicketEntry, len(rows))
	for _, row := range rows {
		if row.TicketNumber <= 0 {
			log.WithFields(log.Fields{
				"fundraiser_id": fundraiserID,
				"order_id":      row.OrderID,
				"ticket_number": row.TicketNumber,
			}).Warn("Skipping non-positive ticket number in ticket ledger")
			continue
		}

		kept, ok := owners[row.TicketNumber]
		if !ok {
			owners[row.TicketNumber] = row
			continue
		}

		dropped := row
		if row.OrderID < kept.OrderID {
			owners[row.TicketNumber] = row
			kept, dropped = row, kept
		}

		metrics.RecordDuplicateTicket()
		log.WithFields(log.Fields{
			"fundraiser_id":        fundraiserID,
			"ticket_number":        row.TicketNumber,
			"kept_order_id":        kept.OrderID,
			"kept_supporter_id":    kept.SupporterID,
			"dropped_order_id":     dropped.OrderID,
			"dropped_supporter_id": dropped.SupporterID,
		}).Warn("Duplicate ticket number across succeeded orders, keeping lowest order")
	}

	pool := make([]*models.TicketEntry, 0, len(owners))
	for _, entry := range owners {
		pool = append(pool, entry)
	}
	slices.SortFunc(pool, func(a, b *models.TicketEntry) int {
		return cmp.Compare(a.TicketNumber, b.TicketNumber)
	})

	return pool, nil
}
