package repository

import (
	"context"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
)

// OrderRepository reads the ticket ledger
type OrderRepository struct {
	q queryable
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{q: db.Pool}
}

// newOrderRepositoryWithTx creates a new order repository with a transaction
func newOrderRepositoryWithTx(tx queryable) *OrderRepository {
	return &OrderRepository{q: tx}
}

// ListSucceededTickets flattens the ticket arrays of every succeeded order of a fundraiser.
// Rows come back ordered by ticket number then order ID, duplicates included.
func (r *OrderRepository) ListSucceededTickets(ctx context.Context, fundraiserID int64) ([]*models.TicketEntry, error) {
	query := `
		SELECT
			t.ticket_number,
			o.id,
			s.id,
			s.first_name,
			s.last_name,
			s.email
		FROM orders o
		CROSS JOIN LATERAL unnest(o.ticket_numbers) AS t(ticket_number)
		JOIN supporters s ON s.id = o.supporter_id
		WHERE o.fundraiser_id = $1
		  AND o.stripe_payment_status = $2
		ORDER BY t.ticket_number, o.id
	`

	rows, err := r.q.Query(ctx, query, fundraiserID, string(models.PaymentStatusSucceeded))
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets of fundraiser %d: %w", fundraiserID, err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.TicketEntry, error) {
		var entry models.TicketEntry
		err := row.Scan(
			&entry.TicketNumber,
			&entry.OrderID,
			&entry.SupporterID,
			&entry.FirstName,
			&entry.LastName,
			&entry.Email,
		)
		return &entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tickets of fundraiser %d: %w", fundraiserID, err)
	}

	return entries, nil
}
