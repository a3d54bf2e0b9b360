package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
)

// DrawRepository implements the DrawRepository interface
type DrawRepository struct {
	q queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// newDrawRepositoryWithTx creates a new draw repository with a transaction
func newDrawRepositoryWithTx(tx queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

const drawColumns = `
	d.id,
	d.draw_date,
	d.prize,
	d.fundraiser_id,
	d.supporter_id,
	d.winning_ticket_number,
	d.decided_at,
	d.created_at,
	d.updated_at,
	f.title
`

func scanDraw(row pgx.Row) (*models.Draw, error) {
	var draw models.Draw
	err := row.Scan(
		&draw.ID,
		&draw.DrawDate,
		&draw.Prize,
		&draw.FundraiserID,
		&draw.SupporterID,
		&draw.WinningTicketNumber,
		&draw.DecidedAt,
		&draw.CreatedAt,
		&draw.UpdatedAt,
		&draw.FundraiserTitle,
	)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// GetByID retrieves a draw by its ID
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*models.Draw, error) {
	query := `SELECT ` + drawColumns + `
		FROM draws d
		JOIN fundraisers f ON f.id = d.fundraiser_id
		WHERE d.id = $1
	`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", id, err)
	}
	return draw, nil
}

// GetByIDForUpdate retrieves a draw and locks its row until the transaction ends.
// Only the draw row is locked, the fundraiser stays readable and writable.
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Draw, error) {
	query := `SELECT ` + drawColumns + `
		FROM draws d
		JOIN fundraisers f ON f.id = d.fundraiser_id
		WHERE d.id = $1
		FOR UPDATE OF d
	`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock draw %d: %w", id, err)
	}
	return draw, nil
}

// SetWinner records the winner if the draw is still pending.
// Returns false when another transaction decided the draw first.
func (r *DrawRepository) SetWinner(ctx context.Context, drawID, supporterID, ticketNumber int64, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE draws
		SET supporter_id = $2,
			winning_ticket_number = $3,
			decided_at = $4,
			updated_at = NOW()
		WHERE id = $1 AND supporter_id IS NULL
	`

	tag, err := r.q.Exec(ctx, query, drawID, supporterID, ticketNumber, decidedAt)
	if err != nil {
		return false, fmt.Errorf("failed to set winner of draw %d: %w", drawID, err)
	}
	return tag.RowsAffected() == 1, nil
}
