package repository

import (
	"context"
	"errors"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
)

// SupporterRepository implements the SupporterRepository interface
type SupporterRepository struct {
	q queryable
}

// NewSupporterRepository creates a new supporter repository
func NewSupporterRepository(db *database.DB) *SupporterRepository {
	return &SupporterRepository{q: db.Pool}
}

// newSupporterRepositoryWithTx creates a new supporter repository with a transaction
func newSupporterRepositoryWithTx(tx queryable) *SupporterRepository {
	return &SupporterRepository{q: tx}
}

// GetByID retrieves a supporter by ID
func (r *SupporterRepository) GetByID(ctx context.Context, id int64) (*models.Supporter, error) {
	query := `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM supporters
		WHERE id = $1
	`

	var supporter models.Supporter
	err := r.q.QueryRow(ctx, query, id).Scan(
		&supporter.ID,
		&supporter.FirstName,
		&supporter.LastName,
		&supporter.Email,
		&supporter.CreatedAt,
		&supporter.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supporter %d: %w", id, err)
	}

	return &supporter, nil
}
