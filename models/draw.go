package models

import (
	"time"
)

// DrawState represents the lifecycle state of a draw
type DrawState string

const (
	DrawStatePending DrawState = "pending"
	DrawStateDecided DrawState = "decided"
)

// Draw represents a prize draw scheduled for a fundraiser
type Draw struct {
	ID                  int64      `db:"id"`
	DrawDate            time.Time  `db:"draw_date"`
	Prize               string     `db:"prize"`
	FundraiserID        int64      `db:"fundraiser_id"`
	SupporterID         *int64     `db:"supporter_id"`
	WinningTicketNumber *int64     `db:"winning_ticket_number"`
	DecidedAt           *time.Time `db:"decided_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`

	// FundraiserTitle is joined from fundraisers when the draw is locked
	FundraiserTitle string `db:"fundraiser_title"`
}

// State returns the lifecycle state derived from the winner reference
func (d *Draw) State() DrawState {
	if d.SupporterID != nil {
		return DrawStateDecided
	}
	return DrawStatePending
}

// IsDecided returns true once a winner has been recorded
func (d *Draw) IsDecided() bool {
	return d.State() == DrawStateDecided
}

// IsDueOn reports whether the draw may be decided on the calendar day of now.
// A draw is due on or after its scheduled date.
func (d *Draw) IsDueOn(now time.Time) bool {
	y, m, day := d.DrawDate.Date()
	scheduled := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	ty, tm, td := now.Date()
	today := time.Date(ty, tm, td, 0, 0, 0, 0, now.Location())
	return !scheduled.After(today)
}

// WinnerResult is the outcome of a successful winner selection
type WinnerResult struct {
	DrawID       int64     `json:"drawId"`
	SupporterID  int64     `json:"supporterId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	TicketNumber int64     `json:"ticketNumber"`
	DecidedAt    time.Time `json:"decidedAt"`
}
