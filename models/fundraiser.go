package models

import (
	"time"
)

// Fundraiser is a ticketed campaign owned by an organization
type Fundraiser struct {
	ID             int64      `db:"id"`
	Title          string     `db:"title"`
	Description    *string    `db:"description"`
	StartDate      *time.Time `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	TicketsSold    int64      `db:"tickets_sold"`
	FundRaised     int64      `db:"fund_raised"`
	OrganizationID *int64     `db:"organization_id"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
