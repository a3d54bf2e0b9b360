package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/stretchr/testify/require"
)

var paymentIntentSeq atomic.Int64

// CreateTestFundraiser creates a test fundraiser with default values
func CreateTestFundraiser(title string) *models.Fundraiser {
	return &models.Fundraiser{
		Title: title,
	}
}

// CreateTestSupporter creates a test supporter with default values
func CreateTestSupporter(firstName, lastName string) *models.Supporter {
	return &models.Supporter{
		FirstName: firstName,
		LastName:  lastName,
		Email:     fmt.Sprintf("%s.%s@example.com", firstName, lastName),
	}
}

// CreateTestOrder creates a succeeded test order for the given tickets
func CreateTestOrder(fundraiserID, supporterID int64, tickets ...int64) *models.Order {
	return &models.Order{
		TicketNumbers:         tickets,
		Amount:                int64(len(tickets)) * 500,
		StripePaymentIntentID: fmt.Sprintf("pi_test_%d", paymentIntentSeq.Add(1)),
		StripePaymentStatus:   models.PaymentStatusSucceeded,
		FundraiserID:          fundraiserID,
		SupporterID:           supporterID,
	}
}

// CreateTestDraw creates a pending test draw
func CreateTestDraw(fundraiserID int64, drawDate time.Time) *models.Draw {
	return &models.Draw{
		DrawDate:     drawDate,
		Prize:        "Gift hamper",
		FundraiserID: fundraiserID,
	}
}

// InsertFundraiser stores f and sets its ID
func InsertFundraiser(t *testing.T, db *database.DB, f *models.Fundraiser) {
	t.Helper()
	err := db.QueryRow(context.Background(), `
		INSERT INTO fundraisers (title, tickets_sold, fund_raised)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, f.Title, f.TicketsSold, f.FundRaised).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	require.NoError(t, err)
}

// InsertSupporter stores s and sets its ID
func InsertSupporter(t *testing.T, db *database.DB, s *models.Supporter) {
	t.Helper()
	err := db.QueryRow(context.Background(), `
		INSERT INTO supporters (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, s.FirstName, s.LastName, s.Email).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	require.NoError(t, err)
}

// InsertOrder stores o and sets its ID
func InsertOrder(t *testing.T, db *database.DB, o *models.Order) {
	t.Helper()
	err := db.QueryRow(context.Background(), `
		INSERT INTO orders (ticket_numbers, amount, stripe_payment_intent_id, stripe_payment_status, fundraiser_id, supporter_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, o.TicketNumbers, o.Amount, o.StripePaymentIntentID, string(o.StripePaymentStatus), o.FundraiserID, o.SupporterID,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	require.NoError(t, err)
}

// InsertDraw stores d and sets its ID
func InsertDraw(t *testing.T, db *database.DB, d *models.Draw) {
	t.Helper()
	err := db.QueryRow(context.Background(), `
		INSERT INTO draws (draw_date, prize, fundraiser_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, d.DrawDate, d.Prize, d.FundraiserID).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	require.NoError(t, err)
}

// Scenario is a fundraiser with three supporters owning tickets 1-3, 4-5 and 6,
// and one pending draw dated today
type Scenario struct {
	Fundraiser *models.Fundraiser
	Supporters []*models.Supporter
	Orders     []*models.Order
	Draw       *models.Draw
}

// OwnerOf returns the supporter ID that bought ticket in the scenario
func (s *Scenario) OwnerOf(ticket int64) int64 {
	for _, o := range s.Orders {
		for _, n := range o.TicketNumbers {
			if n == ticket {
				return o.SupporterID
			}
		}
	}
	return 0
}

// InsertScenario stores the three-order scenario
func InsertScenario(t *testing.T, db *database.DB) *Scenario {
	t.Helper()

	fundraiser := CreateTestFundraiser("School Roof Appeal")
	InsertFundraiser(t, db, fundraiser)

	s := &Scenario{Fundraiser: fundraiser}
	tickets := [][]int64{{1, 2, 3}, {4, 5}, {6}}
	names := []string{"ada", "grace", "linus"}
	for i, name := range names {
		supporter := CreateTestSupporter(name, "tester")
		InsertSupporter(t, db, supporter)
		s.Supporters = append(s.Supporters, supporter)

		order := CreateTestOrder(fundraiser.ID, supporter.ID, tickets[i]...)
		InsertOrder(t, db, order)
		s.Orders = append(s.Orders, order)
	}

	s.Draw = CreateTestDraw(fundraiser.ID, time.Now().UTC())
	InsertDraw(t, db, s.Draw)

	return s
}
