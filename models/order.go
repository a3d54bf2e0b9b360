package models

import (
	"time"
)

// PaymentStatus mirrors the payment processor's intent status
type PaymentStatus string

const (
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusFailed     PaymentStatus = "requires_payment_method"
	PaymentStatusCanceled   PaymentStatus = "canceled"
)

// Order represents one payment and the ticket numbers it bought
type Order struct {
	ID                    int64         `db:"id"`
	TicketNumbers         []int64       `db:"ticket_numbers"`
	Amount                int64         `db:"amount"`
	StripePaymentIntentID string        `db:"stripe_payment_intent_id"`
	StripePaymentStatus   PaymentStatus `db:"stripe_payment_status"`
	FundraiserID          int64         `db:"fundraiser_id"`
	SupporterID           int64         `db:"supporter_id"`
	CreatedAt             time.Time     `db:"created_at"`
	UpdatedAt             time.Time     `db:"updated_at"`
}
