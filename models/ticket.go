package models

// TicketEntry is one eligible ticket in a fundraiser's pool together with its owner
type TicketEntry struct {
	TicketNumber int64  `db:"ticket_number" json:"ticketNumber"`
	OrderID      int64  `db:"order_id" json:"orderId"`
	SupporterID  int64  `db:"supporter_id" json:"supporterId"`
	FirstName    string `db:"first_name" json:"firstName"`
	LastName     string `db:"last_name" json:"lastName"`
	Email        string `db:"email" json:"email"`
}
