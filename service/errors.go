package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the draw services. Match them with errors.Is.
var (
	ErrDrawNotFound       = errors.New("draw not found")
	ErrDrawTooEarly       = errors.New("draw date is in the future")
	ErrDrawAlreadyDecided = errors.New("winner already selected for this draw")
	ErrNoTicketsSold      = errors.New("no tickets sold for this fundraiser")
	ErrTransientFailure   = errors.New("transient failure, safe to retry")

	ErrDrawNotDecided = errors.New("no winner has been selected for this draw yet")
	ErrInvalidID      = errors.New("id must be a positive integer")
)

// DrawError describes why a draw operation failed
type DrawError struct {
	Kind   error // One of the Err* kinds above
	DrawID int64

	// Set on ErrDrawAlreadyDecided so callers can route to the existing winner
	WinnerSupporterID *int64
	WinningTicket     *int64

	Err error // Underlying cause, if any
}

func (e *DrawError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("draw %d: %v: %v", e.DrawID, e.Kind, e.Err)
	}
	return fmt.Sprintf("draw %d: %v", e.DrawID, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *DrawError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newDrawError(kind error, drawID int64, cause error) *DrawError {
	return &DrawError{Kind: kind, DrawID: drawID, Err: cause}
}

// AsDrawError extracts a *DrawError from err
func AsDrawError(err error) (*DrawError, bool) {
	var drawErr *DrawError
	if errors.As(err, &drawErr) {
		return drawErr, true
	}
	return nil, false
}
