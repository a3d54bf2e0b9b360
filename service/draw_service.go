package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luckydraw/database"
	"luckydraw/events"
	"luckydraw/metrics"
	"luckydraw/models"

	log "github.com/sirupsen/logrus"
)

type drawService struct {
	uowFactory UnitOfWorkFactory
	rng        RandomSource
	now        func() time.Time
	location   *time.Location
}

// NewDrawService creates a new draw service.
// now and location decide which calendar day counts as today for date gating.
func NewDrawService(uowFactory UnitOfWorkFactory, rng RandomSource, now func() time.Time, location *time.Location) DrawService {
	if rng == nil {
		rng = NewRandomSource()
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &drawService{
		uowFactory: uowFactory,
		rng:        rng,
		now:        now,
		location:   location,
	}
}

func (s *drawService) SelectWinner(ctx context.Context, drawID int64) (result *models.WinnerResult, err error) {
	started := time.Now()
	defer func() {
		metrics.RecordWinnerSelection(selectionResult(err), started)
	}()

	if drawID <= 0 {
		return nil, newDrawError(ErrInvalidID, drawID, nil)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, s.failure(drawID, "failed to begin transaction", err)
	}
	defer uow.Rollback() // No-op if already committed

	draw, err := uow.DrawRepository().GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, s.failure(drawID, "failed to lock draw", err)
	}
	if draw == nil {
		log.WithField("draw_id", drawID).Info("Winner selection rejected, draw not found")
		return nil, newDrawError(ErrDrawNotFound, drawID, nil)
	}

	today := s.now().In(s.location)
	if !draw.IsDueOn(today) {
		log.WithFields(log.Fields{
			"draw_id":   drawID,
			"draw_date": draw.DrawDate.Format(time.DateOnly),
			"today":     today.Format(time.DateOnly),
		}).Info("Winner selection rejected, draw date not reached")
		return nil, newDrawError(ErrDrawTooEarly, drawID, nil)
	}

	if draw.IsDecided() {
		log.WithFields(log.Fields{
			"draw_id":      drawID,
			"supporter_id": *draw.SupporterID,
		}).Info("Winner selection rejected, draw already decided")
		drawErr := newDrawError(ErrDrawAlreadyDecided, drawID, nil)
		drawErr.WinnerSupporterID = draw.SupporterID
		drawErr.WinningTicket = draw.WinningTicketNumber
		return nil, drawErr
	}

	pool, err := resolveTicketPool(ctx, uow.OrderRepository(), draw.FundraiserID)
	if err != nil {
		return nil, s.failure(drawID, "failed to resolve ticket pool", err)
	}
	metrics.RecordPoolSize(len(pool))
	if len(pool) == 0 {
		log.WithFields(log.Fields{
			"draw_id":       drawID,
			"fundraiser_id": draw.FundraiserID,
		}).Warn("Winner selection rejected, no tickets sold")
		return nil, newDrawError(ErrNoTicketsSold, drawID, nil)
	}

	winner := PickTicket(pool, s.rng)
	decidedAt := s.now().UTC()

	updated, err := uow.DrawRepository().SetWinner(ctx, drawID, winner.SupporterID, winner.TicketNumber, decidedAt)
	if err != nil {
		return nil, s.failure(drawID, "failed to record winner", err)
	}
	if !updated {
		log.WithField("draw_id", drawID).Warn("Winner was recorded concurrently, discarding selection")
		return nil, newDrawError(ErrDrawAlreadyDecided, drawID, nil)
	}

	uow.EventBus().Publish(events.DrawDecidedEvent{
		DrawID:          drawID,
		FundraiserID:    draw.FundraiserID,
		FundraiserTitle: draw.FundraiserTitle,
		Prize:           draw.Prize,
		SupporterID:     winner.SupporterID,
		FirstName:       winner.FirstName,
		LastName:        winner.LastName,
		Email:           winner.Email,
		TicketNumber:    winner.TicketNumber,
		PoolSize:        len(pool),
		DecidedAt:       decidedAt,
	})

	if err := uow.Commit(); err != nil {
		return nil, s.failure(drawID, "failed to commit winner", err)
	}

	log.WithFields(log.Fields{
		"draw_id":       drawID,
		"fundraiser_id": draw.FundraiserID,
		"pool_size":     len(pool),
		"ticket_number": winner.TicketNumber,
		"supporter_id":  winner.SupporterID,
	}).Info("Winner selected")

	return &models.WinnerResult{
		DrawID:       drawID,
		SupporterID:  winner.SupporterID,
		FirstName:    winner.FirstName,
		LastName:     winner.LastName,
		Email:        winner.Email,
		TicketNumber: winner.TicketNumber,
		DecidedAt:    decidedAt,
	}, nil
}

func (s *drawService) GetWinner(ctx context.Context, drawID int64) (*models.WinnerResult, error) {
	if drawID <= 0 {
		return nil, newDrawError(ErrInvalidID, drawID, nil)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, s.failure(drawID, "failed to begin transaction", err)
	}
	defer uow.Rollback() // Read only, nothing to commit

	draw, err := uow.DrawRepository().GetByID(ctx, drawID)
	if err != nil {
		return nil, s.failure(drawID, "failed to get draw", err)
	}
	if draw == nil {
		return nil, newDrawError(ErrDrawNotFound, drawID, nil)
	}
	if !draw.IsDecided() {
		return nil, newDrawError(ErrDrawNotDecided, drawID, nil)
	}

	supporter, err := uow.SupporterRepository().GetByID(ctx, *draw.SupporterID)
	if err != nil {
		return nil, s.failure(drawID, "failed to get winning supporter", err)
	}
	if supporter == nil {
		return nil, fmt.Errorf("draw %d: winning supporter %d not found", drawID, *draw.SupporterID)
	}

	result := &models.WinnerResult{
		DrawID:      drawID,
		SupporterID: supporter.ID,
		FirstName:   supporter.FirstName,
		LastName:    supporter.LastName,
		Email:       supporter.Email,
		DecidedAt:   draw.UpdatedAt,
	}
	if draw.WinningTicketNumber != nil {
		result.TicketNumber = *draw.WinningTicketNumber
	}
	if draw.DecidedAt != nil {
		result.DecidedAt = *draw.DecidedAt
	}
	return result, nil
}

// failure wraps an infrastructure error, tagging lock timeouts, cancellations and
// dropped connections as retryable
func (s *drawService) failure(drawID int64, msg string, err error) error {
	if database.IsTransient(err) {
		log.WithFields(log.Fields{
			"draw_id": drawID,
			"error":   err,
		}).Warn("Transient failure during draw operation")
		return newDrawError(ErrTransientFailure, drawID, fmt.Errorf("%s: %w", msg, err))
	}

	log.WithFields(log.Fields{
		"draw_id": drawID,
		"error":   err,
	}).Error("Draw operation failed")
	return fmt.Errorf("%s: %w", msg, err)
}

func selectionResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrInvalidID):
		return metrics.ResultInvalidID
	case errors.Is(err, ErrDrawNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, ErrDrawTooEarly):
		return metrics.ResultTooEarly
	case errors.Is(err, ErrDrawAlreadyDecided):
		return metrics.ResultAlreadyDecided
	case errors.Is(err, ErrNoTicketsSold):
		return metrics.ResultNoTickets
	case errors.Is(err, ErrTransientFailure):
		return metrics.ResultTransient
	default:
		return metrics.ResultError
	}
}
