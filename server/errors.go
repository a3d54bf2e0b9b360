package server

import (
	"errors"
	"fmt"
	"net/http"

	"luckydraw/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Error codes returned in the "error" field of failed responses
const (
	codeInvalidID        = "invalid_id"
	codeNotFound         = "not_found"
	codeNotDecided       = "not_decided"
	codeTooEarly         = "too_early"
	codeAlreadyDecided   = "already_decided"
	codeNoTicketsSold    = "no_tickets_sold"
	codeTransientFailure = "transient_failure"
	codeInternal         = "internal_error"
)

// retryAfterSeconds is sent with transient failures
const retryAfterSeconds = "1"

func winnerURL(drawID int64) string {
	return fmt.Sprintf("/api/draws/%d/winner", drawID)
}

// writeError maps a service error to its HTTP status and body
func writeError(c *gin.Context, err error) {
	drawErr, _ := service.AsDrawError(err)

	switch {
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": codeInvalidID, "message": err.Error()})

	case errors.Is(err, service.ErrDrawNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotFound, "message": "Draw not found"})

	case errors.Is(err, service.ErrDrawNotDecided):
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotDecided, "message": "No winner has been selected for this draw yet"})

	case errors.Is(err, service.ErrDrawTooEarly):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": codeTooEarly, "message": "The draw date has not been reached"})

	case errors.Is(err, service.ErrDrawAlreadyDecided):
		body := gin.H{"error": codeAlreadyDecided, "message": "A winner has already been selected for this draw"}
		if drawErr != nil {
			body["winnerUrl"] = winnerURL(drawErr.DrawID)
			if drawErr.WinnerSupporterID != nil {
				body["supporterId"] = *drawErr.WinnerSupporterID
			}
			if drawErr.WinningTicket != nil {
				body["ticketNumber"] = *drawErr.WinningTicket
			}
		}
		c.JSON(http.StatusConflict, body)

	case errors.Is(err, service.ErrNoTicketsSold):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": codeNoTicketsSold, "message": "No tickets have been sold for this fundraiser"})

	case errors.Is(err, service.ErrTransientFailure):
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": codeTransientFailure, "message": "Temporary failure, please retry"})

	default:
		log.WithFields(log.Fields{
			"path":  c.FullPath(),
			"error": err,
		}).Error("Unhandled error serving request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": codeInternal, "message": "Internal server error"})
	}
}
