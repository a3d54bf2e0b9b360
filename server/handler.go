package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"luckydraw/models"
	"luckydraw/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the draw HTTP API
type Handler struct {
	draws service.DrawService
	pools service.TicketPoolService
	db    Pinger
}

// NewHandler creates a new Handler
func NewHandler(draws service.DrawService, pools service.TicketPoolService, db Pinger) *Handler {
	return &Handler{
		draws: draws,
		pools: pools,
		db:    db,
	}
}

// RegisterRoutes registers all the application routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/draws/:id/winner", h.SelectWinner)
	api.GET("/draws/:id/winner", h.GetWinner)
	api.GET("/fundraisers/:id/tickets", h.ListTickets)
}

type winnerIdentity struct {
	SupporterID int64  `json:"supporterId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
}

type winnerData struct {
	Winner       winnerIdentity `json:"winner"`
	TicketNumber int64          `json:"ticketNumber"`
	DrawID       int64          `json:"drawId"`
	DecidedAt    string         `json:"decidedAt"`
}

func newWinnerData(result *models.WinnerResult) winnerData {
	return winnerData{
		Winner: winnerIdentity{
			SupporterID: result.SupporterID,
			FirstName:   result.FirstName,
			LastName:    result.LastName,
			Email:       result.Email,
		},
		TicketNumber: result.TicketNumber,
		DrawID:       result.DrawID,
		DecidedAt:    result.DecidedAt.UTC().Format(time.RFC3339),
	}
}

// SelectWinner handles POST /api/draws/:id/winner
func (h *Handler) SelectWinner(c *gin.Context) {
	drawID, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.draws.SelectWinner(c.Request.Context(), drawID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Winner selected",
		"data":    newWinnerData(result),
	})
}

// GetWinner handles GET /api/draws/:id/winner
func (h *Handler) GetWinner(c *gin.Context) {
	drawID, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.draws.GetWinner(c.Request.Context(), drawID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Winner found",
		"data":    newWinnerData(result),
	})
}

// ListTickets handles GET /api/fundraisers/:id/tickets
func (h *Handler) ListTickets(c *gin.Context) {
	fundraiserID, ok := parseID(c)
	if !ok {
		return
	}

	pool, err := h.pools.ResolvePool(c.Request.Context(), fundraiserID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"fundraiserId": fundraiserID,
			"count":        len(pool),
			"tickets":      pool,
		},
	})
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   codeInvalidID,
			"message": "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
