package cmd

import (
	"context"
	"fmt"
	"time"

	"luckydraw/config"
	"luckydraw/database"
	"luckydraw/events"
	"luckydraw/infrastructure"
	"luckydraw/repository"
	"luckydraw/server"
	"luckydraw/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// drawStreamName is the JetStream stream holding decided draws
const drawStreamName = "luckydraw_draws"

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	if err := configureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.WithField("environment", cfg.Environment).Info("Starting lucky draw service...")

	// Initialize database connection
	log.Info("Connecting to database...")
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, err := database.NewConnection(connectCtx, cfg.GetDatabaseURL())
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Winner notifications are handed to NATS when configured
	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		natsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(natsCtx)
		cancel()
		if err != nil {
			return err
		}
		defer natsClient.Close()

		if err := natsClient.EnsureStream(drawStreamName, []string{cfg.NATSSubject}); err != nil {
			return err
		}
		infrastructure.NewDrawNotifier(natsClient, cfg.NATSSubject).Register(eventBus)
	} else {
		log.Warn("NATS_SERVERS not set, winner notifications will not be published")
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, cfg.LockTimeoutMillis())

	// Initialize services
	drawService := service.NewDrawService(uowFactory, service.NewRandomSource(), time.Now, cfg.DrawTimezone)
	ticketPoolService := service.NewTicketPoolService(uowFactory)

	// Initialize HTTP server
	handler := server.NewHandler(drawService, ticketPoolService, db)
	router := server.NewRouter(handler, cfg.RequestTimeout)
	httpServer := server.New(cfg.HTTPAddr, router)

	log.WithFields(log.Fields{
		"addr":          cfg.HTTPAddr,
		"draw_timezone": cfg.DrawTimezone.String(),
		"lock_timeout":  cfg.LockTimeout.String(),
	}).Info("Lucky draw service is running")

	if err := httpServer.Run(ctx); err != nil {
		return err
	}

	log.Info("Shutdown completed")
	return nil
}
