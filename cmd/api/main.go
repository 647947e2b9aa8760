package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"CampusPlacement-backend/internal/cleaner"
	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/metrics"
	"CampusPlacement-backend/internal/notify"
	"CampusPlacement-backend/internal/server"
)

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.Warnf("Unknown LOG_LEVEL %q, using info", raw)
			return
		}
		log.SetLevel(level)
	}
}

func main() {
	setupLogging()
	metrics.Register()

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	bus := EventBus.New()

	notifier, err := notify.NewNotifier(db, bus)
	if err != nil {
		log.Fatalf("Notifier failed to start: %s", err)
	}

	sweeper, err := cleaner.NewJobSweeper(db, os.Getenv("JOB_SWEEP_SCHEDULE"))
	if err != nil {
		log.Fatalf("Job sweeper failed to start: %s", err)
	}

	srv := server.New(db, bus)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %s", err)
		}
	}()
	log.Infof("Listening on %s", srv.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Forced shutdown: %s", err)
	}

	sweeper.Stop()
	notifier.Close()
	if err := db.Close(); err != nil {
		log.Errorf("Failed to close database: %s", err)
	}
}
