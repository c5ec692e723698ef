package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	pg "animal-chip-tracker/internal/adapters/storage/postgres"
	"animal-chip-tracker/internal/platform/config"
	"animal-chip-tracker/internal/platform/logger"
	"animal-chip-tracker/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "animal-chip-tracker",
	})

	opts := router.Options{
		Log:                       log,
		MinLocationDistanceMeters: cfg.MinLocationDistanceMeters,
		AdminEmail:                cfg.Admin.Email,
		AdminPassword:             cfg.Admin.Password,
	}

	if cfg.DB.DSN != "" {
		db, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		if err := pg.Migrate(context.Background(), db); err != nil {
			log.Error("db migrate failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Port, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
