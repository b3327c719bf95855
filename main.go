package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DaManu123/Mizu-Sushi/handlers"
	"github.com/DaManu123/Mizu-Sushi/internal/auth"
	"github.com/DaManu123/Mizu-Sushi/internal/cart"
	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/internal/products"
	"github.com/DaManu123/Mizu-Sushi/internal/stores/postgres"
	"github.com/DaManu123/Mizu-Sushi/internal/stores/sqlite"
	"github.com/DaManu123/Mizu-Sushi/internal/users"
)

func main() {
	setupSlog()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	if err := startApp(); err != nil {
		slog.Error("service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	productsConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	offersConf, err := offers.NewConf(db)
	if err != nil {
		return err
	}
	cartConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	ordersConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	usersConf, err := users.NewConf(db)
	if err != nil {
		return err
	}

	if err := productsConf.SeedCategories(ctx); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	if err := usersConf.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seeding default users: %w", err)
	}

	// One-time drain of the old single-file database, if one is present.
	if legacyPath := os.Getenv("LEGACY_SQLITE_PATH"); legacyPath != "" {
		importer, err := sqlite.NewImporter(productsConf, offersConf, ordersConf, usersConf)
		if err != nil {
			return err
		}
		if _, err := importer.Drain(ctx, legacyPath); err != nil {
			// Import trouble should not keep the till from opening.
			slog.Error("legacy import failed", slog.String("error", err.Error()))
		}
	}

	keys, err := auth.NewKeys(os.Getenv("APP_JWT_SECRET"))
	if err != nil {
		return fmt.Errorf("loading jwt secret: %w", err)
	}

	router, err := handlers.API(handlers.Config{
		Products:  productsConf,
		Offers:    offersConf,
		Cart:      cartConf,
		Orders:    ordersConf,
		Users:     usersConf,
		Keys:      keys,
		ExportDir: os.Getenv("EXPORT_DIR"),
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("port", port))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

func setupSlog() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	})
	slog.SetDefault(slog.New(handler))
}
