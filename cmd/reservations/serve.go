package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/config"
	httptransport "github.com/example/room-reservations/internal/http"
	"github.com/example/room-reservations/internal/identity"
)

func newServeCmd() *cobra.Command {
	var migrateOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			storage, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() {
				if cerr := storage.Close(); cerr != nil {
					logger.Error("failed to close store", "error", cerr)
				}
			}()

			if migrateOnStart {
				if err := storage.Migrate(ctx); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			idGenerator := uuid.NewString
			now := time.Now

			reservationRepo := newReservationRepositoryAdapter(storage)
			userDirectory := newUserDirectoryAdapter(storage)
			roomCatalog := newRoomCatalogAdapter(storage)

			reservationService := application.NewReservationServiceWithLogger(reservationRepo, userDirectory, roomCatalog, idGenerator, now, logger)
			roomService := application.NewRoomServiceWithLogger(roomCatalog, idGenerator, now, logger)

			codec := identity.NewTokenCodec(cfg.IdentitySecret)
			provider, err := identity.NewStoreProvider(codec, storage, cfg.IdentityCacheSize)
			if err != nil {
				return fmt.Errorf("build identity provider: %w", err)
			}

			router := httptransport.NewRouter(httptransport.RouterConfig{
				Reservations: httptransport.NewReservationHandler(reservationService, logger),
				Rooms:        httptransport.NewRoomHandler(roomService, logger),
				Middleware:   []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
				Authenticate: httptransport.RequireIdentity(provider, logger),
			})

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("failed to shutdown server", "error", err)
				}
			}()

			logger.Info("reservation API listening", "addr", server.Addr, "driver", cfg.DBDriver)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "run database migrations on startup")

	return cmd
}
