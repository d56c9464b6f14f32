package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/room-reservations/internal/config"
	"github.com/example/room-reservations/internal/identity"
	"github.com/example/room-reservations/internal/persistence"
)

// Seed data mirrors a small lab: one shared meeting room and a couple of
// member accounts. Reruns are idempotent; existing rows are left untouched.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with a demo room and users, printing their bearer tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			defer storage.Close()

			if err := storage.Migrate(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			now := time.Now().UTC()

			room := persistence.Room{
				ID:          "room-shared",
				Name:        "Shared Meeting Room",
				Capacity:    10,
				Description: "The common meeting room on the 3rd floor",
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := storage.CreateRoom(ctx, room); err != nil && !errors.Is(err, persistence.ErrDuplicate) {
				return fmt.Errorf("seed room: %w", err)
			}

			users := []persistence.User{
				{ID: "user-kim", Name: "Kim", Lab: "Quantum Security", CreatedAt: now, UpdatedAt: now},
				{ID: "user-lee", Name: "Lee", Lab: "Mobile Internet Security", CreatedAt: now, UpdatedAt: now},
			}

			codec := identity.NewTokenCodec(cfg.IdentitySecret)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "room %s (%s)\n", room.ID, room.Name)
			for _, user := range users {
				if err := storage.CreateUser(ctx, user); err != nil && !errors.Is(err, persistence.ErrDuplicate) {
					return fmt.Errorf("seed user %s: %w", user.ID, err)
				}
				fmt.Fprintf(out, "user %s (%s, %s)\n  token: %s\n", user.ID, user.Name, user.Lab, codec.Mint(user.ID))
			}
			return nil
		},
	}
}
