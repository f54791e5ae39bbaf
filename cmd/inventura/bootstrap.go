package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/erazemk/inventura/internal/auth"
	"github.com/erazemk/inventura/internal/model"
	"github.com/erazemk/inventura/internal/store"
)

// ensureAdmin creates the bootstrap admin account when no admin exists.
func ensureAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	ok, err := store.HasAdmin(ctx, db)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = store.CreateUser(ctx, db, username, hash, "Administrator", model.RoleAdmin)
	if errors.Is(err, store.ErrUsernameTaken) {
		return fmt.Errorf("no admin exists and username %q is taken by a regular user; start with -user to pick another name", username)
	}
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Warn("admin account created, change its password after logging in", "user", username)
	return nil
}
