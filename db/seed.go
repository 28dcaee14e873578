package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/ManrajDhatt/Pet-Haven/models"
)

// EnsureAdmin seeds the bootstrap admin account. The insert is keyed on the
// unique email column with ON CONFLICT DO NOTHING, so re-running it (every
// process start, cmd/seedadmin, tests) never creates a second admin and
// never overwrites an existing password.
func EnsureAdmin(ctx context.Context, db *bun.DB, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		IsAdmin:  true,
	}

	if _, err := db.NewInsert().Model(admin).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}

	return nil
}
