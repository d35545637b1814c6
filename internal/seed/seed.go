// Package seed bootstraps the initial admin account so a fresh deployment is
// usable out of the box.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/momta/momta/internal/auth/domain"
	"github.com/momta/momta/internal/auth/password"
	"github.com/momta/momta/internal/config"
	"gorm.io/gorm"
)

// EnsureAdmin creates the configured admin user if no account exists yet for
// that email. Existing accounts are left untouched, so password rotations
// survive restarts.
func EnsureAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	if email == "" || cfg.Seed.AdminPassword == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.Seed.AdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			Email:        email,
			DisplayName:  "Momta Admin",
			PasswordHash: &hashed,
			Role:         authdomain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}
