package migration

import (
	"github.com/momta/momta/internal/audit"
	authdomain "github.com/momta/momta/internal/auth/domain"
	"github.com/momta/momta/internal/config"
	contentdomain "github.com/momta/momta/internal/content/domain"
	"github.com/momta/momta/internal/seed"
	waitlistdomain "github.com/momta/momta/internal/waitlist/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres stores are for local development only.
			if err := conn.AutoMigrate(
				&waitlistdomain.Entry{},
				&contentdomain.Update{},
				&contentdomain.Research{},
				&authdomain.User{},
				&authdomain.Session{},
				&audit.Event{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureAdmin(conn, cfg)
	}),
)
