package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type Config struct {
	// Driver is "postgres" or "sqlite". Sqlite exists for local dev and
	// one-off tooling; production runs postgres.
	Driver string
	DSN    string
}

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(baseLog *logger.Logger, cfg Config) (*Service, error) {
	log := baseLog.With("service", "DBService")

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "", "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	log.Info("connecting to database", "driver", cfg.Driver)
	// TranslateError makes both drivers surface unique violations as
	// gorm.ErrDuplicatedKey, which the repo error mapper depends on.
	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if strings.ToLower(cfg.Driver) != "sqlite" {
		if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
		}
	}

	return &Service{db: gdb, log: log}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("migrating tables")
	return s.db.AutoMigrate(
		&types.Customer{},
		&types.LegacyCustomer{},
		&types.OTPChallenge{},
		&types.Booking{},
		&types.Address{},
	)
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
