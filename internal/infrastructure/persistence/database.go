package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/tilestock/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database owns the PostgreSQL connection pool the repositories share
type Database struct {
	DB *gorm.DB
}

type openOptions struct {
	logger      gormlogger.Interface
	pingTimeout time.Duration
}

// OpenOption configures Open
type OpenOption func(*openOptions)

// WithGormLogger routes SQL logging through l instead of discarding it
func WithGormLogger(l gormlogger.Interface) OpenOption {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithPingTimeout bounds the connectivity check Open runs before returning
func WithPingTimeout(d time.Duration) OpenOption {
	return func(o *openOptions) {
		o.pingTimeout = d
	}
}

// Open connects to PostgreSQL, sizes the pool from cfg and verifies the
// server answers. Writes run inside explicit transactions only, so GORM's
// implicit per-statement transaction is off.
func Open(cfg *config.DatabaseConfig, opts ...OpenOption) (*Database, error) {
	o := openOptions{
		logger:      gormlogger.Discard,
		pingTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	database := &Database{DB: db}
	ctx, cancel := context.WithTimeout(context.Background(), o.pingTimeout)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return database, nil
}

// Ping reports whether the server is reachable. The health endpoint calls it
// with the request context.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
