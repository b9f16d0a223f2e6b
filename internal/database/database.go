package database

import (
	"context"
	"fmt"

	"rental-listings/internal/config"
	"rental-listings/internal/models"
)

// Store is a listing store with a schema to manage
type Store interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	ListListings(ctx context.Context) ([]models.Listing, error)
	InitSchema(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*GormDB)(nil)
)

// Open connects to the backend selected by cfg.Type
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "mysql":
		gdb, err := NewGormDB(cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return gdb, nil
	case "postgres", "":
		db, err := NewDB(cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}
