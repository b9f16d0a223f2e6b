package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"rental-listings/internal/config"
	"rental-listings/internal/models"
)

// DB is the PostgreSQL listing store
type DB struct {
	conn *sql.DB
}

// NewDB opens and pings a PostgreSQL connection
func NewDB(cfg config.PostgresConfig) (*DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return NewDBFromConn(conn), nil
}

// NewDBFromConn wraps an already opened connection
func NewDBFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the homes table if it doesn't exist
func (db *DB) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS homes (
		id VARCHAR(36) PRIMARY KEY,
		image TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price INTEGER NOT NULL CHECK (price >= 1),
		guests INTEGER NOT NULL CHECK (guests >= 1),
		beds INTEGER NOT NULL CHECK (beds >= 1),
		baths INTEGER NOT NULL CHECK (baths >= 1),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_homes_created_at ON homes(created_at DESC);
	`
	_, err := db.conn.ExecContext(ctx, query)
	return err
}

// CreateListing inserts l, filling in its id and timestamps
func (db *DB) CreateListing(ctx context.Context, l *models.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := `
	INSERT INTO homes (id, image, title, description, price, guests, beds, baths, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	RETURNING created_at, updated_at
	`
	return db.conn.QueryRowContext(ctx, query,
		l.ID, l.Image, l.Title, l.Description, l.Price, l.Guests, l.Beds, l.Baths, now,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// ListListings returns every listing, newest first
func (db *DB) ListListings(ctx context.Context) ([]models.Listing, error) {
	query := `
		SELECT id, image, title, description, price, guests, beds, baths, created_at, updated_at
		FROM homes
		ORDER BY created_at DESC
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		var l models.Listing
		err := rows.Scan(
			&l.ID, &l.Image, &l.Title, &l.Description,
			&l.Price, &l.Guests, &l.Beds, &l.Baths,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}
