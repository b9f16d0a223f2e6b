package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-listings/internal/config"
	"rental-listings/internal/models"
)

// GormDB is the MySQL listing store
type GormDB struct {
	db *gorm.DB
}

func NewGormDB(cfg config.MySQLConfig) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema(ctx context.Context) error {
	return gdb.db.WithContext(ctx).AutoMigrate(&models.Listing{})
}

// CreateListing inserts l; gorm fills in the timestamps
func (gdb *GormDB) CreateListing(ctx context.Context, l *models.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return gdb.db.WithContext(ctx).Create(l).Error
}

// ListListings returns every listing, newest first
func (gdb *GormDB) ListListings(ctx context.Context) ([]models.Listing, error) {
	listings := []models.Listing{}
	err := gdb.db.WithContext(ctx).Order("created_at DESC").Find(&listings).Error
	return listings, err
}
