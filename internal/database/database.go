package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"dealdesk/server/internal/models"
)

// DefaultRunLimit caps ListRuns when no limit is given
const DefaultRunLimit = 50

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one connection also keeps the
	// foreign key pragma and in-memory databases consistent
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetDB exposes the gorm handle for transactional writers
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type dealContextRow struct {
	DealID   uuid.UUID
	ParkName string
	Address  *string
}

// GetDealContext follows deal -> lead -> park. It returns nil, nil when the
// deal is unknown.
func (d *Database) GetDealContext(ctx context.Context, dealID uuid.UUID) (*models.DealContext, error) {
	var row dealContextRow
	result := d.db.WithContext(ctx).
		Table("deals").
		Select("deals.id AS deal_id, parks.name AS park_name, parks.address AS address").
		Joins("JOIN leads ON leads.id = deals.lead_id").
		Joins("JOIN parks ON parks.id = leads.park_id").
		Where("deals.id = ?", dealID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load deal %s: %w", dealID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &models.DealContext{
		DealID:   row.DealID,
		ParkName: row.ParkName,
		Address:  row.Address,
	}, nil
}

// SaveRuns inserts audit records inside the caller's transaction. Records
// whose ID already exists are skipped, so a retried batch is harmless.
func SaveRuns(tx *gorm.DB, runs []*models.UnderwritingRun) error {
	if len(runs) == 0 {
		return nil
	}
	for _, run := range runs {
		if run.ID == uuid.Nil {
			run.ID = uuid.New()
		}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&runs).Error
}

// GetRun returns the audit record with id, or nil, nil when there is none
func (d *Database) GetRun(ctx context.Context, id uuid.UUID) (*models.UnderwritingRun, error) {
	var run models.UnderwritingRun
	err := d.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the newest audit records first, optionally for one deal
func (d *Database) ListRuns(ctx context.Context, dealID *uuid.UUID, limit int) ([]models.UnderwritingRun, error) {
	if limit <= 0 || limit > DefaultRunLimit {
		limit = DefaultRunLimit
	}

	query := d.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if dealID != nil {
		query = query.Where("deal_id = ?", *dealID)
	}

	runs := []models.UnderwritingRun{}
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// PruneRuns deletes audit records created before cutoff and returns how many
// were removed
func (d *Database) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	result := d.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.UnderwritingRun{})
	return result.RowsAffected, result.Error
}
