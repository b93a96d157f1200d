package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"

	"tickerhub/internal/collector"
)

const insertBatchSize = 500

var _ collector.Sink = (*Repository)(nil)

// Repository persists collector rounds to PostgreSQL.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Migrate creates or updates the snapshot tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&SnapshotRow{}, &TickerRow{}); err != nil {
		return errors.Wrap(err, "migrate snapshot tables")
	}
	return nil
}

// Save stores one round in a single transaction.
func (r *Repository) Save(ctx context.Context, results []collector.Result) error {
	roundID := uuid.New()
	snapshots, tickers := Rows(roundID, r.now().UTC(), results, uuid.New)
	if len(snapshots) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(snapshots, insertBatchSize).Error; err != nil {
			return errors.Wrap(err, "insert snapshots")
		}
		if len(tickers) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(tickers, insertBatchSize).Error; err != nil {
			return errors.Wrap(err, "insert tickers")
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "save round").With("round", roundID.String())
	}

	logs.Infof("saved round %s, drivers: %d, tickers: %d", roundID, len(snapshots), len(tickers))
	return nil
}

// Latest returns the tickers of the most recent successful snapshot of
// driver.
func (r *Repository) Latest(ctx context.Context, driver string) ([]TickerRow, error) {
	var snap SnapshotRow
	err := r.db.WithContext(ctx).
		Where("driver = ? AND error IS NULL", driver).
		Order("taken_at DESC").
		First(&snap).Error
	if err != nil {
		return nil, errors.Wrap(err, "find latest snapshot")
	}

	var rows []TickerRow
	if err := r.db.WithContext(ctx).Where("snapshot_id = ?", snap.ID).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "find tickers")
	}
	return rows, nil
}
