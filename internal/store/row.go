package store

import (
	"math"
	"time"

	"github.com/google/uuid"

	"tickerhub/internal/collector"
	"tickerhub/internal/model"
)

// SnapshotRow is one driver run within a collector round.
type SnapshotRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoundID   uuid.UUID `gorm:"type:uuid;index"`
	Driver    string    `gorm:"size:64;index"`
	TakenAt   time.Time `gorm:"index"`
	ElapsedMs int64
	Tickers   int
	Error     *string
}

func (SnapshotRow) TableName() string { return "ticker_snapshots" }

// TickerRow is one normalized ticker. Unknown values are stored as NULL.
type TickerRow struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	SnapshotID     uuid.UUID `gorm:"type:uuid;index"`
	Driver         string    `gorm:"size:64;index"`
	Base           string    `gorm:"size:128"`
	Quote          string    `gorm:"size:128"`
	BaseName       *string
	QuoteName      *string
	BaseReference  *string
	QuoteReference *string
	Open           *float64
	High           *float64
	Low            *float64
	Close          *float64
	BaseVolume     *float64
	QuoteVolume    *float64
	Bid            *float64
	Ask            *float64
}

func (TickerRow) TableName() string { return "tickers" }

// Rows maps a collector round to snapshot and ticker rows. Every result
// gets a snapshot row, failed ones carry the error text.
func Rows(roundID uuid.UUID, takenAt time.Time, results []collector.Result, newID func() uuid.UUID) ([]SnapshotRow, []TickerRow) {
	snapshots := make([]SnapshotRow, 0, len(results))
	var tickers []TickerRow

	for _, r := range results {
		snap := SnapshotRow{
			ID:        newID(),
			RoundID:   roundID,
			Driver:    r.Driver,
			TakenAt:   takenAt,
			ElapsedMs: r.Elapsed.Milliseconds(),
		}

		if r.Err != nil {
			msg := r.Err.Error()
			snap.Error = &msg
		} else {
			snap.Tickers = len(r.Tickers)
			for _, t := range r.Tickers {
				tickers = append(tickers, TickerRowOf(snap.ID, r.Driver, t))
			}
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, tickers
}

// TickerRowOf maps one ticker.
func TickerRowOf(snapshotID uuid.UUID, driver string, t model.Ticker) TickerRow {
	return TickerRow{
		SnapshotID:     snapshotID,
		Driver:         driver,
		Base:           t.Base(),
		Quote:          t.Quote(),
		BaseName:       nullString(t.BaseName()),
		QuoteName:      nullString(t.QuoteName()),
		BaseReference:  nullString(t.BaseReference()),
		QuoteReference: nullString(t.QuoteReference()),
		Open:           nullFloat(t.Open()),
		High:           nullFloat(t.High()),
		Low:            nullFloat(t.Low()),
		Close:          nullFloat(t.Close()),
		BaseVolume:     nullFloat(t.BaseVolume()),
		QuoteVolume:    nullFloat(t.QuoteVolume()),
		Bid:            nullFloat(t.Bid()),
		Ask:            nullFloat(t.Ask()),
	}
}

func nullFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
