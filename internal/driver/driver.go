package driver

import (
	"context"

	"tickerhub/internal/errors"
	"tickerhub/internal/model"
)

// Driver is implemented by every exchange adapter.
//
// FetchTickers returns one point-in-time snapshot. Any failure aborts the
// whole call: a driver never returns a partial list alongside an error.
type Driver interface {
	Name() string
	Supports() Supports
	FetchTickers(ctx context.Context) ([]model.Ticker, error)
}

// Supports lists the optional capabilities of a driver.
type Supports struct {
	// SpecificMarkets means the driver can restrict a fetch to the markets
	// passed in Config.Markets.
	SpecificMarkets bool
}

// Config is the caller supplied construction input of a driver.
type Config struct {
	Markets []string
}

// Base carries the identity and configuration every driver needs. Drivers
// embed it and only add FetchTickers.
type Base struct {
	name     string
	supports Supports
	config   Config
}

func NewBase(name string, supports Supports, config Config) Base {
	markets := make([]string, len(config.Markets))
	copy(markets, config.Markets)

	return Base{
		name:     name,
		supports: supports,
		config:   Config{Markets: markets},
	}
}

func (b Base) Name() string {
	return b.name
}

func (b Base) Supports() Supports {
	return b.supports
}

// Markets returns the caller markets to restrict a fetch to. It is nil when
// the driver does not support specific markets or none were given, which
// means "the full universe".
func (b Base) Markets() []string {
	if !b.supports.SpecificMarkets || len(b.config.Markets) == 0 {
		return nil
	}

	markets := make([]string, len(b.config.Markets))
	copy(markets, b.config.Markets)
	return markets
}

// Fetch runs d and stamps any failure with the driver name.
func Fetch(ctx context.Context, d Driver) ([]model.Ticker, error) {
	tickers, err := d.FetchTickers(ctx)
	if err != nil {
		return nil, errors.WithDriver(d.Name(), err)
	}

	return tickers, nil
}
