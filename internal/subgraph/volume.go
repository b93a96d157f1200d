package subgraph

import (
	"tickerhub/internal/adapter"

	"github.com/shopspring/decimal"
)

// Cumulative holds lifetime traded volumes of one market as reported by the
// source, before any parsing.
type Cumulative struct {
	Base  string
	Quote string
}

// Index builds a lookup of items keyed by id.
func Index[T any](items []T, id func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, item := range items {
		m[id(item)] = item
	}
	return m
}

// TrailingVolume turns two cumulative readings into the volume traded
// between them. A missing historical reading counts as zero, so a market
// created inside the window reports its whole lifetime volume. That also
// covers indexing gaps, which the source cannot tell apart.
//
// The result may be slightly negative when the source revised history.
func TrailingVolume(current Cumulative, historical *Cumulative) (base, quote float64) {
	if historical == nil {
		return adapter.ParseFloat(current.Base), adapter.ParseFloat(current.Quote)
	}

	return delta(current.Base, historical.Base), delta(current.Quote, historical.Quote)
}

// delta subtracts in decimal when both sides are decimal strings so the
// result keeps the precision the source reported.
func delta(current, historical string) float64 {
	c, errC := decimal.NewFromString(current)
	h, errH := decimal.NewFromString(historical)
	if errC == nil && errH == nil {
		f, _ := c.Sub(h).Float64()
		return f
	}

	return adapter.ParseFloat(current) - adapter.ParseFloat(historical)
}
