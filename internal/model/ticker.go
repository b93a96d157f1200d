package model

import (
	"math"

	"tickerhub/internal/adapter"

	"github.com/bytedance/sonic"
)

// TickerFields is the full field set a Ticker is built from. Numeric fields
// hold adapter.Unknown() when the source did not provide them; start from
// UnknownFields so that omitted fields never read as zero.
type TickerFields struct {
	Base           string
	Quote          string
	BaseName       string
	QuoteName      string
	BaseReference  string
	QuoteReference string

	Open        float64
	High        float64
	Low         float64
	Close       float64
	BaseVolume  float64
	QuoteVolume float64
	Bid         float64
	Ask         float64
}

// UnknownFields returns a field set for base/quote with every numeric field
// unknown.
func UnknownFields(base, quote string) TickerFields {
	unknown := adapter.Unknown()
	return TickerFields{
		Base:        base,
		Quote:       quote,
		Open:        unknown,
		High:        unknown,
		Low:         unknown,
		Close:       unknown,
		BaseVolume:  unknown,
		QuoteVolume: unknown,
		Bid:         unknown,
		Ask:         unknown,
	}
}

// Ticker is a normalized snapshot of one market pair. It is immutable once
// constructed.
type Ticker struct {
	f TickerFields
}

func NewTicker(f TickerFields) Ticker {
	return Ticker{f: f}
}

// Fields returns a copy of the values the ticker was built from.
func (t Ticker) Fields() TickerFields { return t.f }

func (t Ticker) Base() string           { return t.f.Base }
func (t Ticker) Quote() string          { return t.f.Quote }
func (t Ticker) BaseName() string       { return t.f.BaseName }
func (t Ticker) QuoteName() string      { return t.f.QuoteName }
func (t Ticker) BaseReference() string  { return t.f.BaseReference }
func (t Ticker) QuoteReference() string { return t.f.QuoteReference }
func (t Ticker) Open() float64          { return t.f.Open }
func (t Ticker) High() float64          { return t.f.High }
func (t Ticker) Low() float64           { return t.f.Low }
func (t Ticker) Close() float64         { return t.f.Close }
func (t Ticker) BaseVolume() float64    { return t.f.BaseVolume }
func (t Ticker) QuoteVolume() float64   { return t.f.QuoteVolume }
func (t Ticker) Bid() float64           { return t.f.Bid }
func (t Ticker) Ask() float64           { return t.f.Ask }

// Pair returns "BASE/QUOTE".
func (t Ticker) Pair() string {
	return t.f.Base + "/" + t.f.Quote
}

type tickerJSON struct {
	Base           string   `json:"base"`
	Quote          string   `json:"quote"`
	BaseName       string   `json:"baseName,omitempty"`
	QuoteName      string   `json:"quoteName,omitempty"`
	BaseReference  string   `json:"baseReference,omitempty"`
	QuoteReference string   `json:"quoteReference,omitempty"`
	Open           *float64 `json:"open"`
	High           *float64 `json:"high"`
	Low            *float64 `json:"low"`
	Close          *float64 `json:"close"`
	BaseVolume     *float64 `json:"baseVolume"`
	QuoteVolume    *float64 `json:"quoteVolume"`
	Bid            *float64 `json:"bid"`
	Ask            *float64 `json:"ask"`
}

// MarshalJSON writes unknown numeric fields as null.
func (t Ticker) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(tickerJSON{
		Base:           t.f.Base,
		Quote:          t.f.Quote,
		BaseName:       t.f.BaseName,
		QuoteName:      t.f.QuoteName,
		BaseReference:  t.f.BaseReference,
		QuoteReference: t.f.QuoteReference,
		Open:           known(t.f.Open),
		High:           known(t.f.High),
		Low:            known(t.f.Low),
		Close:          known(t.f.Close),
		BaseVolume:     known(t.f.BaseVolume),
		QuoteVolume:    known(t.f.QuoteVolume),
		Bid:            known(t.f.Bid),
		Ask:            known(t.f.Ask),
	})
}

// UnmarshalJSON reads null or missing numeric fields back as unknown.
func (t *Ticker) UnmarshalJSON(data []byte) error {
	var raw tickerJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.f = TickerFields{
		Base:           raw.Base,
		Quote:          raw.Quote,
		BaseName:       raw.BaseName,
		QuoteName:      raw.QuoteName,
		BaseReference:  raw.BaseReference,
		QuoteReference: raw.QuoteReference,
		Open:           orUnknown(raw.Open),
		High:           orUnknown(raw.High),
		Low:            orUnknown(raw.Low),
		Close:          orUnknown(raw.Close),
		BaseVolume:     orUnknown(raw.BaseVolume),
		QuoteVolume:    orUnknown(raw.QuoteVolume),
		Bid:            orUnknown(raw.Bid),
		Ask:            orUnknown(raw.Ask),
	}

	return nil
}

// known returns nil for the unknown sentinel and for infinities, which JSON
// cannot carry.
func known(f float64) *float64 {
	if adapter.IsUnknown(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func orUnknown(f *float64) float64 {
	if f == nil {
		return adapter.Unknown()
	}
	return *f
}
