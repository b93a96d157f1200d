package bitmart

import (
	"context"
	"strings"

	"tickerhub/internal/adapter"
	"tickerhub/internal/driver"
	"tickerhub/internal/model"
	"tickerhub/internal/request"
)

const (
	Name = "bitmart"

	_tickerURL = "https://api-cloud.bitmart.com/spot/v1/ticker"
)

// Driver reads the Bitmart spot ticker list. The endpoint always returns
// every market, so specific markets are filtered locally.
type Driver struct {
	driver.Base

	client request.Client
	url    string
}

func New(client request.Client, cfg driver.Config) *Driver {
	return &Driver{
		Base:   driver.NewBase(Name, driver.Supports{SpecificMarkets: true}, cfg),
		client: client,
		url:    _tickerURL,
	}
}

type ticker struct {
	URL            string         `json:"url"`
	Open24h        adapter.Number `json:"open_24h"`
	High24h        adapter.Number `json:"high_24h"`
	Low24h         adapter.Number `json:"low_24h"`
	Close24h       adapter.Number `json:"close_24h"`
	BaseVolume24h  adapter.Number `json:"base_volume_24h"`
	QuoteVolume24h adapter.Number `json:"quote_volume_24h"`
	BestBid        adapter.Number `json:"best_bid"`
	BestAsk        adapter.Number `json:"best_ask"`
}

type response struct {
	Data struct {
		Tickers []ticker `json:"tickers"`
	} `json:"data"`
}

// symbol extracts "BTC_USDT" from the trade page link
// ".../trade/en?symbol=BTC_USDT".
func (t ticker) symbol() string {
	return t.URL[strings.LastIndex(t.URL, "=")+1:]
}

func (d *Driver) FetchTickers(ctx context.Context) ([]model.Ticker, error) {
	var resp response
	if err := d.client.Do(ctx, request.Get(d.url), &resp); err != nil {
		return nil, err
	}

	markets := driver.NewMarketSet(d.Markets())
	tickers := make([]model.Ticker, 0, len(resp.Data.Tickers))
	for _, t := range resp.Data.Tickers {
		symbol := t.symbol()
		if !markets.Contains(symbol) {
			continue
		}

		base, quote, err := adapter.SplitMarketSymbol(symbol, "_")
		if err != nil {
			return nil, err
		}

		tickers = append(tickers, model.NewTicker(model.TickerFields{
			Base:        base,
			Quote:       quote,
			Open:        t.Open24h.Float(),
			High:        t.High24h.Float(),
			Low:         t.Low24h.Float(),
			Close:       t.Close24h.Float(),
			BaseVolume:  t.BaseVolume24h.Float(),
			QuoteVolume: t.QuoteVolume24h.Float(),
			Bid:         t.BestBid.Float(),
			Ask:         t.BestAsk.Float(),
		}))
	}

	return tickers, nil
}
