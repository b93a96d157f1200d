package xmex

import (
	"context"

	"tickerhub/internal/adapter"
	"tickerhub/internal/driver"
	"tickerhub/internal/model"
	"tickerhub/internal/request"
)

const (
	Name = "xmex"

	_allTickerURL = "http://hqdj.xmex.co:8080/xmex2/api/v1/allticker"
)

// Driver reads the XMEX all-ticker endpoint. It has no open price or base
// volume; "vol" is denominated in the quote asset.
type Driver struct {
	driver.Base

	client request.Client
	url    string
}

func New(client request.Client, cfg driver.Config) *Driver {
	return &Driver{
		Base:   driver.NewBase(Name, driver.Supports{}, cfg),
		client: client,
		url:    _allTickerURL,
	}
}

type ticker struct {
	Symbol string         `json:"symbol"`
	High   adapter.Number `json:"high"`
	Low    adapter.Number `json:"low"`
	Last   adapter.Number `json:"last"`
	Buy    adapter.Number `json:"buy"`
	Sell   adapter.Number `json:"sell"`
	Vol    adapter.Number `json:"vol"`
}

type response struct {
	Ticker []ticker `json:"ticker"`
}

func (d *Driver) FetchTickers(ctx context.Context) ([]model.Ticker, error) {
	var resp response
	if err := d.client.Do(ctx, request.Get(d.url), &resp); err != nil {
		return nil, err
	}

	tickers := make([]model.Ticker, 0, len(resp.Ticker))
	for _, t := range resp.Ticker {
		base, quote, err := adapter.SplitMarketSymbol(t.Symbol, "_")
		if err != nil {
			return nil, err
		}

		f := model.UnknownFields(base, quote)
		f.High = t.High.Float()
		f.Low = t.Low.Float()
		f.Close = t.Last.Float()
		f.Bid = t.Buy.Float()
		f.Ask = t.Sell.Float()
		f.QuoteVolume = t.Vol.Float()

		tickers = append(tickers, model.NewTicker(f))
	}

	return tickers, nil
}
