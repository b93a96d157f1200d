package bitmart

import (
	"net/http"
	"testing"

	"tickerhub/internal/adapter"
	"tickerhub/internal/driver"
	"tickerhub/internal/driver/drivertest"
	"tickerhub/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickersPayload = `{
	"message": "OK",
	"code": 1000,
	"data": {"tickers": [
		{
			"symbol": "BTC_USDT",
			"url": "https://www.bitmart.com/trade/en?symbol=BTC_USDT",
			"open_24h": "64000.10",
			"high_24h": "65500",
			"low_24h": "63800.5",
			"close_24h": "65010.25",
			"base_volume_24h": "1520.5",
			"quote_volume_24h": "98500000.75",
			"best_bid": "65010.2",
			"best_ask": "65010.3"
		},
		{
			"symbol": "ETH_USDT",
			"url": "https://www.bitmart.com/trade/en?symbol=ETH_USDT",
			"open_24h": "3100",
			"high_24h": "",
			"low_24h": null,
			"close_24h": 3150.5,
			"base_volume_24h": "900",
			"quote_volume_24h": "2835450",
			"best_bid": "3150.4",
			"best_ask": "3150.6"
		}
	]}
}`

func TestFetchTickers(t *testing.T) {
	client := drivertest.NewClient(map[string]string{_tickerURL: tickersPayload})

	tickers, err := New(client, driver.Config{}).FetchTickers(t.Context())
	require.NoError(t, err)
	require.Len(t, tickers, 2)

	btc := tickers[0]
	assert.Equal(t, "BTC", btc.Base())
	assert.Equal(t, "USDT", btc.Quote())
	assert.Equal(t, 64000.10, btc.Open())
	assert.Equal(t, 65500.0, btc.High())
	assert.Equal(t, 63800.5, btc.Low())
	assert.Equal(t, 65010.25, btc.Close())
	assert.Equal(t, 1520.5, btc.BaseVolume())
	assert.Equal(t, 98500000.75, btc.QuoteVolume())
	assert.Equal(t, 65010.2, btc.Bid())
	assert.Equal(t, 65010.3, btc.Ask())

	eth := tickers[1]
	assert.Equal(t, "ETH", eth.Base())
	assert.True(t, adapter.IsUnknown(eth.High()))
	assert.True(t, adapter.IsUnknown(eth.Low()))
	assert.Equal(t, 3150.5, eth.Close())

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
}

func TestFetchTickersSpecificMarkets(t *testing.T) {
	client := drivertest.NewClient(map[string]string{_tickerURL: tickersPayload})

	d := New(client, driver.Config{Markets: []string{"ETH_USDT", "DOGE_USDT"}})
	require.True(t, d.Supports().SpecificMarkets)

	tickers, err := d.FetchTickers(t.Context())
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	assert.Equal(t, "ETH", tickers[0].Base())
}

func TestFetchTickersMalformedSymbol(t *testing.T) {
	client := drivertest.NewClient(map[string]string{
		_tickerURL: `{"data":{"tickers":[{"url":"https://www.bitmart.com/trade/en?symbol=BTCUSDT","close_24h":"1"}]}}`,
	})

	tickers, err := New(client, driver.Config{}).FetchTickers(t.Context())
	require.ErrorIs(t, err, exception.ErrMalformedSymbol)
	assert.Nil(t, tickers)
}

func TestFetchTickersFetchFailed(t *testing.T) {
	client := drivertest.NewClient(nil)

	tickers, err := New(client, driver.Config{}).FetchTickers(t.Context())
	require.ErrorIs(t, err, exception.ErrFetchFailed)
	assert.Nil(t, tickers)
}
