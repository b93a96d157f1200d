package uniswap3

import (
	"context"
	"fmt"
	"time"

	"tickerhub/internal/adapter"
	"tickerhub/internal/driver"
	"tickerhub/internal/model"
	"tickerhub/internal/request"
	"tickerhub/internal/subgraph"

	"golang.org/x/sync/errgroup"
)

const (
	Name        = "uniswap3"
	PolygonName = "uniswap3polygon"

	EthereumPoolsURL = "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3"
	PolygonPoolsURL  = "https://api.thegraph.com/subgraphs/name/ianlapham/uniswap-v3-polygon"

	// DefaultLimit is how many pools are requested, ranked by USD volume.
	DefaultLimit = 1000
)

// Endpoints points the driver at one deployment of the subgraphs.
type Endpoints struct {
	Pools  string
	Blocks string
}

var (
	Ethereum = Endpoints{Pools: EthereumPoolsURL, Blocks: subgraph.EthereumBlocksURL}
	Polygon  = Endpoints{Pools: PolygonPoolsURL, Blocks: subgraph.PolygonBlocksURL}
)

// Options tunes a driver beyond the common driver.Config.
type Options struct {
	Endpoints Endpoints
	Lookback  subgraph.Lookback
	Tolerance time.Duration
	Limit     int
}

// Driver reads Uniswap v3 pools. The subgraph only reports lifetime
// volumes, so 24h volumes are computed against a snapshot pinned to the
// block mined a day ago.
type Driver struct {
	driver.Base

	client   request.Client
	poolsURL string
	blocks   *subgraph.BlockResolver
	lookback subgraph.Lookback
	limit    int
}

// New returns the Ethereum mainnet driver.
func New(client request.Client, cfg driver.Config) *Driver {
	return NewWithOptions(Name, client, cfg, Options{Endpoints: Ethereum})
}

// NewPolygon returns the Polygon driver.
func NewPolygon(client request.Client, cfg driver.Config) *Driver {
	return NewWithOptions(PolygonName, client, cfg, Options{Endpoints: Polygon})
}

func NewWithOptions(name string, client request.Client, cfg driver.Config, opts Options) *Driver {
	if len(opts.Endpoints.Pools) == 0 {
		opts.Endpoints.Pools = Ethereum.Pools
	}
	if len(opts.Endpoints.Blocks) == 0 {
		opts.Endpoints.Blocks = Ethereum.Blocks
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	return &Driver{
		Base:     driver.NewBase(name, driver.Supports{SpecificMarkets: true}, cfg),
		client:   client,
		poolsURL: opts.Endpoints.Pools,
		blocks:   subgraph.NewBlockResolver(client, opts.Endpoints.Blocks, opts.Tolerance),
		lookback: opts.Lookback,
		limit:    opts.Limit,
	}
}

type token struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type pool struct {
	ID           string `json:"id"`
	Token0       token  `json:"token0"`
	Token1       token  `json:"token1"`
	Token1Price  string `json:"token1Price"`
	VolumeToken0 string `json:"volumeToken0"`
	VolumeToken1 string `json:"volumeToken1"`
}

func (p pool) cumulative() subgraph.Cumulative {
	return subgraph.Cumulative{
		Base:  p.VolumeToken0,
		Quote: p.VolumeToken1,
	}
}

type poolsData struct {
	Pools []pool `json:"pools"`
}

func (d *Driver) FetchTickers(ctx context.Context) ([]model.Ticker, error) {
	var (
		current []pool
		block   subgraph.Block
	)

	// the current snapshot and the block lookup do not depend on each other
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		current, err = d.fetchPools(egCtx, d.Markets(), 0)
		return err
	})
	eg.Go(func() error {
		var err error
		block, err = d.blocks.Resolve(egCtx, d.lookback.Target())
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if len(current) == 0 {
		return []model.Ticker{}, nil
	}

	ids := make([]string, 0, len(current))
	for _, p := range current {
		ids = append(ids, p.ID)
	}

	historical, err := d.fetchPools(ctx, ids, block.Number)
	if err != nil {
		return nil, err
	}

	byID := subgraph.Index(historical, func(p pool) string { return p.ID })

	tickers := make([]model.Ticker, 0, len(current))
	for _, p := range current {
		var baseline *subgraph.Cumulative
		if h, ok := byID[p.ID]; ok {
			c := h.cumulative()
			baseline = &c
		}

		f := model.UnknownFields(p.Token0.Symbol, p.Token1.Symbol)
		f.BaseName = p.Token0.Name
		f.BaseReference = p.Token0.ID
		f.QuoteName = p.Token1.Name
		f.QuoteReference = p.Token1.ID
		f.Close = adapter.ParseFloat(p.Token1Price)
		f.BaseVolume, f.QuoteVolume = subgraph.TrailingVolume(p.cumulative(), baseline)

		tickers = append(tickers, model.NewTicker(f))
	}

	return tickers, nil
}

// fetchPools queries the top pools, or exactly ids when given. A zero block
// reads the latest indexed state.
func (d *Driver) fetchPools(ctx context.Context, ids []string, block int64) ([]pool, error) {
	query, err := d.poolsQuery(ids, block)
	if err != nil {
		return nil, err
	}

	data, err := subgraph.Query[poolsData](ctx, d.client, d.poolsURL, query)
	if err != nil {
		return nil, err
	}

	return data.Pools, nil
}

func (d *Driver) poolsQuery(ids []string, block int64) (string, error) {
	where := "where: {liquidity_gt: 0 volumeUSD_gt: 0}"
	if ids != nil {
		list, err := subgraph.StringList(ids)
		if err != nil {
			return "", err
		}
		where = "where: {id_in: " + list + "}"
	}

	at := ""
	if block != 0 {
		at = fmt.Sprintf(" block: {number: %d}", block)
	}

	return fmt.Sprintf(`{
  pools(first: %d %s%s orderBy: volumeUSD orderDirection: desc) {
    id
    token0 {id symbol name}
    token1 {id symbol name}
    token1Price volumeToken0 volumeToken1
  }
}`, d.limit, where, at), nil
}
