package subgraph

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/pkg/exception"
)

const (
	EthereumBlocksURL = "https://api.thegraph.com/subgraphs/name/blocklytics/ethereum-blocks"
	PolygonBlocksURL  = "https://api.thegraph.com/subgraphs/name/matthewlilley/polygon-blocks"

	// DefaultTolerance is how far past the target a block may be.
	DefaultTolerance = 10 * time.Minute
)

// Block is an indexed unit a historical query can be pinned to.
type Block struct {
	Number    int64
	Timestamp int64
}

type blockRow struct {
	Number    string `json:"number"`
	Timestamp string `json:"timestamp"`
}

type blocksData struct {
	Blocks []blockRow `json:"blocks"`
}

// BlockResolver finds the block nearest to a timestamp through a blocks
// subgraph.
type BlockResolver struct {
	client    request.Client
	url       string
	tolerance time.Duration
}

func NewBlockResolver(client request.Client, url string, tolerance time.Duration) *BlockResolver {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	return &BlockResolver{
		client:    client,
		url:       url,
		tolerance: tolerance,
	}
}

// Resolve returns the block closest to the end of the window
// (target, target+tolerance). An empty window fails with
// ErrUnresolvedHistoricalWindow; the window is never widened.
func (r *BlockResolver) Resolve(ctx context.Context, target int64) (Block, error) {
	data, err := Query[blocksData](ctx, r.client, r.url, r.query(target))
	if err != nil {
		return Block{}, err
	}

	if len(data.Blocks) == 0 {
		return Block{}, errors.Mark(exception.ErrUnresolvedHistoricalWindow, nil,
			fmt.Sprintf("no block between %d and %d", target, r.upper(target)))
	}

	row := data.Blocks[0]
	number, err := strconv.ParseInt(row.Number, 10, 64)
	if err != nil {
		return Block{}, errors.Mark(exception.ErrFetchFailed, err, "parse block number "+strconv.Quote(row.Number))
	}

	ts, err := strconv.ParseInt(row.Timestamp, 10, 64)
	if err != nil {
		return Block{}, errors.Mark(exception.ErrFetchFailed, err, "parse block timestamp "+strconv.Quote(row.Timestamp))
	}

	return Block{Number: number, Timestamp: ts}, nil
}

func (r *BlockResolver) upper(target int64) int64 {
	return target + int64(r.tolerance/time.Second)
}

func (r *BlockResolver) query(target int64) string {
	return fmt.Sprintf(`{
  blocks(
    first: 1,
    orderBy: timestamp,
    orderDirection: desc,
    where: {timestamp_gt: %d, timestamp_lt: %d}
  ) {
    number
    timestamp
  }
}`, target, r.upper(target))
}
