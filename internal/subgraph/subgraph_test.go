package subgraph

import (
	"context"
	"testing"
	"time"

	"tickerhub/internal/adapter"
	internalerrors "tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/pkg/exception"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pinnedTimestamp int64 = 1627305331

// stubClient answers every query with the payload returned by handle.
func stubClient(handle func(url, query string) (string, error)) request.Client {
	return request.ClientFunc(func(ctx context.Context, req request.Request, out any) error {
		body := req.JSONBody.(queryBody)
		payload, err := handle(req.URL, body.Query)
		if err != nil {
			return err
		}
		return sonic.UnmarshalString(payload, out)
	})
}

func TestQuery(t *testing.T) {
	type poolsData struct {
		Pools []struct {
			ID string `json:"id"`
		} `json:"pools"`
	}

	client := stubClient(func(url, query string) (string, error) {
		assert.Equal(t, "https://example/subgraph", url)
		assert.Equal(t, "{ pools { id } }", query)
		return `{"data":{"pools":[{"id":"A"},{"id":"B"}]}}`, nil
	})

	data, err := Query[poolsData](t.Context(), client, "https://example/subgraph", "{ pools { id } }")
	require.NoError(t, err)
	require.Len(t, data.Pools, 2)
	assert.Equal(t, "B", data.Pools[1].ID)
}

func TestQueryFailures(t *testing.T) {
	testCases := []struct {
		desc    string
		payload string
		err     error
	}{
		{"graphql errors", `{"errors":[{"message":"indexing error"}]}`, nil},
		{"missing data", `{}`, nil},
		{"transport", "", internalerrors.Mark(exception.ErrFetchFailed, nil, "down")},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			client := stubClient(func(url, query string) (string, error) {
				return tc.payload, tc.err
			})

			_, err := Query[map[string]any](t.Context(), client, "https://example/subgraph", "{}")
			require.ErrorIs(t, err, exception.ErrFetchFailed)
		})
	}
}

func TestStringList(t *testing.T) {
	s, err := StringList([]string{"0xabc", "0xdef"})
	require.NoError(t, err)
	assert.Equal(t, `["0xabc","0xdef"]`, s)

	s, err = StringList(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, s)
}

func TestLookbackTarget(t *testing.T) {
	now := time.Unix(pinnedTimestamp+86400, 0)

	testCases := []struct {
		desc     string
		lookback Lookback
		expected int64
	}{
		{"fixed clock", Lookback{Clock: FixedClock(now)}, pinnedTimestamp},
		{"pinned wins over clock", Lookback{Clock: FixedClock(time.Unix(0, 0)), Pinned: pinnedTimestamp}, pinnedTimestamp},
		{"custom window", Lookback{Clock: FixedClock(now), Window: time.Hour}, pinnedTimestamp + 86400 - 3600},
		{"rounds to second", Lookback{Clock: FixedClock(now.Add(600 * time.Millisecond))}, pinnedTimestamp + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := tc.lookback.Target(); got != tc.expected {
				t.Fatalf("target mismatch! should be %d but got %d", tc.expected, got)
			}
		})
	}
}

func TestBlockResolverResolve(t *testing.T) {
	client := stubClient(func(url, query string) (string, error) {
		assert.Equal(t, EthereumBlocksURL, url)
		assert.Contains(t, query, "first: 1")
		assert.Contains(t, query, "orderDirection: desc")
		assert.Contains(t, query, "timestamp_gt: 1627305331, timestamp_lt: 1627305931")
		return `{"data":{"blocks":[{"number":"12904506","timestamp":"1627305925"}]}}`, nil
	})

	block, err := NewBlockResolver(client, EthereumBlocksURL, 0).Resolve(t.Context(), pinnedTimestamp)
	require.NoError(t, err)
	assert.Equal(t, Block{Number: 12904506, Timestamp: 1627305925}, block)
}

func TestBlockResolverEmptyWindow(t *testing.T) {
	client := stubClient(func(url, query string) (string, error) {
		return `{"data":{"blocks":[]}}`, nil
	})

	_, err := NewBlockResolver(client, EthereumBlocksURL, 10*time.Minute).Resolve(t.Context(), pinnedTimestamp)
	require.ErrorIs(t, err, exception.ErrUnresolvedHistoricalWindow)
	require.ErrorIs(t, err, exception.ErrFetchFailed)
}

func TestBlockResolverBadNumber(t *testing.T) {
	client := stubClient(func(url, query string) (string, error) {
		return `{"data":{"blocks":[{"number":"twelve","timestamp":"1627305925"}]}}`, nil
	})

	_, err := NewBlockResolver(client, EthereumBlocksURL, 0).Resolve(t.Context(), pinnedTimestamp)
	require.ErrorIs(t, err, exception.ErrFetchFailed)
}

func TestTrailingVolume(t *testing.T) {
	testCases := []struct {
		desc       string
		current    Cumulative
		historical *Cumulative
		base       float64
		quote      float64
	}{
		{"delta", Cumulative{"100", "2000"}, &Cumulative{"60", "1500"}, 40, 500},
		{"zero baseline", Cumulative{"25", "50"}, nil, 25, 50},
		{"decimal precision", Cumulative{"0.3", "1.0000000000000000001"}, &Cumulative{"0.1", "1"}, 0.2, 1e-19},
		{"negative revision", Cumulative{"10", "10"}, &Cumulative{"10.5", "10"}, -0.5, 0},
		{"exponent", Cumulative{"1e3", "2E2"}, &Cumulative{"5e2", "100"}, 500, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			base, quote := TrailingVolume(tc.current, tc.historical)
			assert.InDelta(t, tc.base, base, 1e-12)
			assert.InDelta(t, tc.quote, quote, 1e-30)
		})
	}
}

func TestTrailingVolumeUnknown(t *testing.T) {
	base, quote := TrailingVolume(Cumulative{"", "12"}, &Cumulative{"1", "garbage"})
	assert.True(t, adapter.IsUnknown(base))
	assert.True(t, adapter.IsUnknown(quote))

	base, quote = TrailingVolume(Cumulative{"abc", "7"}, nil)
	assert.True(t, adapter.IsUnknown(base))
	assert.Equal(t, float64(7), quote)
}

func TestIndex(t *testing.T) {
	type pool struct{ id, volume string }
	m := Index([]pool{{"A", "1"}, {"B", "2"}}, func(p pool) string { return p.id })

	require.Len(t, m, 2)
	assert.Equal(t, "2", m["B"].volume)
	_, ok := m["C"]
	assert.False(t, ok)
}
