package registry

import (
	"context"
	"testing"

	"tickerhub/internal/driver"
	"tickerhub/internal/driver/drivertest"
	"tickerhub/internal/model"
	"tickerhub/internal/request"
	"tickerhub/internal/subgraph"
	"tickerhub/pkg/exception"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	driver.Base
}

func (fakeDriver) FetchTickers(context.Context) ([]model.Ticker, error) {
	return nil, nil
}

func newFake(_ request.Client, cfg driver.Config) driver.Driver {
	return fakeDriver{Base: driver.NewBase("fake", driver.Supports{}, cfg)}
}

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"bitmart", "uniswap3", "uniswap3polygon", "xmex"}, r.Names())

	client := drivertest.NewClient(nil)
	for _, name := range r.Names() {
		d, err := r.New(name, client, driver.Config{})
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	r := Default()

	assert.True(t, r.Has("Uniswap3"))
	assert.True(t, r.Has(" BITMART "))

	d, err := r.New("Xmex", drivertest.NewClient(nil), driver.Config{})
	require.NoError(t, err)
	assert.Equal(t, "xmex", d.Name())
}

func TestRegister(t *testing.T) {
	testCases := []struct {
		desc string
		name string
		err  error
	}{
		{"new name", "fake", nil},
		{"duplicate", "FAKE", exception.ErrDuplicateDriver},
		{"empty", "  ", exception.ErrEmptyDriverName},
	}

	r := NewRegistry()
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := r.Register(tc.name, newFake)
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}

	assert.Equal(t, []string{"fake"}, r.Names())
}

func TestNew(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", newFake))

	_, err := r.New("missing", drivertest.NewClient(nil), driver.Config{})
	require.ErrorIs(t, err, exception.ErrUnknownDriver)

	_, err = r.New("fake", nil, driver.Config{})
	require.ErrorIs(t, err, exception.ErrNilClient)

	d, err := r.New("fake", drivertest.NewClient(nil), driver.Config{Markets: []string{"X"}})
	require.NoError(t, err)
	assert.Equal(t, "fake", d.Name())
	assert.Nil(t, d.(fakeDriver).Markets())
}

func TestDefaultWithLookback(t *testing.T) {
	const pinned = int64(1627305331)

	client := drivertest.NewClient(nil)
	r := DefaultWithLookback(subgraph.Lookback{Pinned: pinned})

	d, err := r.New("uniswap3", client, driver.Config{})
	require.NoError(t, err)

	_, err = d.FetchTickers(t.Context())
	require.Error(t, err)

	var sawBlocks bool
	for _, req := range client.Requests() {
		if req.URL != subgraph.EthereumBlocksURL {
			continue
		}
		sawBlocks = true
		raw, err := sonic.Marshal(req.JSONBody)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "timestamp_gt: 1627305331")
	}
	assert.True(t, sawBlocks)
}
