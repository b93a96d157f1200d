package registry

import (
	"sort"
	"strings"

	"tickerhub/internal/driver"
	"tickerhub/internal/driver/bitmart"
	"tickerhub/internal/driver/uniswap3"
	"tickerhub/internal/driver/xmex"
	"tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/internal/subgraph"
	"tickerhub/pkg/exception"
)

// Constructor builds a driver around a request client.
type Constructor func(client request.Client, cfg driver.Config) driver.Driver

// Registry maps driver names to constructors. Names are matched
// case-insensitively.
type Registry struct {
	constructors map[string]Constructor
	names        []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Default returns a registry holding every built-in driver.
func Default() *Registry {
	return DefaultWithLookback(subgraph.Lookback{})
}

// DefaultWithLookback is Default with the historical lookback of the
// subgraph drivers overridden, e.g. pinned for reproducible runs.
func DefaultWithLookback(lookback subgraph.Lookback) *Registry {
	r := NewRegistry()
	r.mustRegister(bitmart.Name, func(c request.Client, cfg driver.Config) driver.Driver { return bitmart.New(c, cfg) })
	r.mustRegister(xmex.Name, func(c request.Client, cfg driver.Config) driver.Driver { return xmex.New(c, cfg) })
	r.mustRegister(uniswap3.Name, func(c request.Client, cfg driver.Config) driver.Driver {
		return uniswap3.NewWithOptions(uniswap3.Name, c, cfg, uniswap3.Options{Endpoints: uniswap3.Ethereum, Lookback: lookback})
	})
	r.mustRegister(uniswap3.PolygonName, func(c request.Client, cfg driver.Config) driver.Driver {
		return uniswap3.NewWithOptions(uniswap3.PolygonName, c, cfg, uniswap3.Options{Endpoints: uniswap3.Polygon, Lookback: lookback})
	})
	return r
}

// Register adds a constructor under name.
func (r *Registry) Register(name string, ctor Constructor) error {
	key := normalize(name)
	if len(key) == 0 {
		return exception.ErrEmptyDriverName
	}
	if _, ok := r.constructors[key]; ok {
		return errors.Mark(exception.ErrDuplicateDriver, nil, name)
	}

	r.constructors[key] = ctor
	r.names = append(r.names, key)
	sort.Strings(r.names)
	return nil
}

func (r *Registry) mustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// New builds the driver registered under name.
func (r *Registry) New(name string, client request.Client, cfg driver.Config) (driver.Driver, error) {
	if client == nil {
		return nil, exception.ErrNilClient
	}

	ctor, ok := r.constructors[normalize(name)]
	if !ok {
		return nil, errors.Mark(exception.ErrUnknownDriver, nil, name)
	}

	return ctor(client, cfg), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.constructors[normalize(name)]
	return ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
