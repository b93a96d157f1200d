package driver

// MarketSet is a lookup of caller supplied market ids. A nil set matches
// every market.
type MarketSet map[string]struct{}

// NewMarketSet returns nil for an empty list.
func NewMarketSet(markets []string) MarketSet {
	if len(markets) == 0 {
		return nil
	}

	set := make(MarketSet, len(markets))
	for _, m := range markets {
		set[m] = struct{}{}
	}
	return set
}

func (s MarketSet) Contains(market string) bool {
	if s == nil {
		return true
	}

	_, ok := s[market]
	return ok
}
