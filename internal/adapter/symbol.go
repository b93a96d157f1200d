package adapter

import (
	"strconv"
	"strings"

	"tickerhub/internal/errors"
	"tickerhub/pkg/exception"
)

// SplitMarketSymbol splits a combined market identifier such as "BTC_USDT"
// into its base and quote. Anything other than exactly two non-empty parts
// is an ErrMalformedSymbol.
func SplitMarketSymbol(symbol, delimiter string) (base, quote string, err error) {
	if len(delimiter) == 0 {
		return "", "", errors.Mark(exception.ErrMalformedSymbol, nil, "empty delimiter for "+strconv.Quote(symbol))
	}

	parts := strings.Split(symbol, delimiter)
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0 {
		return "", "", errors.Mark(exception.ErrMalformedSymbol, nil, strconv.Quote(symbol)+" by "+strconv.Quote(delimiter))
	}

	return parts[0], parts[1], nil
}
