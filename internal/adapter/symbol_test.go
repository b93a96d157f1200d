package adapter

import (
	"testing"

	"tickerhub/pkg/exception"

	"github.com/stretchr/testify/require"
)

func TestSplitMarketSymbol(t *testing.T) {
	testCases := []struct {
		desc      string
		symbol    string
		delimiter string
		base      string
		quote     string
		malformed bool
	}{
		{"underscore", "BTC_USDT", "_", "BTC", "USDT", false},
		{"dash", "BTC-USDT", "-", "BTC", "USDT", false},
		{"multi char delimiter", "ETH::BTC", "::", "ETH", "BTC", false},
		{"no delimiter", "BTCUSDT", "_", "", "", true},
		{"three parts", "BTC_USDT_PERP", "_", "", "", true},
		{"empty base", "_USDT", "_", "", "", true},
		{"empty quote", "BTC_", "_", "", "", true},
		{"empty symbol", "", "_", "", "", true},
		{"empty delimiter", "BTC_USDT", "", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			base, quote, err := SplitMarketSymbol(tc.symbol, tc.delimiter)
			if tc.malformed {
				require.ErrorIs(t, err, exception.ErrMalformedSymbol)
				require.Empty(t, base)
				require.Empty(t, quote)
				return
			}

			require.NoError(t, err)
			if base != tc.base {
				t.Fatalf("base mismatch! should be %s but got %s", tc.base, base)
			}

			if quote != tc.quote {
				t.Fatalf("quote mismatch! should be %s but got %s", tc.quote, quote)
			}
		})
	}
}
