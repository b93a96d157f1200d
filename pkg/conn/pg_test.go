package conn

import (
	"testing"
)

func TestPostgresOptionDSN(t *testing.T) {
	testCases := []struct {
		desc     string
		option   PostgresOption
		expected string
	}{
		{
			desc:     "defaults",
			option:   PostgresOption{},
			expected: "postgres://localhost:5432?sslmode=disable",
		},
		{
			desc: "full",
			option: PostgresOption{
				Host:     "db",
				Port:     5433,
				User:     "ticker",
				Password: "secret",
				Database: "tickers",
				SSLMode:  "require",
				Params:   map[string]string{"application_name": "tickerhub"},
			},
			expected: "postgres://ticker:secret@db:5433/tickers?application_name=tickerhub&sslmode=require",
		},
		{
			desc:     "user only",
			option:   PostgresOption{User: "ticker", Database: "tickers"},
			expected: "postgres://ticker@localhost:5432/tickers?sslmode=disable",
		},
		{
			desc:     "conn string wins",
			option:   PostgresOption{Host: "db", ConnString: "postgres://x@y/z"},
			expected: "postgres://x@y/z",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if dsn := tc.option.DSN(); dsn != tc.expected {
				t.Fatalf("dsn mismatch! expected: %s, got: %s", tc.expected, dsn)
			}
		})
	}
}
