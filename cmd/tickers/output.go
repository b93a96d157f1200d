package main

import (
	"io"

	"github.com/bytedance/sonic"

	"tickerhub/internal/collector"
	"tickerhub/internal/model"
)

type driverOutput struct {
	Driver    string         `json:"driver"`
	Tickers   []model.Ticker `json:"tickers"`
	Error     string         `json:"error,omitempty"`
	ElapsedMs int64          `json:"elapsedMs"`
}

func printResults(w io.Writer, results []collector.Result) error {
	out := make([]driverOutput, 0, len(results))
	for _, r := range results {
		o := driverOutput{
			Driver:    r.Driver,
			Tickers:   r.Tickers,
			ElapsedMs: r.Elapsed.Milliseconds(),
		}
		if o.Tickers == nil {
			o.Tickers = []model.Ticker{}
		}
		if r.Err != nil {
			o.Error = r.Err.Error()
		}
		out = append(out, o)
	}

	return writeJSON(w, out)
}

func printNames(w io.Writer, names []string) error {
	return writeJSON(w, names)
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
