package main

import (
	"context"
	"errors"
	"io"
	"net/http"

	"tickerhub/internal/collector"
	"tickerhub/internal/config"
	"tickerhub/internal/recorder"
	"tickerhub/internal/request"
	"tickerhub/internal/store"
	"tickerhub/pkg/conn"
)

// buildClient chains the request client: http, then retries, then the
// optional recorder. Replay bypasses the network entirely.
func buildClient(loaded config.Loaded, recordDir, replayDir string) (request.Client, error) {
	if replayDir != "" && recordDir != "" {
		return nil, errors.New("-record and -replay are exclusive")
	}

	if replayDir != "" {
		return recorder.NewReplayer(recorder.DefaultConfig(replayDir))
	}

	var client request.Client = request.NewHTTPClient(&http.Client{}, loaded.Timeout)
	client = request.NewRetrying(client, loaded.Retries+1, request.DefaultBackoff())

	if recordDir != "" {
		return recorder.NewRecorder(recorder.DefaultConfig(recordDir), client)
	}

	return client, nil
}

// buildSink wires stdout plus the configured stores for watch mode.
func buildSink(ctx context.Context, loaded config.Loaded, out io.Writer) (collector.Sink, func(), error) {
	sinks := []collector.Sink{
		collector.SinkFunc(func(_ context.Context, results []collector.Result) error {
			return printResults(out, results)
		}),
	}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if loaded.PostgresEnabled() {
		pg, err := conn.NewPostgres(ctx, conn.PostgresOption{
			Host:       loaded.Postgres.Host,
			Port:       loaded.Postgres.Port,
			User:       loaded.Postgres.User,
			Password:   loaded.Postgres.Password,
			Database:   loaded.Postgres.Database,
			SSLMode:    loaded.Postgres.SSLMode,
			ConnString: loaded.Postgres.ConnString,
		})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = pg.Close() })

		repo := store.NewRepository(pg.DB())
		if err := repo.Migrate(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, repo)
	}

	if loaded.RedisEnabled() {
		rdb, err := conn.NewRedis(ctx, conn.RedisOption{
			Addr:     loaded.Redis.Addr,
			Password: loaded.Redis.Password,
			DB:       loaded.Redis.DB,
		})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		sinks = append(sinks, store.NewCache(rdb, loaded.RedisTTL))
	}

	return collector.Sinks(sinks...), closeAll, nil
}
