package request

import (
	"context"
	"errors"
	"time"

	"tickerhub/pkg/exception"

	"github.com/yanun0323/logs"
)

// Retrying re-issues requests that failed with ErrFetchFailed. It sits
// outside the drivers: drivers never retry on their own.
type Retrying struct {
	next     Client
	attempts int
	backoff  Backoff
}

// NewRetrying allows up to attempts tries per request. Values below one are
// treated as a single try.
func NewRetrying(next Client, attempts int, backoff Backoff) *Retrying {
	if attempts < 1 {
		attempts = 1
	}

	return &Retrying{
		next:     next,
		attempts: attempts,
		backoff:  backoff,
	}
}

func (c *Retrying) Do(ctx context.Context, req Request, out any) error {
	for attempt := 1; ; attempt++ {
		err := c.next.Do(ctx, req, out)
		if err == nil {
			return nil
		}

		if attempt >= c.attempts || !errors.Is(err, exception.ErrFetchFailed) || ctx.Err() != nil {
			return err
		}

		wait := c.backoff.Next(attempt)
		logs.Infof("retry %s %s in %s (attempt %d/%d), err: %+v", req.method(), req.URL, wait, attempt+1, c.attempts, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
