// Package drivertest provides canned request clients for driver tests.
package drivertest

import (
	"context"
	"sync"

	"tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/pkg/exception"

	"github.com/bytedance/sonic"
)

// Client serves fixed JSON payloads by URL and records every request.
// Unknown URLs fail with ErrFetchFailed.
type Client struct {
	mu       sync.Mutex
	payloads map[string]string
	requests []request.Request
}

func NewClient(payloads map[string]string) *Client {
	return &Client{payloads: payloads}
}

func (c *Client) Do(ctx context.Context, req request.Request, out any) error {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	payload, ok := c.payloads[req.URL]
	c.mu.Unlock()

	if !ok {
		return errors.Mark(exception.ErrFetchFailed, nil, "no payload for "+req.URL)
	}

	if err := sonic.UnmarshalString(payload, out); err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "decode payload of "+req.URL)
	}

	return nil
}

// Requests returns a copy of the requests seen so far.
func (c *Client) Requests() []request.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	reqs := make([]request.Request, len(c.requests))
	copy(reqs, c.requests)
	return reqs
}
