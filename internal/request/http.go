package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"tickerhub/internal/errors"
	"tickerhub/pkg/exception"

	"github.com/bytedance/sonic"
)

const (
	_userAgent         = "tickerhub/1.0"
	_errorSnippetBytes = 256
)

// HTTPClient is the Client backed by net/http.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClient wraps client. A zero timeout leaves deadlines to the caller's
// context and the http.Client itself.
func NewHTTPClient(client *http.Client, timeout time.Duration) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPClient{
		client:  client,
		timeout: timeout,
	}
}

func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.JSONBody != nil {
		payload, err := sonic.ConfigFastest.Marshal(req.JSONBody)
		if err != nil {
			return errors.Mark(exception.ErrFetchFailed, err, "encode request body for "+req.URL)
		}
		body = bytes.NewReader(payload)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	r, err := http.NewRequestWithContext(ctx, req.method(), req.URL, body)
	if err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "create request for "+req.URL)
	}

	r.Header.Set("Accept", "application/json")
	r.Header.Set("User-Agent", _userAgent)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		r.Header.Set(k, v)
	}

	resp, err := c.client.Do(r)
	if err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, req.method()+" "+req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, _errorSnippetBytes))
		return errors.Mark(exception.ErrFetchFailed, nil,
			fmt.Sprintf("%s %s: status %d: %s", req.method(), req.URL, resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	if out == nil {
		return nil
	}

	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "decode response of "+req.URL)
	}

	return nil
}
