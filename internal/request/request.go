package request

import (
	"context"
	"net/http"
)

// Request describes one outbound call. An empty Method means GET.
type Request struct {
	Method   string
	URL      string
	JSONBody any
	Header   map[string]string
}

// Get describes a plain GET of url.
func Get(url string) Request {
	return Request{
		Method: http.MethodGet,
		URL:    url,
	}
}

// PostJSON describes a POST of body encoded as JSON.
func PostJSON(url string, body any) Request {
	return Request{
		Method:   http.MethodPost,
		URL:      url,
		JSONBody: body,
	}
}

func (r Request) method() string {
	if len(r.Method) == 0 {
		return http.MethodGet
	}
	return r.Method
}

// Client performs a request and decodes the JSON payload into out. Every
// failure, whether transport, status or decode, is reported as
// exception.ErrFetchFailed.
type Client interface {
	Do(ctx context.Context, req Request, out any) error
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request, out any) error

func (fn ClientFunc) Do(ctx context.Context, req Request, out any) error {
	return fn(ctx, req, out)
}
