package recorder

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/pkg/exception"
)

var _ request.Client = (*Recorder)(nil)

// Recorder forwards requests to the next client and stores every successful
// payload as a fixture on disk.
type Recorder struct {
	cfg  Config
	next request.Client

	mu sync.Mutex
}

// NewRecorder creates a recorder and ensures the target directory exists.
func NewRecorder(cfg Config, next request.Client) (*Recorder, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if next == nil {
		return nil, exception.ErrNilClient
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create fixture dir")
	}

	return &Recorder{cfg: cfg, next: next}, nil
}

func (r *Recorder) Do(ctx context.Context, req request.Request, out any) error {
	var payload json.RawMessage
	if err := r.next.Do(ctx, req, &payload); err != nil {
		return err
	}

	if err := r.save(req, payload); err != nil {
		return err
	}

	if err := sonic.Unmarshal(payload, out); err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "decode recorded payload of "+req.URL)
	}

	return nil
}

func (r *Recorder) save(req request.Request, payload json.RawMessage) error {
	key, err := Key(req)
	if err != nil {
		return errors.Wrap(err, "fixture key")
	}

	body, err := encodeBody(req)
	if err != nil {
		return errors.Wrap(err, "encode fixture body")
	}

	data, err := sonic.ConfigStd.MarshalIndent(Fixture{
		Method:  method(req),
		URL:     req.URL,
		Body:    body,
		Payload: payload,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode fixture")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.WriteFile(fixturePath(r.cfg, key), data, 0o644); err != nil {
		return errors.Wrap(err, "write fixture")
	}

	return nil
}
