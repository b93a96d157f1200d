package recorder

import (
	"context"
	"os"

	"github.com/bytedance/sonic"

	"tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/pkg/exception"
)

var _ request.Client = (*Replayer)(nil)

// Replayer serves recorded fixtures instead of calling the network. A
// request without a fixture fails with ErrFetchFailed.
type Replayer struct {
	cfg Config
}

func NewReplayer(cfg Config) (*Replayer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Replayer{cfg: cfg}, nil
}

func (p *Replayer) Do(ctx context.Context, req request.Request, out any) error {
	if err := ctx.Err(); err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "replay "+req.URL)
	}

	key, err := Key(req)
	if err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "fixture key of "+req.URL)
	}

	data, err := os.ReadFile(fixturePath(p.cfg, key))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Mark(exception.ErrFetchFailed, exception.ErrFixtureNotFound, method(req)+" "+req.URL)
		}
		return errors.Mark(exception.ErrFetchFailed, err, "read fixture of "+req.URL)
	}

	var fixture Fixture
	if err := sonic.Unmarshal(data, &fixture); err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "decode fixture of "+req.URL)
	}

	if err := sonic.Unmarshal(fixture.Payload, out); err != nil {
		return errors.Mark(exception.ErrFetchFailed, err, "decode fixture payload of "+req.URL)
	}

	return nil
}
