package recorder

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"

	"github.com/bytedance/sonic"

	"tickerhub/internal/request"
)

// Fixture is one recorded exchange of a request and its JSON payload.
type Fixture struct {
	Method  string          `json:"method"`
	URL     string          `json:"url"`
	Body    json.RawMessage `json:"body,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Key identifies a request by method, url and encoded body. Two requests
// with the same key replay the same payload.
func Key(req request.Request) (string, error) {
	body, err := encodeBody(req)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(method(req)))
	h.Write([]byte{0})
	h.Write([]byte(req.URL))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func encodeBody(req request.Request) ([]byte, error) {
	if req.JSONBody == nil {
		return nil, nil
	}
	return sonic.ConfigStd.Marshal(req.JSONBody)
}

func method(req request.Request) string {
	if req.Method == "" {
		return "GET"
	}
	return req.Method
}

func fixturePath(cfg Config, key string) string {
	return filepath.Join(cfg.Dir, cfg.FilePrefix+"-"+key+".json")
}
