package adapter

import (
	"bytes"

	"tickerhub/internal/errors"
	"tickerhub/pkg/exception"

	"github.com/bytedance/sonic"
)

// Number is a payload field that exchanges send either as a JSON number or
// as a quoted decimal string. The raw text is kept and parsed on demand.
type Number struct {
	raw   string
	valid bool
}

func NewNumber(raw string) Number {
	return Number{raw: raw, valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	switch data[0] {
	case '{', '[':
		return errors.Mark(exception.ErrFetchFailed, nil, "number field holds "+string(data[:1]))
	case '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NewNumber(s)
		return nil
	}

	*n = NewNumber(string(data))
	return nil
}

// Float parses the value, returning Unknown when it was missing, null or
// not a decimal number.
func (n Number) Float() float64 {
	if !n.valid {
		return Unknown()
	}
	return ParseFloat(n.raw)
}

// String returns the raw text as received.
func (n Number) String() string {
	return n.raw
}
