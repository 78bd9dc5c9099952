package tfstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kompox/tfcsync/domain/model"
)

// Decode parses a raw state document into state records.
//
// A JSON array is taken as the record list and a JSON object becomes a
// one-element list. Array elements that are not objects are dropped.
// Malformed input, and top-level scalars or null, yield an empty non-nil list
// together with an error wrapping model.ErrStateDecode; callers log it and
// carry on with zero resources.
func Decode(raw []byte) ([]model.StateRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return []model.StateRecord{}, fmt.Errorf("%w: %v", model.ErrStateDecode, err)
	}
	// Only whitespace may follow the top-level value; a stray closing
	// delimiter is rejected by Token as well.
	if _, err := dec.Token(); err != io.EOF {
		return []model.StateRecord{}, fmt.Errorf("%w: trailing data after top-level value", model.ErrStateDecode)
	}

	switch t := v.(type) {
	case []any:
		out := make([]model.StateRecord, 0, len(t))
		for _, it := range t {
			if m, ok := it.(map[string]any); ok {
				out = append(out, model.StateRecord(m))
			}
		}
		return out, nil
	case map[string]any:
		return []model.StateRecord{t}, nil
	default:
		return []model.StateRecord{}, fmt.Errorf("%w: top-level value is %T, want object or array", model.ErrStateDecode, v)
	}
}
