// Package types provides type definitions for structured data used throughout the resume-editor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID identifies a section or bullet. Stored documents may carry numeric,
// string or null IDs; all of them decode to the same string form.
type ID string

// String returns the ID as a plain string
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts strings, numbers and null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(NormalizeID(n))
	return nil
}

// NormalizeID converts an arbitrary ID value to its string form:
// nil becomes "", numbers are stringified without a trailing fraction.
func NormalizeID(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case ID:
		return string(x)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := x.Float64(); err == nil {
			return formatFloat(f)
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
