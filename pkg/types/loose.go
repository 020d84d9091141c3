package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// LooseFloat decodes JSON numbers, numeric strings, or anything else into a
// float64, falling back to zero instead of failing. Stored supplier records
// historically carried form-field values of mixed types.
type LooseFloat float64

func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	*f = LooseFloat(looseFloat(data))
	return nil
}

func (f LooseFloat) Float64() float64 {
	return float64(f)
}

// LooseInt is the integer counterpart of LooseFloat; fractional input is
// truncated.
type LooseInt int

func (i *LooseInt) UnmarshalJSON(data []byte) error {
	*i = LooseInt(looseFloat(data))
	return nil
}

func (i LooseInt) Int() int {
	return int(i)
}

func looseFloat(data []byte) float64 {
	raw := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if raw == "" || raw == "null" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

var _ json.Unmarshaler = (*LooseFloat)(nil)
var _ json.Unmarshaler = (*LooseInt)(nil)
