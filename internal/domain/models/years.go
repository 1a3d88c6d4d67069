package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Years is a duration in years that may be +Inf ("never").
// JSON has no Infinity literal, so +Inf is written as null and null reads back as +Inf.
type Years float64

// Never is the break-even time of an investment that is not recovered.
var Never = Years(math.Inf(1))

func (y Years) IsNever() bool {
	return math.IsInf(float64(y), 1)
}

func (y Years) MarshalJSON() ([]byte, error) {
	f := float64(y)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

func (y *Years) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*y = Never
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*y = Years(f)
	return nil
}

// String renders Never as "never".
func (y Years) String() string {
	if y.IsNever() {
		return "never"
	}
	return strconv.FormatFloat(float64(y), 'f', 2, 64)
}
