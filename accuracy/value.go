package accuracy

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a statistic that may be absent. The zero Value is absent.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value. Non-finite inputs are treated as absent.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// Absent returns an absent Value.
func Absent() Value { return Value{} }

func fromResult(v float64, err error) Value {
	if err != nil {
		return Value{}
	}
	return Some(v)
}

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Valid reports whether the value is present.
func (v Value) Valid() bool { return v.ok }

// Float returns the value, or NaN when absent.
func (v Value) Float() float64 {
	if !v.ok {
		return math.NaN()
	}
	return v.v
}

// String formats the value, or returns "" when absent.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON decodes null as an absent value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
