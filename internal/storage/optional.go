package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Optional tracks whether a JSON key was present and whether it was an
// explicit null, so patches can tell "keep" from "clear".
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// Or returns the provided value, or current when the key was absent or null.
func (o Optional[T]) Or(current T) T {
	if o.Set && !o.Null {
		return o.Value
	}
	return current
}

// OrNullable is Or for nullable columns: an explicit null clears the value.
func (o Optional[T]) OrNullable(current *T) *T {
	if !o.Set {
		return current
	}
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// FlexString accepts either a JSON string or a JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f *FlexString) Ptr() *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

// maxFlexInt is the largest integer a float64 holds exactly.
const maxFlexInt = 1 << 53

// FlexInt accepts a JSON number or a numeric string. Anything else, including
// a number beyond maxFlexInt, leaves Valid false instead of failing the whole
// request.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(s)
	}

	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(n) || math.Abs(n) > maxFlexInt {
		*f = FlexInt{}
		return nil
	}
	f.Value = int(n)
	f.Valid = true
	return nil
}

func (f FlexInt) Or(def int) int {
	if !f.Valid {
		return def
	}
	return f.Value
}
