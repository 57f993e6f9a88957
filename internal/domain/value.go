package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a measurement tagged with its physical unit. A nil Val means the
// source reported nothing for this quantity; that is distinct from zero and
// propagates through every computation that consumes the Value.
type Value struct {
	Val  *float64 `json:"value"`
	Unit string   `json:"unit,omitempty"`
}

// NewValue parses raw as a decimal number ("." separator, no grouping) and
// tags it with unit. Empty or unparseable input yields an absent Value rather
// than an error; malformed fields are a fact of the feed, not a failure.
func NewValue(raw string, unit string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Unit: unit}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{Unit: unit}
	}
	return Value{Val: &v, Unit: unit}
}

// SomeValue wraps a known measurement with its unit.
func SomeValue(v float64, unit string) Value {
	return Value{Val: &v, Unit: unit}
}

// FloatValue wraps an optional measurement with its unit. A nil pointer
// produces an absent Value.
func FloatValue(v *float64, unit string) Value {
	if v == nil {
		return Value{Unit: unit}
	}
	w := *v
	return Value{Val: &w, Unit: unit}
}

// Present reports whether the measurement was actually observed.
func (v Value) Present() bool {
	return v.Val != nil
}

func (v Value) String() string {
	if v.Val == nil {
		return "-"
	}
	return fmt.Sprintf("%g %s", *v.Val, v.Unit)
}
