package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a number that may be absent. The zero value is absent.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Or returns the value, or def when absent.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// NonZero reports whether the value is present and not zero.
func (n NullFloat) NonZero() bool {
	return n.Valid && n.Float64 != 0
}

// Ptr returns nil when absent.
func (n NullFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// UnmarshalJSON accepts a JSON number or null.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// MarshalJSON writes null for absent and non-finite values.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Float64, 'f', -1, 64)), nil
}
