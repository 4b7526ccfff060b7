package storage

import (
	"encoding/json"
	"math"
	"strconv"
)

// Values is a named set of floats. NaN and ±Inf, which JSON numbers cannot
// hold, are written as the strings "NaN", "+Inf" and "-Inf".
type Values map[string]float64

func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	m := make(map[string]any, len(v))
	for k, x := range v {
		m[k] = jsonFloat(x)
	}
	return json.Marshal(m)
}

func (v *Values) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = nil
		return nil
	}
	out := make(Values, len(raw))
	for k, r := range raw {
		x, err := parseJSONFloat(r)
		if err != nil {
			return err
		}
		out[k] = x
	}
	*v = out
	return nil
}

// Column is a float series with the same non-finite encoding as Values.
type Column []float64

func (c Column) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	s := make([]any, len(c))
	for i, x := range c {
		s[i] = jsonFloat(x)
	}
	return json.Marshal(s)
}

func (c *Column) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}
	out := make(Column, len(raw))
	for i, r := range raw {
		x, err := parseJSONFloat(r)
		if err != nil {
			return err
		}
		out[i] = x
	}
	*c = out
	return nil
}

func jsonFloat(x float64) any {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return x
}

func parseJSONFloat(r json.RawMessage) (float64, error) {
	if len(r) > 0 && r[0] == '"' {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var x float64
	err := json.Unmarshal(r, &x)
	return x, err
}
