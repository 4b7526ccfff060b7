package sweep

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAxis reads axis values either as "lo:hi:n" (evenly spaced, inclusive)
// or as a comma-separated list.
func ParseAxis(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAxis
	}

	if parts := strings.Split(s, ":"); len(parts) == 3 {
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", s, err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", s, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", s, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyAxis, s)
		}
		return Linspace(lo, hi, n), nil
	}

	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", s, err)
		}
		values = append(values, v)
	}
	return values, nil
}
