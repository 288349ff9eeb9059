package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the accepted timestamp shapes, most specific first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseRate converts a conversion-rate cell into a fraction in [0,1].
// Accepted shapes: "1.34%" (percent string), "0.0134" (fraction), and a
// bare number above 1 which is treated as a percentage.
func ParseRate(val string) (float64, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0, fmt.Errorf("empty conversion rate")
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid conversion rate %q: %w", val, err)
	}
	if percent || f > 1 {
		f /= 100
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("conversion rate %q out of range", val)
	}
	return f, nil
}

// ParseTime parses a timestamp cell against the accepted layouts.
func ParseTime(val string) (time.Time, error) {
	s := strings.TrimSpace(val)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", val)
}

func parseFloat(val string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", val, err)
	}
	return f, nil
}

func parseInt(val string) (int, error) {
	// Spreadsheet exports often write counts as "3.0".
	f, err := parseFloat(val)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
