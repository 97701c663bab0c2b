package shared

import (
	"encoding/json"
	"fmt"
)

// FormatDuration renders a runtime in minutes as "2h 16m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "unknown"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatRating renders a server-aggregated average as "8.5/10", or "unrated"
// when no ratings exist.
func FormatRating(rating float64) string {
	if rating <= 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f/10", rating)
}

// MarshalJSON encodes v, optionally indented.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
