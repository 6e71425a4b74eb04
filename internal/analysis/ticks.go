package analysis

import (
	"math"
	"strconv"
)

// FormatYTicks renders an axis value, abbreviating thousands: values of 1000
// or more become "<v/1000 truncated>K", smaller values print as-is.
func FormatYTicks(v float64) string {
	if v >= 1000 {
		return strconv.FormatFloat(math.Trunc(v/1000), 'f', 0, 64) + "K"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// YTickFormatter adapts FormatYTicks to a chart.ValueFormatter.
func YTickFormatter(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return FormatYTicks(x)
	case float32:
		return FormatYTicks(float64(x))
	case int:
		return FormatYTicks(float64(x))
	case int64:
		return FormatYTicks(float64(x))
	}
	return ""
}
