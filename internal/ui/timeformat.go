package ui

import (
	"fmt"
	"time"
)

// FormatElapsed renders d with two decimals in the largest unit that keeps
// the integer part non-zero: "12.35s", "350.12ms", "8.40µs", "120.00ns".
// The unit never promotes after rounding, so 999.996ms stays "1000.00ms".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ns := int64(d)

	var unit int64
	var suffix string
	switch {
	case d >= time.Second:
		unit, suffix = int64(time.Second), "s"
	case d >= time.Millisecond:
		unit, suffix = int64(time.Millisecond), "ms"
	case d >= time.Microsecond:
		unit, suffix = int64(time.Microsecond), "µs"
	default:
		return fmt.Sprintf("%d.00ns", ns)
	}

	hundredths := (ns*100 + unit/2) / unit
	return fmt.Sprintf("%d.%02d%s", hundredths/100, hundredths%100, suffix)
}
