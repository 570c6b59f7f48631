package youtube

import (
	"math"
	"strconv"
)

// ParseDuration converts a YouTube contentDetails duration such as PT1H2M3S
// into whole seconds. It never fails: runs of digits that can't be read, or
// that aren't followed by H, M or S, simply contribute nothing.
func ParseDuration(period string) int64 {
	var total int64
	// start is the index of the last non-digit seen. The string is expected to
	// open with a marker (P) so a leading digit run is never counted.
	start := 0
	for i := 0; i < len(period); i++ {
		c := period[i]
		if c >= '0' && c <= '9' {
			continue
		}
		switch c {
		case 'H':
			total = addSaturating(total, run(period, start, i), 60*60)
		case 'M':
			total = addSaturating(total, run(period, start, i), 60)
		case 'S':
			total = addSaturating(total, run(period, start, i), 1)
		}
		start = i
	}
	return total
}

func run(period string, start, end int) int64 {
	if start+1 >= end {
		return 0
	}
	n, err := strconv.ParseInt(period[start+1:end], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func addSaturating(total, n, unit int64) int64 {
	if n > math.MaxInt64/unit {
		// Too large to represent in seconds so treat it like any other unreadable run
		return total
	}
	v := n * unit
	if total > math.MaxInt64-v {
		return math.MaxInt64
	}
	return total + v
}
