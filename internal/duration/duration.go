// Package duration parses interval settings. Go durations ("90s", "15m",
// "1h30m") are accepted as is, and whole days or weeks can be written as
// "Nd" or "Nw".
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const day = 24 * time.Hour

var unitRe = regexp.MustCompile(`^(\d+)([dw])$`)

// Parse parses a duration. "7d" is seven days and "2w" is fourteen.
func Parse(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	m := unitRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q (use a Go duration such as 15m, or Nd / Nw)", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	switch m[2] {
	case "w":
		return time.Duration(n) * 7 * day, nil
	default:
		return time.Duration(n) * day, nil
	}
}
