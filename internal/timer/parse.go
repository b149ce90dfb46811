package timer

import (
	"strconv"
	"strings"
)

// ParseField converts a minutes or seconds form value to a non-negative int.
// Empty, non-numeric and negative input all yield 0.
func ParseField(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
