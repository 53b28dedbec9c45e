package rescue

import (
	"math"
	"strconv"
	"strings"
)

// Recommend returns the number of rescuers to dispatch for the given
// survivor count. Small parties get a fixed paired escort; larger groups
// get 1.2 rescuers per survivor, rounded up. Zero or negative counts need
// no dispatch.
func Recommend(survivors int) int {
	switch {
	case survivors <= 0:
		return 0
	case survivors <= 2:
		return 2
	case survivors <= 4:
		return 4
	case survivors <= 6:
		return 6
	default:
		return int(math.Ceil(1.2 * float64(survivors)))
	}
}

// SanitizeCount parses a raw survivor-count string from an operator
// override. Whitespace is trimmed; integer and decimal forms are accepted
// (decimals truncate toward zero). Anything unparsable or negative
// sanitizes to 0 rather than erroring: a bad override means no survivors
// reported, not a broken dashboard.
func SanitizeCount(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		n = int(f)
	}

	if n < 0 {
		return 0
	}
	return n
}
