package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Upwork prints "Posted just now ago" as well, so "ago" is required in both forms.
var postedRegex = regexp.MustCompile(`(?i)Posted\s+(?:(\d+)\s+(seconds?|minutes?|hours?|days?|weeks?|months?)|just\s+now)\s+ago`)

// month is approximated as 30 days
var unitMinutes = map[string]float64{
	"second": 1.0 / 60,
	"minute": 1,
	"hour":   60,
	"day":    60 * 24,
	"week":   60 * 24 * 7,
	"month":  60 * 24 * 30,
}

// ParsePostedAge returns the age in minutes stated by the first "Posted ... ago"
// phrase in text. ok is false when no phrase is found.
func ParsePostedAge(text string) (minutes float64, ok bool) {
	m := postedRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	if m[1] == "" {
		//"just now"
		return 0, true
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	unit := strings.TrimSuffix(strings.ToLower(m[2]), "s")
	mult, found := unitMinutes[unit]
	if !found {
		return 0, false
	}
	return n * mult, true
}
