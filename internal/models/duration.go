package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// Calendar approximations for the date designators. Documented approximation,
// not calendar-exact: a year is 365 days, a month 30, a week 7.
const (
	secondsPerDay   = 86400.0
	secondsPerWeek  = 7 * secondsPerDay
	secondsPerMonth = 30 * secondsPerDay
	secondsPerYear  = 365 * secondsPerDay
)

var isoDurationPattern = regexp.MustCompile(
	`^P(?:(\d+(?:\.\d+)?)Y)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)W)?(?:(\d+(?:\.\d+)?)D)?` +
		`(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration converts an ISO-8601 designator duration ("PT1H2M3.5S",
// "P1W2DT3H", ...) to seconds.
//
// An empty string parses to (nil, nil): duration unknown, which is distinct
// from zero and must never satisfy a numeric ceiling comparison. A malformed
// string is an error.
func ParseISODuration(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}

	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	multipliers := []float64{
		secondsPerYear, secondsPerMonth, secondsPerWeek, secondsPerDay,
		3600, 60, 1,
	}

	var total float64
	matched := false
	for i, factor := range multipliers {
		group := m[i+1]
		if group == "" {
			continue
		}
		v, err := strconv.ParseFloat(group, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
		}
		total += v * factor
		matched = true
	}

	// "P" or "PT" with no components is not a duration.
	if !matched {
		return nil, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	return &total, nil
}
