// Package numeric holds the string-based numeric conventions of the catalog:
// values stay strings end to end, normalized to a canonical significant-digit
// form, and identity comparisons are decimal-exact.
package numeric

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// mjdEpoch is the calendar date of MJD 0.
var mjdEpoch = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)

// jdOffset converts Julian dates to modified Julian dates.
var jdOffset = decimal.RequireFromString("2400000.5")

// IsNumber reports whether s parses as a floating point number.
func IsNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// SigDigits counts the significant digits of a numeric string: digits of
// the mantissa with the decimal point removed and leading/trailing zeros
// stripped.
func SigDigits(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "+-")
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Trim(s, "0")
	return len(s)
}

// Norm renders a numeric string in canonical %g form (six significant
// digits, trailing zeros removed). Non-numeric input is returned unchanged.
func Norm(s string) string {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// ValidError reports whether s is a well-formed error value: a parseable,
// non-negative number.
func ValidError(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// Less compares two numeric strings exactly.
func Less(a, b string) bool {
	da, errA := decimal.NewFromString(strings.TrimSpace(a))
	db, errB := decimal.NewFromString(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return false
	}
	return da.LessThan(db)
}

// Equal compares two numeric strings exactly, so "1.10" equals "1.1" but
// never equals "1.1000000001" through float rounding.
func Equal(a, b string) bool {
	da, errA := decimal.NewFromString(strings.TrimSpace(a))
	db, errB := decimal.NewFromString(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return false
	}
	return da.Equal(db)
}

// PrettyNum renders x with the given number of significant digits.
func PrettyNum(x float64, sig int) string {
	if sig <= 0 {
		sig = 4
	}
	return strconv.FormatFloat(x, 'g', sig, 64)
}

// JDToMJD converts a Julian date string to a modified Julian date string,
// preserving decimal precision.
func JDToMJD(jd string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(jd))
	if err != nil {
		return "", err
	}
	return d.Sub(jdOffset).String(), nil
}

// MJDToTime converts a modified Julian date to a calendar timestamp (UTC).
func MJDToTime(mjd float64) time.Time {
	return mjdEpoch.Add(time.Duration(mjd * 24 * float64(time.Hour)))
}

// UniqCommaJoin joins citation aliases with commas, dropping empties and
// duplicates while preserving first-seen order.
func UniqCommaJoin(aliases []string) string {
	seen := make(map[string]bool, len(aliases))
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return strings.Join(out, ",")
}
