package directory

import (
	"regexp"
	"strings"
)

// designation matches formally designated names like "sn2011fe" or
// "AT 2017gfo", in any case and with optional whitespace.
var designation = regexp.MustCompile(`^(?i)(SN|AT)\s*([12][0-9]{3})([A-Za-z]*)$`)

// CleanName canonicalizes an incoming name. Designated names get an upper
// case prefix; a single-letter suffix is upper case and a multi-letter one
// lower case, following the convention that SN1987A and SN2011fe are the
// canonical spellings. Other names only have their whitespace collapsed.
func CleanName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	m := designation.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	suffix := m[3]
	if len(suffix) == 1 {
		suffix = strings.ToUpper(suffix)
	} else {
		suffix = strings.ToLower(suffix)
	}
	return strings.ToUpper(m[1]) + m[2] + suffix
}
