package sigil

import (
	"regexp"
	"strings"
)

var (
	reVarKeyed = regexp.MustCompile(`(?i)<!--\s*\$([A-Za-z_]\w*)\[([^\]\s]+)\]\s*-->`)
	reVarBare  = regexp.MustCompile(`(?i)<!--\s*\$([A-Za-z_]\w*)\s*-->`)
)

// interpolate replaces variable directives with escaped output text. The
// keyed form runs first so the bare pattern cannot partially match it.
// Absent bindings substitute the empty string.
func interpolate(s string, data Data) string {
	s = reVarKeyed.ReplaceAllStringFunc(s, func(m string) string {
		sub := reVarKeyed.FindStringSubmatch(m)
		v, ok := data.Resolve(sub[1], trimKey(sub[2]))
		if !ok {
			return ""
		}
		return display(v)
	})

	s = reVarBare.ReplaceAllStringFunc(s, func(m string) string {
		sub := reVarBare.FindStringSubmatch(m)
		v, ok := data.Resolve(sub[1], "")
		if !ok {
			return ""
		}
		return display(v)
	})

	return s
}

// trimKey strips optional quotes around a subscript key.
func trimKey(key string) string {
	return strings.Trim(key, `'"`)
}
