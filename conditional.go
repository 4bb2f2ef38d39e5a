package sigil

import "regexp"

var (
	reIfNot = regexp.MustCompile(`(?is)<!--\s*if\(\s*!\s*\$([A-Za-z_]\w*)(?:\[([^\]\s]+)\])?\s*\)\s*-->(.*?)<!--\s*endif\s*-->`)
	reIf    = regexp.MustCompile(`(?is)<!--\s*if\(\s*\$([A-Za-z_]\w*)(?:\[([^\]\s]+)\])?\s*\)\s*-->(.*?)<!--\s*endif\s*-->`)
)

// expandConditionals evaluates if blocks against the context. The negated
// family runs first so the plain pattern cannot mis-parse a !-prefixed
// directive. A matched body is emitted verbatim; the passes that follow take
// care of what it contains.
//
// A plain if emits its body iff the variable is present and truthy. A
// negated if emits its body when the variable is absent or falsy.
func expandConditionals(s string, data Data) string {
	s = reIfNot.ReplaceAllStringFunc(s, func(m string) string {
		sub := reIfNot.FindStringSubmatch(m)
		v, ok := data.Resolve(sub[1], trimKey(sub[2]))
		if !ok || !truthy(v) {
			return sub[3]
		}
		return ""
	})

	s = reIf.ReplaceAllStringFunc(s, func(m string) string {
		sub := reIf.FindStringSubmatch(m)
		v, ok := data.Resolve(sub[1], trimKey(sub[2]))
		if ok && truthy(v) {
			return sub[3]
		}
		return ""
	})

	return s
}
