package sigil

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	reInclude      = regexp.MustCompile(`(?i)<!--\s*include:([^\s\[\]>]+)\s*(?:\[(.*?)\])?\s*-->`)
	reIncludeParam = regexp.MustCompile(`'([^']*)'\s*=>\s*(?:'([^']*)'|(-?\d+(?:\.\d+)?))`)
)

// expandIncludes inlines include directives found in s. dir is the directory
// of the template being expanded; paths starting with "/" resolve from the
// views root, everything else relative to dir. Loop bodies are shielded
// first so their includes run per iteration, against iteration data.
//
// A missing file substitutes a diagnostic placeholder comment. Re-entrant
// expansion is bounded; includes past the bound stay literal in the output.
func (e *engine) expandIncludes(s, dir string, data Data, depth int) string {
	if depth >= e.maxDepth {
		return s
	}

	s, shielded := protectLoops(s)
	s = reInclude.ReplaceAllStringFunc(s, func(m string) string {
		sub := reInclude.FindStringSubmatch(m)
		return e.inline(sub[1], sub[2], dir, data, depth)
	})
	return restoreLoops(s, shielded)
}

func (e *engine) inline(ref, params, dir string, data Data, depth int) string {
	name := path.Join(dir, ref)
	if strings.HasPrefix(ref, "/") {
		name = viewName(ref)
	}

	raw, err := readFile(e.fs, name)
	if err != nil {
		return fmt.Sprintf("<!-- Include not found: %s -->", ref)
	}

	// include parameters are strictly fallback defaults: the ambient
	// context wins on every key collision
	merged := parseParams(params)
	for k, v := range data {
		merged[k] = v
	}

	raw = e.expandIncludes(raw, path.Dir(name), merged, depth+1)

	// with a non-empty merged context the included content is expanded
	// right away; otherwise the raw text is left for the outer passes
	if len(merged) > 0 {
		inner, shielded := protectLoops(raw)
		inner = expandConditionals(inner, merged)
		inner = interpolate(inner, merged)
		raw = restoreLoops(inner, shielded)
	}

	return raw
}

// parseParams reads a bracketed 'key'=>value list. Values are strings, or
// bare numbers parsed as int when they carry no decimal point and float
// otherwise. Unparsable pairs are dropped.
func parseParams(s string) Data {
	d := Data{}
	if s == "" {
		return d
	}

	for _, m := range reIncludeParam.FindAllStringSubmatch(s, -1) {
		key := m[1]
		if key == "" {
			continue
		}
		if m[3] != "" {
			if strings.Contains(m[3], ".") {
				if f, err := strconv.ParseFloat(m[3], 64); err == nil {
					d[key] = f
				}
			} else if n, err := strconv.Atoi(m[3]); err == nil {
				d[key] = n
			}
			continue
		}
		d[key] = m[2]
	}

	return d
}
