package sigil

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reForeachKeyed  = regexp.MustCompile(`(?i)<!--\s*foreach\(\s*\$([A-Za-z_]\w*)\s+as\s+\$([A-Za-z_]\w*)\s*=>\s*\$([A-Za-z_]\w*)\s*\)\s*-->`)
	reForeachValued = regexp.MustCompile(`(?i)<!--\s*foreach\(\s*\$([A-Za-z_]\w*)\s+as\s+\$([A-Za-z_]\w*)\s*\)\s*-->`)

	// reForeachOpen is the union of both loop shapes, used for balanced
	// open/close pairing and for shielding loop bodies from the include pass.
	reForeachOpen = regexp.MustCompile(`(?i)<!--\s*foreach\(\s*\$[A-Za-z_]\w*\s+as\s+\$[A-Za-z_]\w*(?:\s*=>\s*\$[A-Za-z_]\w*)?\s*\)\s*-->`)
	reEndForeach  = regexp.MustCompile(`(?i)<!--\s*endforeach\s*-->`)
)

// block is one foreach directive with its balanced body span.
type block struct {
	start, end int // full directive span within the scanned text
	body       string
	args       []string // submatches of the opening tag
}

// expandLoops expands foreach blocks in document order. The keyed pattern is
// tried on each opening tag before the valued pattern, whose token sequence
// it strictly contains. Unbalanced blocks are left literal.
func (e *engine) expandLoops(s string, data Data, depth int) string {
	var out strings.Builder
	for {
		b, keyed, ok := nextForeach(s)
		if !ok {
			out.WriteString(s)
			return out.String()
		}
		out.WriteString(s[:b.start])
		out.WriteString(e.runLoop(b, keyed, data, depth))
		s = s[b.end:]
	}
}

// runLoop iterates the named container, expanding the body once per element
// against a shadowed copy of the enclosing context. An absent name or a
// non-container value removes the whole block. The body re-runs the full
// pipeline, so nested loops, includes and conditionals see iteration data;
// loop-scoped includes resolve relative to the views root.
func (e *engine) runLoop(b block, keyed bool, data Data, depth int) string {
	src, ok := data[b.args[0]]
	if !ok {
		return ""
	}
	items, ok := iterate(src)
	if !ok {
		return ""
	}

	var out strings.Builder
	for _, it := range items {
		scope := data.clone()
		if keyed {
			scope[b.args[1]] = it.key
			scope[b.args[2]] = it.value
		} else {
			scope[b.args[1]] = it.value
		}
		out.WriteString(e.expandBlock(b.body, ".", scope, depth+1))
	}
	return out.String()
}

// nextForeach locates the first foreach block in s. The second result
// reports whether the block uses the keyed form.
func nextForeach(s string) (block, bool, bool) {
	loc := reForeachOpen.FindStringIndex(s)
	if loc == nil {
		return block{}, false, false
	}
	b, ok := captureForeach(s, loc)
	if !ok {
		return block{}, false, false
	}

	tag := s[loc[0]:loc[1]]
	if m := reForeachKeyed.FindStringSubmatch(tag); m != nil {
		b.args = m[1:]
		return b, true, true
	}
	if m := reForeachValued.FindStringSubmatch(tag); m != nil {
		b.args = m[1:]
		return b, false, true
	}

	return block{}, false, false
}

// captureForeach pairs the opening tag at loc with its balanced endforeach,
// counting intervening opens so nested loops stay inside the body.
func captureForeach(s string, loc []int) (block, bool) {
	depth := 1
	off := loc[1]
	for {
		rest := s[off:]
		end := reEndForeach.FindStringIndex(rest)
		if end == nil {
			return block{}, false
		}
		open := reForeachOpen.FindStringIndex(rest)
		if open != nil && open[0] < end[0] {
			depth++
			off += open[1]
			continue
		}
		depth--
		if depth == 0 {
			return block{start: loc[0], end: off + end[1], body: s[loc[1] : off+end[0]]}, true
		}
		off += end[1]
	}
}

// protectLoops swaps every outermost foreach block for an opaque marker so
// the include pass cannot consume directives meant to run per iteration.
// restoreLoops puts the blocks back before the loop pass runs.
func protectLoops(s string) (string, []string) {
	var kept []string
	var out strings.Builder
	for {
		loc := reForeachOpen.FindStringIndex(s)
		if loc == nil {
			break
		}
		b, ok := captureForeach(s, loc)
		if !ok {
			break
		}
		out.WriteString(s[:b.start])
		out.WriteString(loopMarker(len(kept)))
		kept = append(kept, s[b.start:b.end])
		s = s[b.end:]
	}
	out.WriteString(s)
	return out.String(), kept
}

func restoreLoops(s string, kept []string) string {
	for i, blockText := range kept {
		s = strings.Replace(s, loopMarker(i), blockText, 1)
	}
	return s
}

// loopMarker formats a shield marker. NUL bytes cannot appear in template
// files, so markers never collide with template text.
func loopMarker(i int) string {
	return fmt.Sprintf("\x00loop:%d\x00", i)
}
