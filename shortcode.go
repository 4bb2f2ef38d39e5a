package sigil

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCSRFToken  = regexp.MustCompile(`(?i)<!--\s*csrf_token\s*-->`)
	reCSRF       = regexp.MustCompile(`(?i)<!--\s*csrf\s*-->`)
	reFlushKeyed = regexp.MustCompile(`(?i)<!--\s*flush:([\w-]+)\s*-->`)
	reFlush      = regexp.MustCompile(`(?i)<!--\s*flush\s*-->`)
	reDate       = regexp.MustCompile(`(?i)<!--\s*date(?:\s+([^>]+?))?\s*-->`)
	rePagination = regexp.MustCompile(`(?i)<!--\s*pagination(?:\s+(\d+))?\s*-->`)
)

// defaultDateLayout is the sortable fallback for the date directive.
const defaultDateLayout = "2006-01-02 15:04:05"

// defaultPerPage matches the pagination widget's stock page size.
const defaultPerPage = 10

// expandShortcodes runs the auxiliary single-pass rewrites. They run after
// structural expansion so they also apply inside included and looped
// content. Within each family the more specific directive is replaced first
// so the generic pattern cannot swallow it.
func (e *engine) expandShortcodes(s string, req Request, data Data) string {
	s = expandCSRF(s, req.Session)
	s = expandFlash(s, req.Session)
	s = e.expandDate(s)
	s = expandPagination(s, req.URL, data)
	return s
}

func expandCSRF(s string, sess SessionStore) string {
	token := ""
	if sess != nil && (reCSRFToken.MatchString(s) || reCSRF.MatchString(s)) {
		token = sess.Token()
	}

	s = reCSRFToken.ReplaceAllStringFunc(s, func(string) string {
		return token
	})
	s = reCSRF.ReplaceAllStringFunc(s, func(string) string {
		if token == "" {
			return ""
		}
		return fmt.Sprintf(`<input type="hidden" name="_token" value="%s">`, token)
	})
	return s
}

func expandFlash(s string, sess SessionStore) string {
	s = reFlushKeyed.ReplaceAllStringFunc(s, func(m string) string {
		if sess == nil {
			return ""
		}
		key := reFlushKeyed.FindStringSubmatch(m)[1]
		msg, ok := sess.TakeFlash(key)
		if !ok {
			return ""
		}
		return flashHTML(key, msg)
	})

	s = reFlush.ReplaceAllStringFunc(s, func(string) string {
		if sess == nil {
			return ""
		}
		var out strings.Builder
		for _, f := range sess.TakeAllFlash() {
			out.WriteString(flashHTML(f.Key, f.Message))
		}
		return out.String()
	})

	return s
}

// flashHTML wraps one message in a container tagged with a class derived
// from its key.
func flashHTML(key, msg string) string {
	return fmt.Sprintf(`<div class="flash flash-%s">%s</div>`, key, html.EscapeString(msg))
}

func (e *engine) expandDate(s string) string {
	return reDate.ReplaceAllStringFunc(s, func(m string) string {
		layout := strings.TrimSpace(reDate.FindStringSubmatch(m)[1])
		if layout == "" {
			layout = defaultDateLayout
		}
		return e.now().Format(layout)
	})
}

func expandPagination(s string, u *url.URL, data Data) string {
	return rePagination.ReplaceAllStringFunc(s, func(m string) string {
		perPage := defaultPerPage
		if raw := rePagination.FindStringSubmatch(m)[1]; raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				perPage = n
			}
		}

		total := 0
		if v, ok := data["totalRecords"]; ok {
			total = toInt(v)
		}

		return paginate(u, total, perPage)
	})
}

// paginate renders the navigation widget: first/prev controls, a numbered
// window of ±2 around the current page widened near the ends to keep five
// pages visible where possible, then next/last. Inapplicable controls render
// as disabled markers. Zero total pages renders nothing.
func paginate(u *url.URL, totalRecords, perPage int) string {
	totalPages := (totalRecords + perPage - 1) / perPage
	if totalPages <= 0 {
		return ""
	}

	page := 1
	if u != nil {
		if n, err := strconv.Atoi(u.Query().Get("page")); err == nil {
			page = n
		}
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	first, last := page-2, page+2
	if first < 1 {
		last += 1 - first
		first = 1
	}
	if last > totalPages {
		first -= last - totalPages
		last = totalPages
	}
	if first < 1 {
		first = 1
	}

	var b strings.Builder
	b.WriteString(`<nav class="pagination">`)

	control := func(label string, target int, enabled bool) {
		if enabled {
			fmt.Fprintf(&b, `<a href="%s">%s</a>`, pageURL(u, target), label)
		} else {
			fmt.Fprintf(&b, `<span class="disabled">%s</span>`, label)
		}
	}

	control("&laquo;", 1, page > 1)
	control("&lsaquo;", page-1, page > 1)
	for n := first; n <= last; n++ {
		if n == page {
			fmt.Fprintf(&b, `<span class="current">%d</span>`, n)
		} else {
			fmt.Fprintf(&b, `<a href="%s">%d</a>`, pageURL(u, n), n)
		}
	}
	control("&rsaquo;", page+1, page < totalPages)
	control("&raquo;", totalPages, page < totalPages)

	b.WriteString(`</nav>`)
	return b.String()
}

// pageURL rewrites the page query parameter on the current URL.
func pageURL(u *url.URL, page int) string {
	if u == nil {
		return fmt.Sprintf("?page=%d", page)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	return u.Path + "?" + q.Encode()
}
