package sigil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandCSRF(t *testing.T) {
	sess := &fakeSession{token: "tok123"}

	t.Run("csrf renders a hidden input", func(t *testing.T) {
		out := expandCSRF(`<!--csrf-->`, sess)
		assert.Equal(t, `<input type="hidden" name="_token" value="tok123">`, out)
	})

	t.Run("csrf_token renders the raw token", func(t *testing.T) {
		out := expandCSRF(`<!--csrf_token-->`, sess)
		assert.Equal(t, "tok123", out)
	})

	t.Run("csrf_token is not swallowed by the generic pattern", func(t *testing.T) {
		out := expandCSRF(`<!--csrf_token-->|<!--csrf-->`, sess)
		assert.Equal(t, `tok123|<input type="hidden" name="_token" value="tok123">`, out)
	})

	t.Run("no session degrades to empty output", func(t *testing.T) {
		assert.Equal(t, "", expandCSRF(`<!--csrf-->`, nil))
		assert.Equal(t, "", expandCSRF(`<!--csrf_token-->`, nil))
	})

	t.Run("token is inserted literally", func(t *testing.T) {
		sess := &fakeSession{token: "a$1b${name}c"}
		assert.Equal(t, "a$1b${name}c", expandCSRF(`<!--csrf_token-->`, sess))
	})
}

func TestExpandFlash(t *testing.T) {
	t.Run("keyed directive consumes one message", func(t *testing.T) {
		sess := &fakeSession{flashes: []Flash{{Key: "success", Message: "saved"}}}
		out := expandFlash(`<!--flush:success-->`, sess)
		assert.Equal(t, `<div class="flash flash-success">saved</div>`, out)

		out = expandFlash(`<!--flush:success-->`, sess)
		assert.Equal(t, "", out)
	})

	t.Run("bare directive drains the whole store once", func(t *testing.T) {
		sess := &fakeSession{flashes: []Flash{
			{Key: "success", Message: "saved"},
			{Key: "error", Message: "oops & more"},
		}}

		out := expandFlash(`<!--flush--><!--flush-->`, sess)
		assert.Equal(t,
			`<div class="flash flash-success">saved</div><div class="flash flash-error">oops &amp; more</div>`,
			out)
	})

	t.Run("no session degrades to empty output", func(t *testing.T) {
		assert.Equal(t, "", expandFlash(`<!--flush-->`, nil))
		assert.Equal(t, "", expandFlash(`<!--flush:x-->`, nil))
	})
}

func TestExpandPagination(t *testing.T) {
	mustURL := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		assert.NoError(t, err)
		return u
	}

	t.Run("zero total pages renders nothing", func(t *testing.T) {
		out := expandPagination(`<!--pagination-->`, mustURL("/list"), Data{"totalRecords": 0})
		assert.Equal(t, "", out)
	})

	t.Run("missing totalRecords renders nothing", func(t *testing.T) {
		out := expandPagination(`<!--pagination-->`, mustURL("/list"), Data{})
		assert.Equal(t, "", out)
	})

	t.Run("requested page clamps to the last page", func(t *testing.T) {
		out := expandPagination(`<!--pagination-->`, mustURL("/list?page=99"), Data{"totalRecords": 25})

		assert.Contains(t, out, `<span class="current">3</span>`)
		assert.Contains(t, out, `<a href="/list?page=2">2</a>`)
		assert.Contains(t, out, `<span class="disabled">&rsaquo;</span>`)
		assert.Contains(t, out, `<span class="disabled">&raquo;</span>`)
		assert.Contains(t, out, `<a href="/list?page=1">&laquo;</a>`)
	})

	t.Run("first page disables first and prev", func(t *testing.T) {
		out := expandPagination(`<!--pagination-->`, mustURL("/list"), Data{"totalRecords": 25})

		assert.Contains(t, out, `<span class="current">1</span>`)
		assert.Contains(t, out, `<span class="disabled">&laquo;</span>`)
		assert.Contains(t, out, `<span class="disabled">&lsaquo;</span>`)
		assert.Contains(t, out, `<a href="/list?page=3">&raquo;</a>`)
	})

	t.Run("window stays five wide where possible", func(t *testing.T) {
		out := expandPagination(`<!--pagination-->`, mustURL("/list?page=1"), Data{"totalRecords": 100})

		for n := 1; n <= 5; n++ {
			if n == 1 {
				assert.Contains(t, out, `<span class="current">1</span>`)
			} else {
				assert.Contains(t, out, `>`+string(rune('0'+n))+`</a>`)
			}
		}
		assert.NotContains(t, out, `>6</a>`)
	})

	t.Run("items per page argument", func(t *testing.T) {
		out := expandPagination(`<!--pagination 5-->`, mustURL("/list"), Data{"totalRecords": 12})
		assert.Contains(t, out, `<a href="/list?page=3">3</a>`)
		assert.NotContains(t, out, `>4</a>`)
	})

	t.Run("nil url falls back to bare query links", func(t *testing.T) {
		out := expandPagination(`<!--pagination-->`, nil, Data{"totalRecords": 25})
		assert.Contains(t, out, `<a href="?page=2">2</a>`)
	})
}
