package web

import (
	"net/http"

	"github.com/mkrale/sigil"
)

// Action produces the data context for a view. All is the fallback entry
// point, used when the action implements no verb-specific interface for the
// request method.
type Action interface {
	All(c *Context) (sigil.Data, error)
}

// Verb-specific entry points. An action implements the ones it serves;
// every other method falls through to All.
type (
	Getter interface {
		Get(c *Context) (sigil.Data, error)
	}
	Poster interface {
		Post(c *Context) (sigil.Data, error)
	}
	Putter interface {
		Put(c *Context) (sigil.Data, error)
	}
	Deleter interface {
		Delete(c *Context) (sigil.Data, error)
	}
)

// Context carries one request into an action.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter
	Session *Session
}

func dispatch(a Action, c *Context) (sigil.Data, error) {
	switch c.Request.Method {
	case http.MethodGet:
		if g, ok := a.(Getter); ok {
			return g.Get(c)
		}
	case http.MethodPost:
		if p, ok := a.(Poster); ok {
			return p.Post(c)
		}
	case http.MethodPut:
		if p, ok := a.(Putter); ok {
			return p.Put(c)
		}
	case http.MethodDelete:
		if d, ok := a.(Deleter); ok {
			return d.Delete(c)
		}
	}

	return a.All(c)
}
