// Package web hosts a sigil engine behind net/http: static routes with
// view-path fallback, cookie sessions and CSRF verification on mutating
// requests.
package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/mkrale/sigil"
)

// Server routes requests to views, running an optional Action per route to
// build the data context.
type Server struct {
	engine   sigil.Engine
	sessions *Store
	routes   map[string]route
}

type route struct {
	view   string
	action Action
}

// NewServer creates a Server rendering with engine and loading sessions
// from store.
func NewServer(engine sigil.Engine, store *Store) *Server {
	return &Server{
		engine:   engine,
		sessions: store,
		routes:   make(map[string]route),
	}
}

// Handle registers a route. The action may be nil for static views.
func (s *Server) Handle(path, view string, action Action) {
	s.routes[path] = route{view: view, action: action}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, ok := s.routes[r.URL.Path]
	if !ok {
		rt = route{view: viewForPath(r.URL.Path)}
	}

	session, err := s.sessions.Load(w, r)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !verifyCSRF(r, session) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	data := sigil.Data{}
	if rt.action != nil {
		c := &Context{Request: r, Writer: w, Session: session}
		data, err = dispatch(rt.action, c)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	req := sigil.Request{Session: session, URL: r.URL}

	var buf bytes.Buffer
	if err := s.engine.RenderRequest(&buf, req, rt.view, data); err != nil {
		if errors.Is(err, sigil.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// viewForPath maps an unregistered URL path to a view file.
func viewForPath(p string) string {
	if p == "/" {
		return "index.html"
	}

	return strings.TrimPrefix(p, "/") + ".html"
}

// verifyCSRF checks the _token form value on mutating methods against the
// session token. Requests that never get a token minted fail closed.
func verifyCSRF(r *http.Request, session *Session) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
	default:
		return true
	}

	return r.FormValue("_token") != "" && r.FormValue("_token") == session.Token()
}
