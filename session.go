package sigil

import "net/url"

// SessionStore is the session-scoped capability consumed by the csrf and
// flush directives. The engine only ever reads and drains it; persistence
// belongs to the host. The web subpackage provides a cookie-backed
// implementation.
type SessionStore interface {
	// Token returns the per-session CSRF token, creating and persisting a
	// random one on first use.
	Token() string

	// TakeFlash removes and returns the flash message queued under key.
	TakeFlash(key string) (string, bool)

	// TakeAllFlash removes and returns every queued flash message in
	// insertion order, clearing the store.
	TakeAllFlash() []Flash
}

// Flash is one queued flash message.
type Flash struct {
	Key     string
	Message string
}

// Request carries per-request state into a render. The zero value disables
// the csrf and flush directives and renders pagination links as bare
// "?page=N" query strings.
type Request struct {
	Session SessionStore
	URL     *url.URL
}
