package web

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/mkrale/sigil"
)

const (
	sessionName  = "sigil"
	tokenKey     = "_token"
	flashKeysKey = "_flash_keys"
)

func init() {
	// flash queues and the key registry must survive cookie round-trips
	gob.Register([]any{})
	gob.Register([]string{})
}

// Store issues cookie-backed sessions.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore creates a Store signing session cookies with secret.
func NewStore(secret []byte) *Store {
	return &Store{cookies: sessions.NewCookieStore(secret)}
}

// Load returns the request's session, starting a fresh one when the cookie
// is missing or no longer decodes.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := s.cookies.Get(r, sessionName)
	if sess == nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	return &Session{s: sess, r: r, w: w}, nil
}

// Session is one user's cookie session. It implements sigil.SessionStore.
type Session struct {
	s *sessions.Session
	r *http.Request
	w http.ResponseWriter
}

// Token returns the CSRF token, minting and persisting a random one on
// first use.
func (s *Session) Token() string {
	if t, ok := s.s.Values[tokenKey].(string); ok && t != "" {
		return t
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	t := hex.EncodeToString(buf)
	s.s.Values[tokenKey] = t
	s.save()
	return t
}

// Flash queues a message under key.
func (s *Session) Flash(key, message string) {
	s.s.AddFlash(message, flashVar(key))

	keys, _ := s.s.Values[flashKeysKey].([]string)
	s.s.Values[flashKeysKey] = append(keys, key)
	s.save()
}

// TakeFlash removes and returns the earliest message queued under key.
func (s *Session) TakeFlash(key string) (string, bool) {
	msgs := s.s.Flashes(flashVar(key))
	if len(msgs) == 0 {
		s.save()
		return "", false
	}

	// Flashes drains the whole queue for the key; put the rest back
	for _, m := range msgs[1:] {
		s.s.AddFlash(m, flashVar(key))
	}
	s.dropKeyOnce(key)
	s.save()

	msg, _ := msgs[0].(string)
	return msg, true
}

// TakeAllFlash removes and returns every queued message in insertion order,
// clearing the store.
func (s *Session) TakeAllFlash() []sigil.Flash {
	keys, _ := s.s.Values[flashKeysKey].([]string)
	if len(keys) == 0 {
		return nil
	}

	queues := make(map[string][]any, len(keys))
	for _, key := range keys {
		if _, seen := queues[key]; !seen {
			queues[key] = s.s.Flashes(flashVar(key))
		}
	}

	out := make([]sigil.Flash, 0, len(keys))
	for _, key := range keys {
		q := queues[key]
		if len(q) == 0 {
			continue
		}
		queues[key] = q[1:]
		if msg, ok := q[0].(string); ok {
			out = append(out, sigil.Flash{Key: key, Message: msg})
		}
	}

	delete(s.s.Values, flashKeysKey)
	s.save()
	return out
}

// dropKeyOnce removes the first occurrence of key from the flash registry.
func (s *Session) dropKeyOnce(key string) {
	keys, _ := s.s.Values[flashKeysKey].([]string)
	for i, k := range keys {
		if k == key {
			s.s.Values[flashKeysKey] = append(keys[:i:i], keys[i+1:]...)
			return
		}
	}
}

// save persists the session. The render must not fail on session problems,
// so cookie write errors surface only as a missing Set-Cookie header.
func (s *Session) save() {
	_ = s.s.Save(s.r, s.w)
}

func flashVar(key string) string {
	return "flash:" + key
}
