package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-uuid"

	"github.com/nodego/node-server/core/http"
	"github.com/nodego/node-server/core/middleware"
)

// HeaderSessionID is stamped on the request by the middleware so
// downstream middleware and handlers can find their session.
const HeaderSessionID = "x-session-id"

// Session is one client's server-side state. Values are guarded by
// the session's own lock: handlers of concurrent requests from the
// same client may touch the same session.
type Session struct {
	ID string

	mu     sync.Mutex
	values map[string]any
	fresh  bool
}

// Get returns a stored value.
func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns a stored string value, or def.
func (s *Session) GetString(key, def string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// Set stores a value.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Fresh reports whether the session was created by the current
// request rather than loaded from the store.
func (s *Session) Fresh() bool { return s.fresh }

// Store persists sessions between requests.
type Store interface {
	Get(sid string) (*Session, bool)
	Save(s *Session)
	Destroy(sid string)
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryStore is an in-process Store with TTL expiry. Expired entries
// are dropped lazily on access and on Save.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates a store whose sessions expire ttl after
// their last Save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (m *MemoryStore) Get(sid string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[sid]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, sid)
		return nil, false
	}
	return entry.session, true
}

func (m *MemoryStore) Save(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[s.ID] = memoryEntry{
		session:   s,
		expiresAt: time.Now().Add(m.ttl),
	}
	for sid, entry := range m.entries {
		if time.Now().After(entry.expiresAt) {
			delete(m.entries, sid)
		}
	}
}

func (m *MemoryStore) Destroy(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sid)
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entry := range m.entries {
		if !time.Now().After(entry.expiresAt) {
			n++
		}
	}
	return n
}

// Options configures the session middleware.
type Options struct {
	Store      Store
	CookieName string        // default "sid"
	TTL        time.Duration // cookie and store lifetime
	Secure     bool          // set the Secure cookie attribute
}

// Middleware returns a middleware that resolves the client's session
// from the sid cookie, creating one when missing, stamps the session
// id into the request headers (x-session-id) and sets the cookie on
// the response. The session is saved back to the store after the rest
// of the chain has run.
func Middleware(opts Options) middleware.Func {
	if opts.Store == nil {
		opts.Store = NewMemoryStore(opts.TTL)
	}
	if opts.CookieName == "" {
		opts.CookieName = "sid"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}

	return func(req *http.Request, res *http.Response, next middleware.Next) {
		sid := req.Cookie(opts.CookieName)
		sess, ok := opts.Store.Get(sid)
		if !ok {
			id, err := uuid.GenerateUUID()
			if err != nil {
				// Without an id there is no session; the request
				// still proceeds, just sessionless.
				next()
				return
			}
			sess = &Session{ID: id, values: make(map[string]any), fresh: true}
			// Saved immediately so handlers can resolve it through
			// the store during this same request.
			opts.Store.Save(sess)
			res.Set("Set-Cookie", buildSetCookie(opts.CookieName, id, opts.TTL, opts.Secure))
		}

		req.SetHeader(HeaderSessionID, sess.ID)

		next()

		opts.Store.Save(sess)
	}
}

// FromRequest resolves the session attached to a request by the
// middleware.
func FromRequest(store Store, req *http.Request) (*Session, bool) {
	sid := req.Header(HeaderSessionID)
	if sid == "" {
		return nil, false
	}
	return store.Get(sid)
}

func buildSetCookie(name, value string, ttl time.Duration, secure bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s; Path=/; Max-Age=%d; HttpOnly; SameSite=Lax", name, value, int(ttl.Seconds()))
	if secure {
		b.WriteString("; Secure")
	}
	return b.String()
}
