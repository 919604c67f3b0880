package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Lakshita2255/Voter-auth-project/directory"
)

// Registry holds the live sessions of a server. Sessions idle for longer
// than ttl, or pushed out by size, are dropped.
type Registry struct {
	dir  directory.IdentityDirectory
	opts Options

	// mu makes the lookup and idle refresh in Get atomic with Delete
	mu    sync.Mutex
	cache *expirable.LRU[string, *VotingSession]
}

// NewRegistry creates a registry; size <= 0 means unbounded and ttl <= 0 means
// sessions never expire.
func NewRegistry(dir directory.IdentityDirectory, opts Options, size int, ttl time.Duration) *Registry {
	onEvict := func(id string, _ *VotingSession) {
		slog.Debug("session evicted", "session_id", id)
	}
	return &Registry{
		dir:   dir,
		opts:  opts,
		cache: expirable.NewLRU[string, *VotingSession](size, onEvict, ttl),
	}
}

// Create starts a session in AwaitingCredentials.
func (r *Registry) Create() *VotingSession {
	s := New(r.dir, r.opts)
	s.id = uuid.NewString()
	r.cache.Add(s.id, s)
	return s
}

// Get returns the session and refreshes its idle timer.
func (r *Registry) Get(id string) (*VotingSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.cache.Peek(id)
	if !ok {
		return nil, false
	}
	r.cache.Add(id, s)
	return s, true
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Remove(id)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
