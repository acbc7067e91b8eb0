// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions live only as long as the process (no persistence of game state).
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - The map is guarded by an RWMutex; each session also carries its own
//     mutex so moves on one session run one at a time while different
//     sessions proceed in parallel.
//   - Each session remembers its Owner; UpdateAs refuses other callers
//     with ErrNotFound so foreign IDs look the same as unknown ones.
//   - Callers never hold a *game.Session outside Update.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/tripletmatch/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Owner identifies who may act on a session: a signed-in user, an anonymous
// cookie, or both (a signed-in browser keeps its anonymous cookie).
type Owner struct {
	UserID string
	AnonID string
}

// ID is the user ID when signed in, else the anonymous ID.
func (o Owner) ID() string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonID
}

// Allows reports whether caller may act on a session owned by o.
// Either identity matching is enough, so a guest game stays playable after login.
func (o Owner) Allows(caller Owner) bool {
	return (o.UserID != "" && o.UserID == caller.UserID) ||
		(o.AnonID != "" && o.AnonID == caller.AnonID)
}

// Store defines the interface for live game sessions.
type Store interface {
	// Save adds a session owned by owner, replacing any session with the same ID.
	Save(ctx context.Context, s *game.Session, owner Owner) error

	// Update runs fn with exclusive access to the session.
	// Returns ErrNotFound if the session does not exist, else fn's error.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// UpdateAs is Update for a caller, who must be allowed by the session's Owner.
	// Sessions owned by someone else report ErrNotFound.
	UpdateAs(ctx context.Context, id string, caller Owner, fn func(*game.Session) error) error

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are live.
	Len() int
}

type entry struct {
	mu      sync.Mutex
	owner   Owner
	session *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, s *game.Session, owner Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{owner: owner, session: s}
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	return m.update(ctx, id, nil, fn)
}

func (m *memory) UpdateAs(ctx context.Context, id string, caller Owner, fn func(*game.Session) error) error {
	return m.update(ctx, id, &caller, fn)
}

// update runs fn under the entry lock; a nil caller skips the owner check.
func (m *memory) update(ctx context.Context, id string, caller *Owner, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || (caller != nil && !e.owner.Allows(*caller)) {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
