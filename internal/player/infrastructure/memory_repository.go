package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/domain"
)

// MemoryRepository is an in-memory implementation of SessionRepository.
// It holds at most one session per guild: saving over an existing entry
// destroys the old session first.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.Session
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

// Get returns the session for the given guild, or nil if none exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[guildID]
}

// Save stores the session. Any existing session for the guild is destroyed,
// preserving the one-session-per-guild invariant even under racing saves.
func (r *MemoryRepository) Save(session *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[session.GuildID]; ok && old != session {
		old.Destroy()
	}
	r.sessions[session.GuildID] = session
}

// Delete removes the session for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// Count returns the number of live sessions.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)
