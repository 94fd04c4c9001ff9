package usecases

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

func trackInfo(title, uri string) *ports.TrackInfo {
	return &ports.TrackInfo{
		Encoded: "encoded-" + title,
		Title:   title,
		Author:  "Artist",
		URI:     uri,
	}
}

type mockRepository struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.Session
	saves    int
	deletes  int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[guildID]
}

func (m *mockRepository) Save(session *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.sessions[session.GuildID] = session
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.sessions, guildID)
}

// mockTransport records control calls. Join marks the guild's session
// connected through the repo, mimicking the asynchronous voice handshake.
type mockTransport struct {
	mu        sync.Mutex
	repo      *mockRepository
	available bool

	joinErr   error
	playErr   error
	stopErr   error
	pauseErr  error
	resumeErr error
	leaveErr  error

	joins   int
	plays   int
	stops   int
	pauses  int
	resumes int
	leaves  int
	played  []*domain.Track

	// connectOnJoin controls whether Join flips the session to connected.
	connectOnJoin bool
}

func newMockTransport(repo *mockRepository) *mockTransport {
	return &mockTransport{
		repo:          repo,
		available:     true,
		connectOnJoin: true,
	}
}

func (m *mockTransport) Available() bool {
	return m.available
}

func (m *mockTransport) Join(_ context.Context, guildID, _ snowflake.ID) error {
	m.mu.Lock()
	m.joins++
	err := m.joinErr
	connect := m.connectOnJoin
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if connect && m.repo != nil {
		if session := m.repo.Get(guildID); session != nil {
			session.SetConnState(domain.ConnConnected)
		}
	}
	return nil
}

func (m *mockTransport) Leave(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	return m.leaveErr
}

func (m *mockTransport) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	m.played = append(m.played, track)
	return m.playErr
}

func (m *mockTransport) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return m.stopErr
}

func (m *mockTransport) Pause(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	return m.pauseErr
}

func (m *mockTransport) Resume(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
	return m.resumeErr
}

func (m *mockTransport) counts() (joins, plays, stops, pauses, resumes, leaves int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joins, m.plays, m.stops, m.pauses, m.resumes, m.leaves
}

// mockResolver maps backend queries to load results. Unmapped queries return
// the fallback result, or an error if errOnUnmapped is set.
type mockResolver struct {
	results  map[string]*ports.LoadResult
	fallback *ports.LoadResult
	errFor   map[string]error
	loadErr  error
	queries  []string
}

func (m *mockResolver) LoadTracks(_ context.Context, query string) (*ports.LoadResult, error) {
	m.queries = append(m.queries, query)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if err, ok := m.errFor[query]; ok {
		return nil, err
	}
	if result, ok := m.results[query]; ok {
		return result, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
}

type mockCatalog struct {
	handles bool
	result  *ports.CatalogResult
	err     error
}

func (m *mockCatalog) Handles(_ string) bool {
	return m.handles
}

func (m *mockCatalog) Expand(_ context.Context, _ string) (*ports.CatalogResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockNotifier struct {
	mu       sync.Mutex
	outcomes []ports.Outcome
	err      error
}

func (m *mockNotifier) Notify(_ snowflake.ID, outcome ports.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	return m.err
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outcomes)
}
