package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/dialogue"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/engine"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/events"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/storage"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
)

// Manager tracks live sessions by game ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	deps     *Deps
	provider ai.LLMProvider // nil = static dialogue only
}

// NewManager creates an empty session manager.
func NewManager(deps *Deps, provider ai.LLMProvider) *Manager {
	if deps == nil {
		deps = &Deps{}
	}
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		provider: provider,
	}
}

// Create starts a new game. A zero seed means "pick one from the clock";
// a fixed seed replays the inspector's whole run, dialogue picks included.
func (m *Manager) Create(ctx context.Context, seed int64) (*Session, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Engine and speaker must share one seeded source.
	rng := entropy.NewSeeded(seed)
	personality := dialogue.NewPersonality(rng, nil)
	g := engine.NewGameFromSource(seed, rng, personality)

	// The LLM system prompt bakes in the trait draw, which only exists
	// once the inspector is built.
	if m.provider != nil {
		t := g.Inspector().Traits()
		if llm := dialogue.NewLLMDialogue(m.provider, t.Greed, t.Deceptiveness, t.Adaptiveness, m.deps.Log); llm != nil {
			personality.SetLineProducer(llm)
		}
	}

	sess := &Session{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		game:        g,
		personality: personality,
		deps:        m.deps,
	}

	if m.deps.Games != nil {
		t := g.Inspector().Traits()
		err := m.deps.Games.Create(ctx, storage.GameRow{
			ID:            sess.ID,
			Seed:          seed,
			Greed:         t.Greed,
			Deceptiveness: t.Deceptiveness,
			Adaptiveness:  t.Adaptiveness,
			FinalTrust:    g.Inspector().TrustLevel(),
			CreatedAt:     sess.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
	}

	if m.deps.EventLog != nil {
		t := g.Inspector().Traits()
		m.deps.EventLog.Append(events.New(sess.ID, 0, events.EventTypeGameStarted, map[string]interface{}{
			"seed":          seed,
			"greed":         t.Greed,
			"deceptiveness": t.Deceptiveness,
			"adaptiveness":  t.Adaptiveness,
		}))
	}
	if m.deps.Collector != nil {
		m.deps.Collector.RecordGameStart()
	}
	if m.deps.Log != nil {
		m.deps.Log.Event(string(events.EventTypeGameStarted), sess.ID, "new game created")
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	return sess, nil
}

// Get returns the live session for a game, or nil.
func (m *Manager) Get(gameID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[gameID]
}

// Remove drops a session from the manager.
func (m *Manager) Remove(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, gameID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
