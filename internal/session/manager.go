package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/cadence/internal/interleave"
	"github.com/abhisek/cadence/internal/metrics"
	"github.com/abhisek/cadence/internal/performance"
	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/store"
)

// Listener is called with the new settings after every update or reset.
type Listener func(Settings)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Manager holds the active session, session history and settings for one
// learner. All methods are safe for concurrent use.
type Manager struct {
	kv      store.KV
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	mu        sync.Mutex
	settings  Settings
	active    *PracticeSession
	history   []PracticeSession
	listeners []listenerEntry
	nextID    uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for persistence and listener failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager creates a Manager and loads any persisted settings, history and
// active session from kv. Stored state that is missing or malformed is
// replaced by defaults.
func NewManager(ctx context.Context, kv store.KV, opts ...Option) *Manager {
	m := &Manager{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) {
	sr := store.LoadValidated(ctx, m.kv, KeySpacedRepetition, spacedrep.DefaultSettings(), spacedRepetitionSchema)
	m.loadFailed(KeySpacedRepetition, sr.Err)
	il := store.LoadValidated(ctx, m.kv, KeyInterleaving, interleave.DefaultSettings(), interleavingSchema)
	m.loadFailed(KeyInterleaving, il.Err)

	m.settings = Settings{
		SpacedRepetition: sr.OrElse(spacedrep.DefaultSettings()),
		Interleaving:     il.OrElse(interleave.DefaultSettings()),
	}.Normalize()

	hist := store.Load[[]PracticeSession](ctx, m.kv, KeyHistory)
	m.loadFailed(KeyHistory, hist.Err)
	m.history = hist.OrElse(nil)
	if len(m.history) > MaxHistory {
		m.history = m.history[:MaxHistory]
	}

	active := store.Load[*PracticeSession](ctx, m.kv, KeyActive)
	m.loadFailed(KeyActive, active.Err)
	m.active = active.OrElse(nil)
}

func (m *Manager) loadFailed(key string, err error) {
	if err == nil {
		return
	}
	m.logger.Warn("discarding stored state", "key", key, "error", err)
	m.metrics.PersistenceError("load")
}

func (m *Manager) save(ctx context.Context, key string, v any) {
	if err := store.Save(ctx, m.kv, key, v); err != nil {
		m.logger.Error("persist state", "key", key, "error", err)
		m.metrics.PersistenceError("save")
	}
}

func (m *Manager) saveActive(ctx context.Context) {
	if m.active == nil {
		if err := m.kv.Delete(ctx, KeyActive); err != nil {
			m.logger.Error("clear active session", "error", err)
			m.metrics.PersistenceError("delete")
		}
		return
	}
	m.save(ctx, KeyActive, m.active)
}

// Start begins a new session over groups. Any session already in progress
// is replaced.
func (m *Manager) Start(ctx context.Context, groups []interleave.TopicGroup) *PracticeSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.logger.Debug("replacing unfinished session", "session_id", m.active.ID)
	}
	m.active = &PracticeSession{
		ID:          m.newID(),
		StartedAt:   m.now(),
		TopicGroups: cloneGroups(groups),
		Results:     []Result{},
	}

	m.saveActive(ctx)
	m.metrics.SessionStarted()
	m.logger.Info("session started", "session_id", m.active.ID, "topics", len(groups))
	return m.active.clone()
}

// Record appends a result to the active session. It reports false and does
// nothing when no session is active.
func (m *Manager) Record(ctx context.Context, topic, item string, correct bool, responseTimeMs int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		m.logger.Debug("result ignored, no active session", "topic", topic, "item", item)
		return false
	}
	m.active.Results = append(m.active.Results, Result{
		Topic:          topic,
		Item:           item,
		Correct:        correct,
		ResponseTimeMs: responseTimeMs,
		RecordedAt:     m.now(),
	})

	m.saveActive(ctx)
	m.metrics.ResultRecorded(correct)
	return true
}

// Finish ends the active session, computes its per-topic metrics and
// recommendations, and moves it to the front of the history. It returns nil
// when no session is active.
func (m *Manager) Finish(ctx context.Context) *PracticeSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.active
	if s == nil {
		return nil
	}

	ended := m.now()
	s.EndedAt = &ended
	s.Metrics = performance.Analyze(s.performanceResults())
	s.Recommendations = performance.Recommend(s.Metrics)

	m.history = append([]PracticeSession{*s}, m.history...)
	if len(m.history) > MaxHistory {
		m.history = m.history[:MaxHistory]
	}
	m.active = nil

	m.save(ctx, KeyHistory, m.history)
	m.saveActive(ctx)
	m.metrics.SessionFinished(s.Accuracy())
	m.logger.Info("session finished",
		"session_id", s.ID,
		"results", len(s.Results),
		"accuracy", s.Accuracy(),
	)
	return s.clone()
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *PracticeSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active.clone()
}

// History returns the finished sessions, most recent first.
func (m *Manager) History() []PracticeSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]PracticeSession, len(m.history))
	for i := range m.history {
		out[i] = *m.history[i].clone()
	}
	return out
}

// Sequence orders the items of groups using the current interleaving
// settings. A nil src uses a time-seeded source.
func (m *Manager) Sequence(groups []interleave.TopicGroup, src interleave.Source) interleave.Sequence {
	seq := interleave.Generate(groups, m.Settings().Interleaving, src)
	m.metrics.SequenceGenerated(seq.Effectiveness, seq.ContextSwitches)
	return seq
}

// Settings returns the current settings.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// UpdateSettings applies fn to a copy of the current settings, normalizes and
// persists the result, then notifies listeners in registration order. If fn
// panics the settings are left unchanged.
func (m *Manager) UpdateSettings(ctx context.Context, fn func(*Settings)) Settings {
	return m.commitSettings(ctx, func(cur Settings) Settings {
		fn(&cur)
		return cur.Normalize()
	})
}

// ResetSettings restores the defaults, persists them and notifies listeners.
func (m *Manager) ResetSettings(ctx context.Context) Settings {
	return m.commitSettings(ctx, func(Settings) Settings { return DefaultSettings() })
}

// commitSettings notifies listeners outside the lock so they may call back
// into the manager.
func (m *Manager) commitSettings(ctx context.Context, change func(Settings) Settings) Settings {
	s, listeners := m.swapSettings(ctx, change)

	m.metrics.SettingsUpdated()
	for _, l := range listeners {
		m.notify(l, s)
	}
	return s
}

func (m *Manager) swapSettings(ctx context.Context, change func(Settings) Settings) (Settings, []listenerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := change(m.settings)
	m.settings = s
	m.save(ctx, KeySpacedRepetition, s.SpacedRepetition)
	m.save(ctx, KeyInterleaving, s.Interleaving)
	return s, append([]listenerEntry(nil), m.listeners...)
}

func (m *Manager) notify(l listenerEntry, s Settings) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("settings listener panicked", "listener", l.id, "panic", r)
		}
	}()
	l.fn(s)
}

// Subscribe registers fn to be called after settings change. The returned
// function removes the registration; calling it more than once is harmless.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
