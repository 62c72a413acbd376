// Package terms stores the learner's vocabulary terms and their review
// schedules.
package terms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/abhisek/cadence/internal/metrics"
	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/store"
)

// Key is the persistence key of the term collection.
const Key = "terms"

// DefaultTopic is assigned to terms added without a topic.
const DefaultTopic = "general"

var (
	// ErrTermNotFound is returned when no term matches a lookup.
	ErrTermNotFound = errors.New("term not found")
	// ErrEmptyName is returned when adding a term without a name.
	ErrEmptyName = errors.New("term name is required")
)

// Term is a single item to learn.
type Term struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Topic      string                  `json:"topic"`
	Definition string                  `json:"definition,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
	Review     *spacedrep.ReviewRecord `json:"review,omitempty"`
}

// ReviewRecord implements spacedrep.Reviewable.
func (t Term) ReviewRecord() *spacedrep.ReviewRecord {
	return t.Review
}

// Service manages the term collection.
type Service struct {
	kv      store.KV
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now for new terms.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a term service over kv.
func NewService(kv store.KV, opts ...Option) *Service {
	s := &Service{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads the collection. A malformed collection reads as empty.
func (s *Service) load(ctx context.Context) []Term {
	l := store.Load[[]Term](ctx, s.kv, Key)
	if l.Err != nil {
		s.logger.Warn("discarding stored terms", "error", l.Err)
		s.metrics.PersistenceError("load")
	}
	return l.OrElse(nil)
}

func (s *Service) save(ctx context.Context, terms []Term) error {
	if err := store.Save(ctx, s.kv, Key, terms); err != nil {
		s.metrics.PersistenceError("save")
		return fmt.Errorf("save terms: %w", err)
	}
	return nil
}

// Add creates a new, never-reviewed term.
func (s *Service) Add(ctx context.Context, name, topic, definition string) (*Term, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Term{
		ID:         uuid.NewString(),
		Name:       name,
		Topic:      topic,
		Definition: strings.TrimSpace(definition),
		CreatedAt:  s.now().UTC(),
	}
	terms := append(s.load(ctx), t)
	if err := s.save(ctx, terms); err != nil {
		return nil, err
	}
	s.logger.Debug("term added", "term_id", t.ID, "topic", t.Topic)
	return &t, nil
}

// List returns every term in insertion order.
func (s *Service) List(ctx context.Context) []Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get finds a term by id, or by case-insensitive name.
func (s *Service) Get(ctx context.Context, ref string) (*Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := s.load(ctx)
	i := find(terms, ref)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", ref, ErrTermNotFound)
	}
	t := terms[i]
	return &t, nil
}

// Delete removes a term and its review record.
func (s *Service) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := s.load(ctx)
	i := find(terms, ref)
	if i < 0 {
		return fmt.Errorf("%q: %w", ref, ErrTermNotFound)
	}
	terms = append(terms[:i], terms[i+1:]...)
	return s.save(ctx, terms)
}

// Rate records a review of the term and schedules its next one.
func (s *Service) Rate(ctx context.Context, ref string, rating spacedrep.Rating, settings spacedrep.Settings, now time.Time) (*Term, spacedrep.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms := s.load(ctx)
	i := find(terms, ref)
	if i < 0 {
		return nil, spacedrep.Result{}, fmt.Errorf("%q: %w", ref, ErrTermNotFound)
	}

	rec, res := spacedrep.Review(terms[i].Review, rating, settings, now)
	terms[i].Review = rec
	if err := s.save(ctx, terms); err != nil {
		return nil, spacedrep.Result{}, err
	}

	s.metrics.RecordReview(outcome(res), res.IntervalDays)
	s.logger.Debug("term rated",
		"term_id", terms[i].ID,
		"rating", rec.Rating,
		"interval_days", res.IntervalDays,
		"ease_factor", res.EaseFactor,
	)
	t := terms[i]
	return &t, res, nil
}

func outcome(res spacedrep.Result) string {
	switch {
	case res.First:
		return "first"
	case res.Lapse:
		return "lapse"
	default:
		return "pass"
	}
}

// find returns the index of the term whose id or name matches ref, or -1.
func find(terms []Term, ref string) int {
	ref = strings.TrimSpace(ref)
	for i, t := range terms {
		if t.ID == ref {
			return i
		}
	}
	for i, t := range terms {
		if strings.EqualFold(t.Name, ref) {
			return i
		}
	}
	return -1
}
