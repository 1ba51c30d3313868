// Package admin hosts product edit sessions for the back-office. Each
// session owns one productedit.Editor for as long as the form is open.
package admin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Kariqs/amexan-catalog/productedit"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("admin: session not found")

const DefaultSessionTTL = 2 * time.Hour

// Session is one open edit form. Callers hold mu while they touch the
// editor.
type Session struct {
	ID string

	mu       sync.Mutex
	editor   *productedit.Editor
	notes    *productedit.MessageBuffer
	lastUsed time.Time
}

func (s *Session) Editor() *productedit.Editor { return s.editor }

// Messages drains the operator messages collected since the last call.
func (s *Session) Messages() []productedit.Message { return s.notes.Drain() }

type RegistryDeps struct {
	Remote   productedit.Remote
	Logger   *zap.Logger
	Validate *validator.Validate
	TTL      time.Duration
	Now      func() time.Time
}

// Registry keeps the open sessions in memory. Sessions are lost on restart.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	remote   productedit.Remote
	logger   *zap.Logger
	validate *validator.Validate
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(deps RegistryDeps) (*Registry, error) {
	if deps.Remote == nil {
		return nil, errors.New("admin: remote is required")
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		remote:   deps.Remote,
		logger:   deps.Logger,
		validate: deps.Validate,
		ttl:      deps.TTL,
		now:      deps.Now,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.validate == nil {
		r.validate = validator.New()
	}
	if r.ttl <= 0 {
		r.ttl = DefaultSessionTTL
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Open starts a session. An empty productID opens a blank form for a new
// product; otherwise the product is fetched and the form seeded from it.
func (r *Registry) Open(ctx context.Context, credential, productID string) (*Session, error) {
	draft := productedit.NewDraft()
	if productID != "" {
		d, err := productedit.Open(ctx, r.remote, credential, productID)
		if err != nil {
			return nil, err
		}
		draft = d
	}

	notes := &productedit.MessageBuffer{}
	id := uuid.NewString()
	editor, err := productedit.NewEditor(draft, productedit.EditorDeps{
		Remote:   r.remote,
		Notifier: notes,
		Logger:   r.logger.With(zap.String("session", id)),
		Validate: r.validate,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{ID: id, editor: editor, notes: notes, lastUsed: r.now()}
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("edit session opened", zap.String("session", id), zap.String("productId", productID))
	return s, nil
}

// Get returns the session and marks it used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastUsed = r.now()
	return s, nil
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.logger.Info("edit session closed", zap.String("session", id))
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL. A session with a
// commit in flight is kept. It returns the number of sessions dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	dropped := 0
	for id, s := range r.sessions {
		if s.lastUsed.After(cutoff) || s.editor.Submitting() {
			continue
		}
		delete(r.sessions, id)
		dropped++
	}
	if dropped > 0 {
		r.logger.Info("idle edit sessions dropped", zap.Int("count", dropped), zap.Int("remaining", len(r.sessions)))
	}
	return dropped
}
