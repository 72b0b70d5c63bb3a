package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
)

// Factory builds the orchestrator for a new session.
type Factory func(sessionID string) *Orchestrator

// Registry keeps one orchestrator per dashboard session. Sessions idle longer
// than the TTL are evicted and their orchestrator is closed.
type Registry struct {
	sessions *cache.Cache
	factory  Factory
	logger   *zap.Logger
}

// NewRegistry creates a registry. A ttl <= 0 keeps sessions until Close.
func NewRegistry(ttl time.Duration, factory Factory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, ttl)
	} else {
		c = cache.New(cache.NoExpiration, 0)
	}
	r := &Registry{sessions: c, factory: factory, logger: logger}
	c.OnEvicted(func(id string, v interface{}) {
		if o, ok := v.(*Orchestrator); ok {
			r.logger.Debug("session evicted", zap.String("session", id))
			go o.Close()
		}
	})
	return r
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *Orchestrator) {
	id := uuid.NewString()
	o := r.factory(id)
	r.sessions.SetDefault(id, o)
	r.logger.Debug("session created", zap.String("session", id))
	return id, o
}

// Get returns the session's orchestrator and refreshes its TTL.
func (r *Registry) Get(id string) (*Orchestrator, error) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	r.sessions.SetDefault(id, v)
	return v.(*Orchestrator), nil
}

func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}

// Close shuts down every live session.
func (r *Registry) Close() {
	items := r.sessions.Items()
	r.sessions.Flush()
	for _, it := range items {
		if o, ok := it.Object.(*Orchestrator); ok {
			o.Close()
		}
	}
}
