package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/company-insight/internal/application"
	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
	"github.com/bryanwahyu/company-insight/internal/infra/ai/prompt"
)

const (
	// DefaultRequestTimeout bounds a single remote generation call.
	DefaultRequestTimeout = 60 * time.Second
	recordTimeout         = 10 * time.Second
)

// ObserveFunc is called once per settled (non-stale) request.
type ObserveFunc func(topic domain.Topic, kind domain.ResultKind, elapsed time.Duration)

// Orchestrator owns the request lifecycle of one analysis view.
// State changes only through SelectTopic and Activate; readers get snapshots.
type Orchestrator struct {
	gen       domain.Generator
	resolve   func(domain.Topic) domain.Request
	logger    *zap.Logger
	clock     application.Clock
	recorder  domain.Recorder
	observe   ObserveFunc
	timeout   time.Duration
	bootstrap domain.Topic
	sessionID string
	model     string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    domain.State
	inflight context.CancelFunc
	subs     map[int]chan domain.State
	nextSub  int
	closed   bool
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithClock(c application.Clock) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRecorder sends every settled result to r.
func WithRecorder(r domain.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithObserver(fn ObserveFunc) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// WithTimeout sets the per-call deadline. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBootstrapTopic changes the topic picked by Activate.
func WithBootstrapTopic(t domain.Topic) Option {
	return func(o *Orchestrator) { o.bootstrap = t }
}

// WithSession tags records and log lines with the owning session and model.
func WithSession(sessionID, model string) Option {
	return func(o *Orchestrator) {
		o.sessionID = sessionID
		o.model = model
	}
}

// New builds an idle orchestrator. The generator is the only required dependency.
func New(gen domain.Generator, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		gen:       gen,
		resolve:   prompt.Resolve,
		logger:    zap.NewNop(),
		clock:     application.SystemClock{},
		timeout:   DefaultRequestTimeout,
		bootstrap: domain.DefaultTopic,
		ctx:       ctx,
		cancel:    cancel,
		subs:      make(map[int]chan domain.State),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.state.Topic = o.bootstrap
	if o.sessionID != "" {
		o.logger = o.logger.With(zap.String("session", o.sessionID))
	}
	return o
}

// SelectTopic starts a new request for topic and returns its generation.
// Loading state is visible before it returns; the result arrives later
// through Snapshot or Subscribe. A request still in flight is superseded:
// its context is cancelled and its response, if any, is discarded.
func (o *Orchestrator) SelectTopic(topic domain.Topic) uint64 {
	o.mu.Lock()
	gen, start := o.startLocked(topic)
	o.mu.Unlock()
	if start != nil {
		start()
	}
	return gen
}

// Activate runs the bootstrap selection when the view is shown and nothing
// has been produced or requested yet. It reports whether a request started.
func (o *Orchestrator) Activate() bool {
	o.mu.Lock()
	if o.closed || o.state.Result != nil || o.state.IsLoading {
		o.mu.Unlock()
		return false
	}
	_, start := o.startLocked(o.bootstrap)
	o.mu.Unlock()
	start()
	return true
}

func (o *Orchestrator) startLocked(topic domain.Topic) (uint64, func()) {
	if o.closed {
		return o.state.Generation, nil
	}
	if o.inflight != nil {
		o.inflight()
	}

	o.state.Generation++
	gen := o.state.Generation
	o.state.Topic = topic
	o.state.IsLoading = true
	o.state.Result = nil

	ctx, cancel := context.WithTimeout(o.ctx, o.timeout)
	o.inflight = cancel
	o.wg.Add(1)
	o.publishLocked()

	return gen, func() { go o.run(ctx, cancel, gen, topic) }
}

func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, gen uint64, topic domain.Topic) {
	defer o.wg.Done()
	defer cancel()

	req := o.resolve(topic)
	started := o.clock.Now()
	text, err := o.gen.Generate(ctx, req.Prompt, req.SystemInstruction)
	elapsed := o.clock.Now().Sub(started)

	res := domain.Result{
		Topic:      topic,
		Generation: gen,
		CreatedAt:  o.clock.Now(),
	}
	switch {
	case err != nil:
		res.Kind = domain.ResultError
		res.Content = domain.ErrorContent
	case strings.TrimSpace(text) == "":
		res.Kind = domain.ResultPlaceholder
		res.Content = domain.PlaceholderContent
	default:
		res.Kind = domain.ResultGenerated
		res.Content = text
	}

	o.mu.Lock()
	if gen != o.state.Generation {
		o.mu.Unlock()
		o.logger.Debug("discarding stale analysis",
			zap.String("topic", topic.String()),
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
		return
	}
	o.state.Result = &res
	o.state.IsLoading = false
	o.inflight = nil
	o.publishLocked()
	o.mu.Unlock()

	switch {
	case err != nil && o.ctx.Err() != nil:
		o.logger.Debug("analysis cancelled on close", zap.String("topic", topic.String()))
	case err != nil:
		o.logger.Error("error generating analysis",
			zap.String("topic", topic.String()),
			zap.Uint64("generation", gen),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	default:
		o.logger.Info("analysis settled",
			zap.String("topic", topic.String()),
			zap.String("kind", string(res.Kind)),
			zap.Uint64("generation", gen),
			zap.Duration("elapsed", elapsed),
		)
	}
	if o.observe != nil {
		o.observe(topic, res.Kind, elapsed)
	}
	o.record(res)
}

func (o *Orchestrator) record(res domain.Result) {
	if o.recorder == nil || o.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	rec := &domain.Record{
		SessionID: o.sessionID,
		Topic:     res.Topic,
		Kind:      res.Kind,
		Content:   res.Content,
		Model:     o.model,
		CreatedAt: res.CreatedAt,
	}
	if err := o.recorder.Record(ctx, rec); err != nil {
		o.logger.Warn("failed to record analysis",
			zap.String("topic", res.Topic.String()),
			zap.Error(err),
		)
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() domain.State {
	s := o.state
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

// Subscribe returns a channel that receives the current state immediately and
// every later change. The channel holds one value; a slow reader only sees the
// newest state. The returned func unsubscribes and closes the channel.
func (o *Orchestrator) Subscribe() (<-chan domain.State, func()) {
	ch := make(chan domain.State, 1)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	ch <- o.snapshotLocked()
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if c, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(c)
			}
		})
	}
}

// publishLocked replaces whatever a subscriber has not read yet.
// Only this method sends, always under mu, so the send never blocks.
func (o *Orchestrator) publishLocked() {
	s := o.snapshotLocked()
	for _, ch := range o.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// Wait blocks until every started request has settled.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels in-flight requests, waits for them and closes all subscriptions.
// Later calls to SelectTopic and Activate are no-ops.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.cancel()
	o.wg.Wait()

	o.mu.Lock()
	for id, ch := range o.subs {
		delete(o.subs, id)
		close(ch)
	}
	o.mu.Unlock()
}
