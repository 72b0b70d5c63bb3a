package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/company-insight/internal/application/analysis"
	appdashboard "github.com/bryanwahyu/company-insight/internal/application/dashboard"
	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
	"github.com/bryanwahyu/company-insight/internal/middleware"
)

// errInvalidInput marks client mistakes that map to 400.
var errInvalidInput = errors.New("invalid input")

type Router struct {
	sessions  *appanalysis.Registry
	history   *appanalysis.History
	dashboard *appdashboard.Service
	logger    *zap.Logger
}

// NewRouter mounts the /v1 API. history may be nil when no database is configured.
func NewRouter(sessions *appanalysis.Registry, history *appanalysis.History, dashboard *appdashboard.Service, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{sessions: sessions, history: history, dashboard: dashboard, logger: logger}
	mux := chi.NewRouter()

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/dashboard", r.wrap(r.handleDashboard))
		rt.Get("/topics", r.wrap(r.handleTopics))
		rt.Get("/analyses", r.wrap(r.handleHistory))

		rt.Post("/sessions", r.wrap(r.handleCreateSession))
		rt.Route("/sessions/{session}/analysis", func(st chi.Router) {
			st.Get("/", r.wrap(r.handleSnapshot))
			st.Post("/", r.wrap(r.handleSelectTopic))
			st.Post("/activate", r.wrap(r.handleActivate))
			st.Get("/events", r.wrap(r.handleEvents))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				http.Error(w, "session not found", http.StatusNotFound)
			case errors.Is(err, appanalysis.ErrHistoryDisabled):
				http.Error(w, "analysis history is not enabled", http.StatusNotFound)
			case errors.Is(err, domain.ErrUnknownTopic), errors.Is(err, errInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				r.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (r *Router) session(req *http.Request) (*appanalysis.Orchestrator, error) {
	id := chi.URLParam(req, "session")
	if err := middleware.ValidateSessionID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	return r.sessions.Get(id)
}

// GET /v1/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.dashboard.Overview())
}

type topicView struct {
	ID    domain.Topic `json:"id"`
	Label string       `json:"label"`
}

// GET /v1/topics
func (r *Router) handleTopics(w http.ResponseWriter, req *http.Request) error {
	topics := domain.Topics()
	out := make([]topicView, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicView{ID: t, Label: t.Label()})
	}
	return writeJSON(w, http.StatusOK, out)
}

// POST /v1/sessions
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	id, o := r.sessions.Create()
	return writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": id,
		"state":      o.Snapshot(),
	})
}

// GET /v1/sessions/{session}/analysis
func (r *Router) handleSnapshot(w http.ResponseWriter, req *http.Request) error {
	o, err := r.session(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, o.Snapshot())
}

// POST /v1/sessions/{session}/analysis/activate
func (r *Router) handleActivate(w http.ResponseWriter, req *http.Request) error {
	o, err := r.session(req)
	if err != nil {
		return err
	}
	triggered := o.Activate()
	return writeJSON(w, http.StatusOK, map[string]any{
		"triggered": triggered,
		"state":     o.Snapshot(),
	})
}

type selectTopicRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// POST /v1/sessions/{session}/analysis
// Body: {"topic": "competition"}
// Answers 202 with the loading snapshot; the result follows on the snapshot or events endpoints.
func (r *Router) handleSelectTopic(w http.ResponseWriter, req *http.Request) error {
	o, err := r.session(req)
	if err != nil {
		return err
	}

	var body selectTopicRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	body.Topic = middleware.SanitizeString(body.Topic)
	if err := middleware.ValidateStruct(body); err != nil {
		return fmt.Errorf("%w: topic is required", errInvalidInput)
	}
	topic, err := domain.ParseTopic(body.Topic)
	if err != nil {
		return err
	}

	o.SelectTopic(topic)
	return writeJSON(w, http.StatusAccepted, o.Snapshot())
}

// GET /v1/sessions/{session}/analysis/events
// Streams every state change as a server-sent event until the client leaves
// or the session is closed.
func (r *Router) handleEvents(w http.ResponseWriter, req *http.Request) error {
	o, err := r.session(req)
	if err != nil {
		return err
	}

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	states, unsubscribe := o.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-req.Context().Done():
			return nil
		case s, ok := <-states:
			if !ok {
				return nil
			}
			data, err := json.Marshal(s)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				return nil
			}
			if err := rc.Flush(); err != nil {
				return nil
			}
		}
	}
}

// GET /v1/analyses?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	if r.history == nil {
		return appanalysis.ErrHistoryDisabled
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.history.List(req.Context(), middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Record{}
	}
	return writeJSON(w, http.StatusOK, list)
}
