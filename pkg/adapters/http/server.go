package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/internal/presentation/export"
	"github.com/aretw0/fsmview/pkg/codec"
	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
	"github.com/aretw0/fsmview/pkg/registry"
)

// MaxSnapshotBytes bounds request bodies.
const MaxSnapshotBytes = 8 << 20

// Viewer defines the operations the HTTP surface needs from fsmview.Viewer.
type Viewer interface {
	Build(ctx context.Context, snap *domain.Snapshot) *fsm.Result
	Ingest(ctx context.Context, snap *domain.Snapshot) (*fsmview.IngestResult, error)
	Selection(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context, name string) (*domain.Snapshot, error)
	Graphs(ctx context.Context, selection string) ([]*fsm.Result, error)
	ActiveOf(ctx context.Context, name string) (*fsmview.ActiveState, error)
	Remove(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}

// Server serves graphs and the machine registry over HTTP.
type Server struct {
	Viewer  Viewer
	Formats *registry.Registry
	Streams *StreamManager
	Metrics *Metrics
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithFormats sets the output formats. Defaults to every built-in format.
func WithFormats(formats *registry.Registry) Option {
	return func(s *Server) { s.Formats = formats }
}

// WithStreams enables GET /events. The manager's hooks must be registered on the viewer.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) { s.Streams = streams }
}

// WithMetrics enables GET /metrics. The metrics' hooks must be registered on the viewer.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) { s.Metrics = metrics }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates the HTTP handler for a viewer.
func NewHandler(viewer Viewer, opts ...Option) http.Handler {
	s := &Server{Viewer: viewer}
	for _, opt := range opts {
		opt(s)
	}
	if s.Formats == nil {
		s.Formats = export.Default()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/graph", s.PostGraph)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Post("/", s.IngestMachine)
		r.Delete("/", s.ClearMachines)
		r.Get("/{name}", s.GetMachine)
		r.Delete("/{name}", s.DeleteMachine)
		r.Get("/{name}/graph", s.GetMachineGraph)
		r.Get("/{name}/active", s.GetMachineActive)
	})

	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "fsmview-http",
		"version": strings.TrimSpace(fsmview.Version),
		"topic":   fsmview.DefaultTopic,
		"formats": s.Formats.Formats(),
	})
}

// PostGraph handles POST /graph: builds the posted snapshot without storing it.
func (s *Server) PostGraph(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.decodeSnapshot(w, r)
	if !ok {
		return
	}
	s.writeResult(w, r, s.Viewer.Build(r.Context(), snap))
}

// IngestMachine handles POST /machines.
func (s *Server) IngestMachine(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.decodeSnapshot(w, r)
	if !ok {
		return
	}

	res, err := s.Viewer.Ingest(r.Context(), snap)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	status := http.StatusCreated
	if res.Replaced {
		status = http.StatusOK
	}
	s.writeJSON(w, status, res)
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Viewer.Selection(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": names})
}

// GetMachine handles GET /machines/{name}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Viewer.Snapshot(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	format := codec.FormatJSON
	if codec.FormatFromContentType(r.Header.Get("Accept")) == codec.FormatYAML {
		format = codec.FormatYAML
	}
	data, err := codec.Encode(snap, format)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if format == codec.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Write(data)
}

// GetMachineGraph handles GET /machines/{name}/graph.
// The ALL selection answers with a JSON list of graph documents.
func (s *Server) GetMachineGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	results, err := s.Viewer.Graphs(r.Context(), name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if name != domain.AllMachines {
		s.writeResult(w, r, results[0])
		return
	}

	if f := formatParam(r); f != export.FormatJSON {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("format %s renders a single machine", f))
		return
	}
	docs := make([]export.GraphDocument, len(results))
	for i, res := range results {
		docs[i] = export.NewGraphDocument(res)
	}
	s.writeJSON(w, http.StatusOK, docs)
}

// GetMachineActive handles GET /machines/{name}/active.
func (s *Server) GetMachineActive(w http.ResponseWriter, r *http.Request) {
	active, err := s.Viewer.ActiveOf(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, active)
}

// DeleteMachine handles DELETE /machines/{name}.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var err error
	if name == domain.AllMachines {
		err = s.Viewer.Clear(r.Context())
	} else {
		err = s.Viewer.Remove(r.Context(), name)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearMachines handles DELETE /machines.
func (s *Server) ClearMachines(w http.ResponseWriter, r *http.Request) {
	if err := s.Viewer.Clear(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles GET /events (SSE). ?machine= narrows the stream to one machine.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	machine := r.URL.Query().Get("machine")
	if machine == domain.AllMachines {
		machine = anyMachine
	}

	ch, cancel := s.Streams.Subscribe(machine)
	defer cancel()
	s.logger.Info("SSE: subscribed", "machine", machine)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "machine", machine)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) decodeSnapshot(w http.ResponseWriter, r *http.Request) (*domain.Snapshot, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSnapshotBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, status, err)
		return nil, false
	}
	snap, err := codec.Decode(data, codec.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		s.logger.Warn("invalid snapshot body", "err", err, "size", len(data))
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return snap, true
}

func formatParam(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return export.FormatJSON
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *fsm.Result) {
	out, contentType, err := s.Formats.Render(r.Context(), formatParam(r), res)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedSnapshot), errors.Is(err, registry.ErrUnknownFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
