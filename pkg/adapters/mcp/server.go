package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/fsmview"
	"github.com/aretw0/fsmview/internal/presentation/export"
	"github.com/aretw0/fsmview/pkg/codec"
	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
	"github.com/aretw0/fsmview/pkg/registry"
)

// MachinesURI is the resource listing the stored machines.
const MachinesURI = "fsmview://machines"

// Viewer defines the operations the MCP server needs from fsmview.Viewer.
type Viewer interface {
	Build(ctx context.Context, snap *domain.Snapshot) *fsm.Result
	Active(snap *domain.Snapshot) (*fsmview.ActiveState, error)
	Ingest(ctx context.Context, snap *domain.Snapshot) (*fsmview.IngestResult, error)
	Machines(ctx context.Context) ([]string, error)
	Graph(ctx context.Context, name string) (*fsm.Result, error)
	Remove(ctx context.Context, name string) error
}

// Server wraps a Viewer and exposes it as an MCP Server.
type Server struct {
	viewer    Viewer
	formats   *registry.Registry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithFormats sets the output formats. Defaults to every built-in format.
func WithFormats(formats *registry.Registry) Option {
	return func(s *Server) { s.formats = formats }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance.
func NewServer(viewer Viewer, opts ...Option) *Server {
	s := &Server{
		viewer:    viewer,
		mcpServer: server.NewMCPServer("fsmview-mcp", strings.TrimSpace(fsmview.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.formats == nil {
		s.formats = export.Default()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	formats := strings.Join(s.formats.Formats(), ", ")

	s.mcpServer.AddTool(mcp.NewTool("build_graph",
		mcp.WithDescription("Convert a state machine snapshot into a graph of nodes and edges."),
		mcp.WithString("snapshot", mcp.Required(), mcp.Description("Snapshot as JSON or YAML text: {states: [{id, name, parent, is_fsm, current_state, outcomes, transitions}]}")),
		mcp.WithString("format", mcp.Description("Output format: "+formats+" (default json)")),
	), s.handleBuildGraph)

	s.mcpServer.AddTool(mcp.NewTool("resolve_active",
		mcp.WithDescription("Find the leaf state currently executing in a snapshot and the path leading to it."),
		mcp.WithString("snapshot", mcp.Required(), mcp.Description("Snapshot as JSON or YAML text")),
		mcp.WithOutputSchema[fsmview.ActiveState](),
	), mcp.NewStructuredToolHandler(s.handleResolveActive))

	s.mcpServer.AddTool(mcp.NewTool("ingest_snapshot",
		mcp.WithDescription("Store a snapshot, replacing the previous snapshot of the same machine."),
		mcp.WithString("snapshot", mcp.Required(), mcp.Description("Snapshot as JSON or YAML text")),
		mcp.WithOutputSchema[fsmview.IngestResult](),
	), mcp.NewStructuredToolHandler(s.handleIngest))

	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the stored machines."),
	), s.handleListMachines)

	s.mcpServer.AddTool(mcp.NewTool("machine_graph",
		mcp.WithDescription("Render the graph of a stored machine."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name, as listed by list_machines")),
		mcp.WithString("format", mcp.Description("Output format: "+formats+" (default json)")),
	), s.handleMachineGraph)

	s.mcpServer.AddTool(mcp.NewTool("remove_machine",
		mcp.WithDescription("Forget a stored machine."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
	), s.handleRemoveMachine)
}

func (s *Server) handleBuildGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := snapshotArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.render(ctx, s.viewer.Build(ctx, snap), request.GetString("format", export.FormatJSON)), nil
}

func (s *Server) handleResolveActive(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (fsmview.ActiveState, error) {
	snap, err := snapshotArg(args)
	if err != nil {
		return fsmview.ActiveState{}, err
	}
	active, err := s.viewer.Active(snap)
	if err != nil {
		return fsmview.ActiveState{}, fmt.Errorf("resolve failed: %w", err)
	}
	return *active, nil
}

func (s *Server) handleIngest(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (fsmview.IngestResult, error) {
	snap, err := snapshotArg(args)
	if err != nil {
		return fsmview.IngestResult{}, err
	}
	res, err := s.viewer.Ingest(ctx, snap)
	if err != nil {
		s.logger.Warn("MCP ingest rejected", "err", err)
		return fsmview.IngestResult{}, err
	}
	return *res, nil
}

func (s *Server) handleListMachines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.viewer.Machines(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	data, _ := json.Marshal(map[string][]string{"machines": names})
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleMachineGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.viewer.Graph(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.render(ctx, res, request.GetString("format", export.FormatJSON)), nil
}

func (s *Server) handleRemoveMachine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.viewer.Remove(ctx, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("removed " + name), nil
}

func (s *Server) render(ctx context.Context, res *fsm.Result, format string) *mcp.CallToolResult {
	out, _, err := s.formats.Render(ctx, format, res)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// snapshotArg accepts the snapshot as JSON or YAML text, or as an already decoded object.
func snapshotArg(args map[string]any) (*domain.Snapshot, error) {
	switch v := args["snapshot"].(type) {
	case string:
		return codec.Decode([]byte(v), sniffFormat(v))
	case map[string]any:
		return codec.DecodeMap(v)
	case []any:
		return codec.DecodeMap(map[string]any{"states": v})
	case nil:
		return nil, fmt.Errorf("%w: snapshot argument is required", domain.ErrMalformedSnapshot)
	default:
		return nil, fmt.Errorf("%w: unsupported snapshot argument %T", domain.ErrMalformedSnapshot, v)
	}
}

// sniffFormat picks JSON for text starting like a JSON document, YAML otherwise.
func sniffFormat(text string) codec.Format {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return codec.FormatJSON
	}
	return codec.FormatYAML
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(MachinesURI, fsmview.DefaultTopic,
		mcp.WithResourceDescription("Names of the machines whose snapshots are stored"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.viewer.Machines(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      MachinesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
