// Package export registers every graph output format.
package export

import (
	"context"
	"encoding/json"

	"github.com/aretw0/fsmview/internal/presentation/graph"
	"github.com/aretw0/fsmview/internal/presentation/svg"
	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/fsm"
	"github.com/aretw0/fsmview/pkg/registry"
)

// Format names.
const (
	FormatJSON      = "json"
	FormatCytoscape = "cytoscape"
	FormatMermaid   = "mermaid"
	FormatDOT       = "dot"
	FormatD2        = "d2"
	FormatSVG       = "svg"
)

// GraphDocument is the json format: the graph next to its findings.
type GraphDocument struct {
	Graph       *domain.Graph      `json:"graph"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

// NewGraphDocument wraps a build result, never leaving diagnostics null.
func NewGraphDocument(res *fsm.Result) GraphDocument {
	diags := res.Diagnostics
	if diags == nil {
		diags = domain.Diagnostics{}
	}
	return GraphDocument{Graph: res.Graph, Diagnostics: diags}
}

// Default returns a registry holding every built-in format.
// svgOpts configure the svg renderer.
func Default(svgOpts ...svg.Option) *registry.Registry {
	r := registry.NewRegistry()

	r.Register(FormatJSON, "application/json", func(_ context.Context, res *fsm.Result) ([]byte, error) {
		return json.MarshalIndent(NewGraphDocument(res), "", "  ")
	})
	r.Register(FormatCytoscape, "application/json", func(_ context.Context, res *fsm.Result) ([]byte, error) {
		return graph.MarshalCytoscape(res.Graph)
	})
	r.Register(FormatMermaid, "text/plain; charset=utf-8", text(graph.GenerateMermaid))
	r.Register(FormatDOT, "text/vnd.graphviz; charset=utf-8", text(graph.GenerateDOT))
	r.Register(FormatD2, "text/plain; charset=utf-8", text(graph.GenerateD2))
	r.Register(FormatSVG, "image/svg+xml", func(ctx context.Context, res *fsm.Result) ([]byte, error) {
		return svg.Render(ctx, res.Graph, svgOpts...)
	})

	return r
}

func text(gen func(*domain.Graph) string) registry.RenderFunc {
	return func(_ context.Context, res *fsm.Result) ([]byte, error) {
		return []byte(gen(res.Graph)), nil
	}
}
