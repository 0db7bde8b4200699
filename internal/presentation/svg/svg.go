// Package svg lays out D2 source and renders it to SVG.
package svg

import (
	"context"
	"fmt"
	"log/slog"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2layouts/d2elklayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"
	"oss.terrastruct.com/util-go/go2"

	"github.com/aretw0/fsmview/internal/presentation/graph"
	"github.com/aretw0/fsmview/pkg/domain"
)

// Layout engines understood by Render.
const (
	LayoutDagre = "dagre"
	LayoutELK   = "elk"
)

type renderer struct {
	layout string
	dark   bool
	pad    int64
	logger *slog.Logger
}

// Option configures Render.
type Option func(*renderer)

// WithLayout selects the layout engine (dagre or elk). Unknown names fall back to dagre.
func WithLayout(engine string) Option {
	return func(r *renderer) { r.layout = engine }
}

// WithDarkTheme switches to a dark palette.
func WithDarkTheme(dark bool) Option {
	return func(r *renderer) { r.dark = dark }
}

// WithPadding sets the padding around the diagram.
func WithPadding(pad int64) Option {
	return func(r *renderer) { r.pad = pad }
}

// WithLogger routes D2 compiler logs.
func WithLogger(logger *slog.Logger) Option {
	return func(r *renderer) { r.logger = logger }
}

// Render lays out the graph and returns it as an SVG document.
func Render(ctx context.Context, g *domain.Graph, opts ...Option) ([]byte, error) {
	return RenderD2(ctx, graph.GenerateD2(g), opts...)
}

// RenderD2 compiles raw D2 source into SVG.
func RenderD2(ctx context.Context, source string, opts ...Option) ([]byte, error) {
	r := &renderer{
		layout: LayoutDagre,
		pad:    5,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	ctx = d2log.With(ctx, r.logger)
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("failed to create text ruler: %w", err)
	}

	layoutResolver := func(engine string) (d2graph.LayoutGraph, error) {
		if r.layout == LayoutELK {
			return d2elklayout.DefaultLayout, nil
		}
		return d2dagrelayout.DefaultLayout, nil
	}

	themeID := &d2themescatalog.NeutralDefault.ID
	if r.dark {
		themeID = &d2themescatalog.DarkMauve.ID
	}
	renderOpts := &d2svg.RenderOpts{
		Pad:     go2.Pointer(r.pad),
		ThemeID: themeID,
	}
	compileOpts := &d2lib.CompileOptions{
		LayoutResolver: layoutResolver,
		Ruler:          ruler,
	}

	diagram, compiled, err := d2lib.Compile(ctx, source, compileOpts, renderOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to compile D2: %w", err)
	}
	r.logger.Debug("d2 compiled", "edges", len(compiled.Edges), "objects", len(compiled.Objects))

	out, err := d2svg.Render(diagram, renderOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to render D2: %w", err)
	}
	return out, nil
}
