package graph

import (
	"encoding/json"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Cytoscape type attribute values, matched by the stylesheet selectors.
const (
	CytoscapeTypeFSM     = "fsm"
	CytoscapeTypeState   = "state"
	CytoscapeTypeCurrent = "current_state"
	CytoscapeTypeOutcome = "outcome"
)

// CytoscapeData is the data payload of a Cytoscape element.
type CytoscapeData struct {
	ID     string `json:"id"`
	Parent string `json:"parent,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Label  string `json:"label"`
	Type   string `json:"type,omitempty"`
}

// CytoscapeElement wraps element data the way cytoscape.js expects it.
type CytoscapeElement struct {
	Data CytoscapeData `json:"data"`
}

// CytoscapeElements groups nodes and edges.
type CytoscapeElements struct {
	Nodes []CytoscapeElement `json:"nodes"`
	Edges []CytoscapeElement `json:"edges"`
}

// CytoscapeStyle is one stylesheet rule.
type CytoscapeStyle struct {
	Selector string         `json:"selector"`
	Style    map[string]any `json:"style"`
}

// CytoscapeDocument is everything a cytoscape.js surface needs to draw one machine.
type CytoscapeDocument struct {
	Title    string            `json:"title"`
	Elements CytoscapeElements `json:"elements"`
	Style    []CytoscapeStyle  `json:"style"`
	Layout   map[string]any    `json:"layout"`
}

// ToCytoscape converts a graph into cytoscape.js elements with the default stylesheet and layout.
func ToCytoscape(g *domain.Graph) *CytoscapeDocument {
	doc := &CytoscapeDocument{
		Title: g.Title,
		Elements: CytoscapeElements{
			Nodes: make([]CytoscapeElement, 0, len(g.Nodes)),
			Edges: make([]CytoscapeElement, 0, len(g.Edges)),
		},
		Style:  DefaultCytoscapeStyle(),
		Layout: DefaultCytoscapeLayout(),
	}

	for _, n := range g.Nodes {
		doc.Elements.Nodes = append(doc.Elements.Nodes, CytoscapeElement{Data: CytoscapeData{
			ID:     n.ID,
			Parent: n.ParentID,
			Label:  n.Label,
			Type:   cytoscapeType(n.Kind),
		}})
	}
	for _, e := range g.Edges {
		doc.Elements.Edges = append(doc.Elements.Edges, CytoscapeElement{Data: CytoscapeData{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
		}})
	}
	return doc
}

// MarshalCytoscape encodes the cytoscape document of a graph.
func MarshalCytoscape(g *domain.Graph) ([]byte, error) {
	return json.MarshalIndent(ToCytoscape(g), "", "  ")
}

func cytoscapeType(kind domain.NodeKind) string {
	switch kind {
	case domain.NodeKindComposite:
		return CytoscapeTypeFSM
	case domain.NodeKindActive:
		return CytoscapeTypeCurrent
	case domain.NodeKindOutcome:
		return CytoscapeTypeOutcome
	}
	return CytoscapeTypeState
}

// DefaultCytoscapeStyle returns the stylesheet keyed on the type attribute.
func DefaultCytoscapeStyle() []CytoscapeStyle {
	return []CytoscapeStyle{
		{Selector: "node", Style: map[string]any{
			"label":        "data(label)",
			"border-color": "black",
			"border-width": 2,
			"text-valign":  "center",
			"text-halign":  "center",
			"font-size":    15,
			"height":       "label",
			"width":        "label",
			"padding-top":  "15px",
			"padding-left": "20px",
		}},
		{Selector: "node[type = 'fsm']", Style: map[string]any{
			"text-valign": "top",
			"text-halign": "center",
		}},
		{Selector: "node[type = 'outcome']", Style: map[string]any{
			"background-color": "red",
			"shape":            "round-rectangle",
			"padding-top":      "10px",
			"padding-left":     "10px",
		}},
		{Selector: "node[type = 'current_state']", Style: map[string]any{
			"background-color": "green",
		}},
		{Selector: "edge", Style: map[string]any{
			"label":              "data(label)",
			"target-arrow-shape": "triangle",
			"curve-style":        "bezier",
		}},
	}
}

// DefaultCytoscapeLayout returns a hierarchical klay layout descriptor.
func DefaultCytoscapeLayout() map[string]any {
	return map[string]any{
		"name": "klay",
		"klay": map[string]any{
			"spacing":                     40,
			"direction":                   "DOWN",
			"nodePlacement":               "BRANDES_KOEPF",
			"nodeLayering":                "LONGEST_PATH",
			"fixedAlignment":              "BALANCED",
			"layoutHierarchy":             true,
			"mergeHierarchyCrossingEdges": false,
		},
	}
}
