package domain

// NodeKind drives conditional styling of a rendered node.
type NodeKind string

const (
	// NodeKindComposite is the labelled container of a nested machine.
	NodeKindComposite NodeKind = "composite"
	// NodeKindSimple is a leaf state that is not currently executing.
	NodeKindSimple NodeKind = "simple"
	// NodeKindActive is the leaf state currently executing.
	NodeKindActive NodeKind = "active"
	// NodeKindOutcome is the anchor of a declared outcome of a composite state.
	NodeKindOutcome NodeKind = "outcome"
)

// Node is one vertex of the rendered graph.
type Node struct {
	ID string `json:"id" yaml:"id"`
	// ParentID nests the node inside a composite node. Empty for top-level nodes.
	ParentID string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Label    string   `json:"label" yaml:"label"`
	Kind     NodeKind `json:"kind" yaml:"kind"`
}

// Edge is one transition of the rendered graph, labelled with the outcome it fires on.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// Graph is the flat, layout-ready form of a snapshot.
type Graph struct {
	// Machine is the name of the root record, used as id namespace.
	Machine string `json:"machine" yaml:"machine"`
	// Title is shown above the drawing instead of a root node.
	Title string `json:"title" yaml:"title"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
	// ActiveID is the node id of the active leaf, empty when unresolved.
	ActiveID string `json:"active,omitempty" yaml:"active,omitempty"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
