package graph

import "github.com/aretw0/fsmview/pkg/domain"

// tree indexes the nesting of a flat graph, preserving node order.
type tree struct {
	roots    []domain.Node
	children map[string][]domain.Node
	// parents maps every nested node to its container. Top-level nodes are absent.
	parents map[string]string
}

func newTree(g *domain.Graph) *tree {
	t := &tree{
		children: make(map[string][]domain.Node),
		parents:  make(map[string]string),
	}

	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}

	for _, n := range g.Nodes {
		// Nodes nested under an unknown parent are drawn at the top level.
		if n.ParentID == "" || !known[n.ParentID] {
			t.roots = append(t.roots, n)
			continue
		}
		t.children[n.ParentID] = append(t.children[n.ParentID], n)
		t.parents[n.ID] = n.ParentID
	}
	return t
}

func (t *tree) isContainer(n domain.Node) bool {
	return n.Kind == domain.NodeKindComposite || len(t.children[n.ID]) > 0
}

// path returns the ids from the outermost container down to id.
func (t *tree) path(id string) []string {
	path := []string{id}
	seen := map[string]bool{id: true}
	for parent, ok := t.parents[id]; ok && !seen[parent]; parent, ok = t.parents[parent] {
		seen[parent] = true
		path = append([]string{parent}, path...)
	}
	return path
}
