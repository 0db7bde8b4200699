package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsmview/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart from a graph.
// It applies semantic styling:
// - Composite: subgraph container
// - Outcome: ([Stadium])
// - Simple / Active: [Rectangle], the active one highlighted
func GenerateMermaid(g *domain.Graph) string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("    %%%% %s\n", g.Title))
	}

	t := newTree(g)

	var render func(n domain.Node, indent string)
	render = func(n domain.Node, indent string) {
		safeID := sanitizeMermaidID(n.ID)
		label := escapeMermaidLabel(n.Label)

		if t.isContainer(n) {
			sb.WriteString(fmt.Sprintf("%ssubgraph %s [\"%s\"]\n", indent, safeID, label))
			for _, c := range t.children[n.ID] {
				render(c, indent+"    ")
			}
			sb.WriteString(indent + "end\n")
			return
		}

		opener, closer := "[", "]"
		if n.Kind == domain.NodeKindOutcome {
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("%s%s%s\"%s\"%s\n", indent, safeID, opener, label, closer))
	}

	for _, n := range t.roots {
		render(n, "    ")
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(e.Source), escapeMermaidLabel(e.Label), sanitizeMermaidID(e.Target)))
	}

	sb.WriteString("\n    %% Styles\n")
	sb.WriteString("    classDef outcome fill:#ef5350,stroke:#b71c1c,color:#fff;\n")
	sb.WriteString("    classDef current fill:#66bb6a,stroke:#1b5e20,stroke-width:3px,color:#000;\n")
	for _, n := range g.Nodes {
		switch n.Kind {
		case domain.NodeKindOutcome:
			sb.WriteString(fmt.Sprintf("    class %s outcome;\n", sanitizeMermaidID(n.ID)))
		case domain.NodeKindActive:
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(n.ID)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
