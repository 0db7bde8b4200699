package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsmview/pkg/domain"
)

// GenerateDOT renders a Graphviz digraph. Composite states become clusters;
// edges touching a cluster go through an invisible anchor clipped at the
// cluster boundary.
func GenerateDOT(g *domain.Graph) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %s {\n", quoteDOT(g.Title)))
	sb.WriteString("  compound=true;\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("  label=%s;\n  labelloc=t;\n", quoteDOT(g.Title)))
	}

	t := newTree(g)
	clusters := make(map[string]bool)

	var render func(n domain.Node, indent string)
	render = func(n domain.Node, indent string) {
		if t.isContainer(n) {
			clusters[n.ID] = true
			sb.WriteString(fmt.Sprintf("%ssubgraph %s {\n", indent, quoteDOT("cluster_"+n.ID)))
			sb.WriteString(fmt.Sprintf("%s  label=%s;\n", indent, quoteDOT(n.Label)))
			sb.WriteString(fmt.Sprintf("%s  %s [shape=point, style=invis, label=\"\"];\n", indent, quoteDOT(n.ID)))
			for _, c := range t.children[n.ID] {
				render(c, indent+"  ")
			}
			sb.WriteString(indent + "}\n")
			return
		}

		attrs := fmt.Sprintf("label=%s", quoteDOT(n.Label))
		switch n.Kind {
		case domain.NodeKindOutcome:
			attrs += ", shape=ellipse, style=filled, fillcolor=\"#ef5350\", fontcolor=white"
		case domain.NodeKindActive:
			attrs += ", style=\"rounded,filled\", fillcolor=\"#66bb6a\""
		}
		sb.WriteString(fmt.Sprintf("%s%s [%s];\n", indent, quoteDOT(n.ID), attrs))
	}

	for _, n := range t.roots {
		render(n, "  ")
	}

	for _, e := range g.Edges {
		attrs := fmt.Sprintf("label=%s", quoteDOT(e.Label))
		if clusters[e.Source] {
			attrs += ", ltail=" + quoteDOT("cluster_"+e.Source)
		}
		if clusters[e.Target] {
			attrs += ", lhead=" + quoteDOT("cluster_"+e.Target)
		}
		sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", quoteDOT(e.Source), quoteDOT(e.Target), attrs))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}
