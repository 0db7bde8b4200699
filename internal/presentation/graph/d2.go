package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsmview/pkg/domain"
)

const d2Header = `classes: {
  composite: {
    style: {
      border-radius: 8
      font-size: 18
    }
  }
  simple: {
    style: {
      border-radius: 8
    }
  }
  active: {
    style: {
      fill: "#66bb6a"
      font-color: black
      border-radius: 8
      bold: true
    }
  }
  outcome: {
    shape: oval
    style: {
      fill: "#ef5350"
      font-color: white
    }
  }
}
`

// GenerateD2 renders the graph as D2 source. Composite states become
// containers and every edge endpoint is addressed by its full container path.
func GenerateD2(g *domain.Graph) string {
	var sb strings.Builder
	sb.WriteString(d2Header)
	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("title: %s {\n  shape: text\n  near: top-center\n  style.font-size: 24\n}\n", quoteD2(g.Title)))
	}

	t := newTree(g)

	var render func(n domain.Node, indent string)
	render = func(n domain.Node, indent string) {
		sb.WriteString(fmt.Sprintf("%s%s: %s {\n", indent, quoteD2(n.ID), quoteD2(n.Label)))
		sb.WriteString(fmt.Sprintf("%s  class: %s\n", indent, n.Kind))
		for _, c := range t.children[n.ID] {
			render(c, indent+"  ")
		}
		sb.WriteString(indent + "}\n")
	}

	for _, n := range t.roots {
		render(n, "")
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("%s -> %s: %s\n", d2Path(t, e.Source), d2Path(t, e.Target), quoteD2(e.Label)))
	}

	return sb.String()
}

func d2Path(t *tree, id string) string {
	segments := t.path(id)
	for i, s := range segments {
		segments[i] = quoteD2(s)
	}
	return strings.Join(segments, ".")
}

func quoteD2(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}
