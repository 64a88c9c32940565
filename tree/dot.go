package tree

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// DOT renders the live subtree rooted at id as a Graphviz document, for
// offline inspection of a search with `dot -Tpng`. It is not on any hot
// path: call it between searches, not from a worker.
func (t *Tree) DOT(id NodeID, maxDepth int) string {
	g := gographviz.NewGraph()
	g.SetName("search")
	g.SetDir(true)

	t.dotWalk(g, id, maxDepth, 0)
	return g.String()
}

func (t *Tree) dotWalk(g *gographviz.Graph, id NodeID, maxDepth, depth int) {
	if !id.IsValid() {
		return
	}
	name := fmt.Sprintf("n%d", id)
	n := t.Node(id)
	exp := n.Exp()
	label := fmt.Sprintf("\"%v\\nv=%d avg=%.3f %v\"", n.Move(), exp.Visits(), exp.Avg(), n.Outcome())
	_ = g.AddNode("search", name, map[string]string{"label": label})

	if depth >= maxDepth {
		return
	}
	for _, kid := range t.Children(id) {
		kname := fmt.Sprintf("n%d", kid)
		t.dotWalk(g, kid, maxDepth, depth+1)
		_ = g.AddEdge(name, kname, true, nil)
	}
}
