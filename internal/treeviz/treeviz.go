// Package treeviz renders a search tree to Graphviz DOT, color-coding Win and
// Loss nodes so the shape of a search run can be inspected visually.
package treeviz

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/searchtree"
)

// Render walks tree breadth-first from root and returns a DOT document: Win
// nodes are drawn as green octagons, Loss nodes as red boxes, everything else
// as a plain oval labeled with its visit count and mean value.
func Render(root *searchtree.Node, graphName string) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", errors.Wrap(err, "treeviz: set graph name")
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.Wrap(err, "treeviz: set directed")
	}

	id := make(map[*searchtree.Node]string)
	next := 0
	nodeID := func(n *searchtree.Node) string {
		if existing, ok := id[n]; ok {
			return existing
		}
		name := fmt.Sprintf("n%d", next)
		next++
		id[n] = name
		return name
	}

	queue := []*searchtree.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		name := nodeID(n)
		attrs := nodeAttrs(n)
		if err := g.AddNode(graphName, name, attrs); err != nil {
			return "", errors.Wrapf(err, "treeviz: add node %s", name)
		}
		if n.Parent != nil {
			if err := g.AddEdge(nodeID(n.Parent), name, true, map[string]string{
				"label": n.Move.String(),
			}); err != nil {
				return "", errors.Wrapf(err, "treeviz: add edge to %s", name)
			}
		}
		for _, child := range n.Children {
			queue = append(queue, child)
		}
	}

	return g.String(), nil
}

func nodeAttrs(n *searchtree.Node) map[string]string {
	label := fmt.Sprintf("\"n=%d q=%.2f\"", n.N, n.Q)
	switch n.Reward.Kind {
	case board.Win:
		return map[string]string{"label": label, "shape": "octagon", "style": "filled", "fillcolor": "green"}
	case board.Loss:
		return map[string]string{"label": label, "shape": "box", "style": "filled", "fillcolor": "red"}
	default:
		return map[string]string{"label": label, "shape": "oval"}
	}
}
