package searchtree

import (
	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/generics"
)

// SearchTree owns the node registry and tracks pruned nodes. nodes and
// delNodes partition the set of every node ever created: a node moves from
// nodes into delNodes exactly once, when it is pruned, and the two sets are
// always disjoint.
type SearchTree struct {
	Root     *Node
	nodes    map[string]*Node
	delNodes generics.Set[string]
}

// New builds a SearchTree rooted at root's board.
func New(root *board.Board) *SearchTree {
	rootNode := NewNode(root, nil, board.Push{}, 0)
	t := &SearchTree{
		Root:     rootNode,
		nodes:    make(map[string]*Node),
		delNodes: generics.MakeSet[string](),
	}
	t.nodes[root.Hash()] = rootNode
	return t
}

// Lookup returns the live node registered under hash, if any.
func (t *SearchTree) Lookup(hash string) (*Node, bool) {
	n, ok := t.nodes[hash]
	return n, ok
}

// Len returns the number of live (non-removed) nodes in the registry.
func (t *SearchTree) Len() int { return len(t.nodes) }

// ExpandNode grows node by one ply: every valid push is materialized into a
// child board and scored, in a first pass that adds every candidate before
// any pruning happens. A push whose resulting board transposes to an already
// registered node is dropped rather than turning the tree into a DAG: the
// first node discovered at a given hash keeps that hash, later arrivals are
// simply not linked in. A push reaching an already pruned hash is dropped too.
//
// The second pass prunes away freshly-added Loss children (and, transitively
// via Remove, node itself if every child turns out dead) only after every
// child has been added — pruning interleaved with adding would let an
// earlier Loss child's cascade remove node before its siblings are even
// considered.
func (t *SearchTree) ExpandNode(node *Node, matcher board.Matcher) error {
	// The root never gets its own Reward computed at creation time the way a
	// child does, since it has no parent to compute it on construction; fill
	// it in here, idempotently, before deciding whether there's anything to
	// expand at all.
	if node.Parent == nil {
		reward, err := node.Board.Reward(matcher)
		if err != nil {
			return err
		}
		node.SetReward(reward)
	}
	if node.Reward.Kind != board.Step {
		// Already terminal (a Win with nothing left to push, or a root just
		// found to be a Loss): there is nothing to expand into.
		node.expanded = true
		if node.Reward.Kind == board.Loss {
			t.Remove(node)
		}
		return nil
	}

	moves := node.Board.ValidMoves()
	var added []*Node
	for _, move := range moves {
		next, err := node.Board.Move(move)
		if err != nil {
			return err
		}
		if _, exists := t.nodes[next.Hash()]; exists || t.delNodes.Has(next.Hash()) {
			continue
		}
		reward, err := next.Reward(matcher)
		if err != nil {
			return err
		}
		child := NewNode(next, node, move, node.Depth+1)
		child.SetReward(reward)
		node.Children[move] = child
		t.nodes[next.Hash()] = child
		added = append(added, child)
	}
	node.expanded = true

	for _, child := range added {
		if child.Reward.Kind == board.Loss {
			t.Remove(child)
		}
	}
	if node.ShouldRemove() {
		t.Remove(node)
	}
	return nil
}

// Remove prunes start and cascades the removal upward iteratively (not
// recursively, so arbitrarily deep trees don't blow the call stack): a parent
// is pruned in turn as soon as every one of its children has been pruned.
func (t *SearchTree) Remove(start *Node) {
	queue := []*Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.removed {
			continue
		}
		n.removed = true
		delete(t.nodes, n.Board.Hash())
		t.delNodes.Insert(n.Board.Hash())
		if n.Parent != nil && n.Parent.ShouldRemove() {
			queue = append(queue, n.Parent)
		}
	}
}

// Find runs a breadth-first search from start for a descendant whose board
// hash matches target, searching live children only; it returns nil when no
// such node is found.
func Find(start *Node, target string) *Node {
	queue := []*Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Board.Hash() == target {
			return n
		}
		for _, child := range n.Children {
			if !child.removed {
				queue = append(queue, child)
			}
		}
	}
	return nil
}
