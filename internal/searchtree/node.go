// Package searchtree implements the MCTS tree: nodes with running statistics,
// UCT-with-variance selection, two-pass expansion and iterative pruning, and a
// hash-indexed registry that detects transpositions without re-parenting them.
package searchtree

import (
	"math"
	"math/rand"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/config"
)

// betterReward reports whether a is strictly preferable to b for solution
// extraction: a Win beats everything, a Loss beats nothing, and among Steps
// the higher scalar value wins.
func betterReward(a, b board.Reward) bool {
	if a.Kind != b.Kind {
		if a.Kind == board.Win {
			return true
		}
		if b.Kind == board.Win {
			return false
		}
		if a.Kind == board.Loss {
			return false
		}
		if b.Kind == board.Loss {
			return true
		}
	}
	return a.Value > b.Value
}

// Node is one position in the search tree: it caches the board it stands for,
// its incoming push, and the running statistics (visit count, mean value,
// sum of squares for the variance term, and the best reward ever observed in
// its subtree, used for solution extraction).
type Node struct {
	Board  *board.Board
	Move   board.Push
	Depth  int
	Parent *Node

	Children map[board.Push]*Node

	N            int
	Q            float64
	SumOfSquares float64
	Reward       board.Reward
	MaxValue     board.Reward

	expanded bool
	removed  bool
}

// NewNode builds a leaf node for the given board, as the child of parent via
// move (move is the zero Push for the root, which has a nil parent).
func NewNode(b *board.Board, parent *Node, move board.Push, depth int) *Node {
	return &Node{
		Board:    b,
		Move:     move,
		Depth:    depth,
		Parent:   parent,
		Children: make(map[board.Push]*Node),
		MaxValue: board.Reward{Kind: board.Loss, Value: math.Inf(-1)},
	}
}

// SetReward assigns n's own Reward, seeding SumOfSquares with reward.Value
// squared (its own contribution, before any simulation has passed through
// it) and folding reward into MaxValue if it's an improvement.
func (n *Node) SetReward(reward board.Reward) {
	n.Reward = reward
	n.SumOfSquares = reward.Value * reward.Value
	if betterReward(reward, n.MaxValue) {
		n.MaxValue = reward
	}
}

// IsLeaf reports whether the node has never been expanded.
func (n *Node) IsLeaf() bool { return !n.expanded }

// IsRemoved reports whether the node has been pruned from the tree.
func (n *Node) IsRemoved() bool { return n.removed }

// uctVariance is the node's exploration/exploitation score: the running mean
// plus a UCT exploration term augmented by an empirical-variance bonus, so
// nodes with noisy returns keep getting explored even once visited often.
func (n *Node) uctVariance(cfg config.Config) float64 {
	if n.N == 0 {
		return math.Inf(1)
	}
	parentN := 1
	if n.Parent != nil {
		parentN = n.Parent.N
	}
	exploration := cfg.CPuct * math.Sqrt(2*math.Log(float64(parentN))) / float64(n.N)
	variance := n.SumOfSquares/float64(n.N) - n.Q*n.Q + cfg.D
	if variance < 0 {
		variance = 0
	}
	return n.Q + exploration + math.Sqrt(variance)
}

// SelectChild picks the child to descend into: an unvisited child is always
// preferred (ties broken uniformly at random), otherwise the child maximizing
// uctVariance (ties broken uniformly at random). Removed children are never
// selected. SelectChild assumes the node has at least one live child.
func (n *Node) SelectChild(cfg config.Config, rng *rand.Rand) *Node {
	var unvisited []*Node
	for _, child := range n.Children {
		if child.removed {
			continue
		}
		if child.N == 0 {
			unvisited = append(unvisited, child)
		}
	}
	if len(unvisited) > 0 {
		return unvisited[rng.Intn(len(unvisited))]
	}

	var best []*Node
	bestScore := math.Inf(-1)
	for _, child := range n.Children {
		if child.removed {
			continue
		}
		score := child.uctVariance(cfg)
		if score > bestScore {
			bestScore = score
			best = []*Node{child}
		} else if score == bestScore {
			best = append(best, child)
		}
	}
	if len(best) == 0 {
		return nil
	}
	return best[rng.Intn(len(best))]
}

// SelectMove picks the live child with the best MaxValue, ties broken
// uniformly at random: solution extraction walks this chain rather than the
// most-visited one, since a deep but rarely-visited win is still a win.
func (n *Node) SelectMove(rng *rand.Rand) *Node {
	var best []*Node
	for _, child := range n.Children {
		if child.removed {
			continue
		}
		if len(best) == 0 || betterReward(child.MaxValue, best[0].MaxValue) {
			best = []*Node{child}
		} else if !betterReward(best[0].MaxValue, child.MaxValue) {
			best = append(best, child)
		}
	}
	if len(best) == 0 {
		return nil
	}
	return best[rng.Intn(len(best))]
}

// Update backpropagates a simulation result up from n to the root: the visit
// count, running mean and sum of squares accumulate at every ancestor, and
// MaxValue only ever improves.
func (n *Node) Update(value float64, maxValue board.Reward) {
	for cur := n; cur != nil; cur = cur.Parent {
		cur.N++
		cur.Q += (value - cur.Q) / float64(cur.N)
		cur.SumOfSquares += value * value
		if betterReward(maxValue, cur.MaxValue) {
			cur.MaxValue = maxValue
		}
	}
}

// ShouldRemove reports whether n can never contribute a solution: it is a
// Loss leaf, or it has been expanded and every child it ever added has since
// been removed — including the case where it added none at all, because
// every one of its successors transposed to an already-registered node.
func (n *Node) ShouldRemove() bool {
	if n.Reward.Kind == board.Loss {
		return true
	}
	if !n.expanded {
		return false
	}
	for _, child := range n.Children {
		if !child.removed {
			return false
		}
	}
	return true
}
