// Package mcts drives the Monte-Carlo tree search: it repeatedly selects a
// leaf, expands it on that first visit and scores one of its fresh children
// by rollout (an unexpanded leaf is never rolled out on its own), then
// backpropagates the result, and extracts a push sequence once a win is
// found or the simulation budget runs out.
package mcts

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/config"
	"github.com/paulkroe/SokobanSolver/internal/searchtree"
)

// MCTS owns one search: the tree rooted at an initial board, the matching
// oracle used to score positions, and the tunable search Config.
type MCTS struct {
	tree    *searchtree.SearchTree
	matcher board.Matcher
	cfg     config.Config
	rng     *rand.Rand

	// winPrefix and winTail together reconstruct the first discovered winning
	// push sequence: winPrefix is the chain of Moves from root down to the
	// tree node the winning rollout started from, winTail is the rollout's
	// own path from there to the winning board.
	winPrefix []board.Push
	winTail   []board.Push
}

// New builds an MCTS search over root using matcher to score positions and
// cfg for its tunable constants. Pass a non-nil rng for deterministic runs
// (tests, reproducible demos); nil seeds from the current time.
func New(root *board.Board, matcher board.Matcher, cfg config.Config, rng *rand.Rand) *MCTS {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MCTS{
		tree:    searchtree.New(root),
		matcher: matcher,
		cfg:     cfg,
		rng:     rng,
	}
}

// Tree exposes the underlying search tree, mainly for visualization.
func (m *MCTS) Tree() *searchtree.SearchTree { return m.tree }

// Run executes up to simulations iterations (or cfg.MaxSearchTime worth, if
// set), stopping early the moment a win is found anywhere in the tree or a
// rollout. ctx cancellation is checked between iterations.
func (m *MCTS) Run(ctx context.Context, simulations int) error {
	deadline := time.Time{}
	if m.cfg.MaxSearchTime > 0 {
		deadline = time.Now().Add(m.cfg.MaxSearchTime)
	}

	for i := 0; i < simulations; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "mcts: search cancelled")
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			klog.V(2).Infof("mcts: stopping after %d simulations, time budget exhausted", i)
			break
		}
		if m.tree.Root.IsRemoved() {
			klog.V(1).Info("mcts: root pruned, position is unsolvable")
			return nil
		}

		if err := m.simulate(); err != nil {
			return err
		}

		if m.tree.Root.MaxValue.Kind == board.Win {
			klog.V(2).Infof("mcts: win found after %d simulations", i+1)
			break
		}
	}
	return nil
}

// simulate runs one selection/expand/rollout/backprop iteration: it descends
// the tree to the first unexpanded node, expands it (unless already
// terminal), rolls out from whichever fresh child the expansion produced, and
// backpropagates the result up to the root.
func (m *MCTS) simulate() error {
	path := []*searchtree.Node{m.tree.Root}
	node := m.tree.Root
	for !node.IsLeaf() && len(node.Children) > 0 {
		child := node.SelectChild(m.cfg, m.rng)
		if child == nil {
			break
		}
		node = child
		path = append(path, node)
	}

	if node.Reward.Kind != board.Step && node != m.tree.Root {
		// A terminal node reached by selection (a kept Win leaf): nothing to
		// expand or roll out, just reinforce the statistic.
		node.Update(node.Reward.Value, node.Reward)
		if node.Reward.Kind == board.Win && m.winPrefix == nil {
			m.recordWin(path, nil)
		}
		return nil
	}

	if !node.IsLeaf() {
		// Selection stopped on an already-expanded node with no live
		// children (everything pruned since it was last visited).
		return nil
	}

	if err := m.tree.ExpandNode(node, m.matcher); err != nil {
		return err
	}
	if node.Reward.Kind != board.Step {
		// Root discovered, on expansion, to already be terminal.
		node.Update(node.Reward.Value, node.Reward)
		if node.Reward.Kind == board.Win && m.winPrefix == nil {
			m.recordWin(path, nil)
		}
		return nil
	}

	child := node.SelectChild(m.cfg, m.rng)
	if child == nil {
		return nil
	}
	path = append(path, child)

	result, err := searchtree.Rollout(child.Board, m.matcher, m.cfg)
	if err != nil {
		return err
	}
	child.Update(result.MaxValue.Value, result.MaxValue)
	if result.MaxValue.Kind == board.Win && m.winPrefix == nil {
		m.recordWin(path, result.Path)
	}
	return nil
}

func (m *MCTS) recordWin(path []*searchtree.Node, tail []board.Push) {
	prefix := make([]board.Push, 0, len(path)-1)
	for _, n := range path[1:] { // skip root, which carries the zero Push
		prefix = append(prefix, n.Move)
	}
	m.winPrefix = prefix
	m.winTail = tail
}

// BestMove returns the single push the search currently recommends from the
// root: the live child with the best MaxValue.
func (m *MCTS) BestMove() (board.Push, bool) {
	child := m.tree.Root.SelectMove(m.rng)
	if child == nil {
		return board.Push{}, false
	}
	return child.Move, true
}

// Solution reconstructs the full push sequence to a discovered win, if Run
// found one. It returns the exact path recorded when the win was first
// discovered (tree prefix plus rollout tail). When no win was recorded it
// walks SelectMove from the root and reports ok only if that walk reaches a
// Win node; no other search of the tree is made.
func (m *MCTS) Solution() ([]board.Push, bool) {
	if m.winPrefix != nil {
		return append(append([]board.Push(nil), m.winPrefix...), m.winTail...), true
	}
	return m.walkBestPath()
}

func (m *MCTS) walkBestPath() ([]board.Push, bool) {
	var moves []board.Push
	node := m.tree.Root
	for {
		if node.Reward.Kind == board.Win {
			return moves, true
		}
		next := node.SelectMove(m.rng)
		if next == nil {
			return nil, false
		}
		moves = append(moves, next.Move)
		node = next
	}
}
