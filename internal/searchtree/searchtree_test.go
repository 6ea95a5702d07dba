package searchtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulkroe/SokobanSolver/internal/board"
)

type manhattanMatcher struct{}

func (manhattanMatcher) MinCostMatching(boxes, goals []board.Pos) (float64, error) {
	total := 0.0
	for i, b := range boxes {
		total += float64(b.Manhattan(goals[i%len(goals)]))
	}
	return total, nil
}

func TestExpandNodeAddsOneChildPerMove(t *testing.T) {
	b := testBoard(t, "######", "#@$. #", "######")
	tree := New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, manhattanMatcher{}))
	assert.Len(t, tree.Root.Children, 1)
	assert.False(t, tree.Root.IsLeaf())
}

func TestExpandNodePrunesLossChildren(t *testing.T) {
	// Box A sits between the border wall and its goal, with the player on the
	// goal side: pushing A toward the wall corners it (pruned), pushing box B
	// leaves a live Step position (kept).
	b := testBoard(t, "#########", "# $.@$  #", "#########")
	tree := New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, manhattanMatcher{}))

	var sawRemoved, sawSurvived bool
	for move, child := range tree.Root.Children {
		if move.PlayerCol == 3 && move.Dc == -1 {
			assert.True(t, child.removed, "pushing box A into the border wall must be pruned")
			sawRemoved = true
		} else {
			assert.False(t, child.removed, "a Step child must survive pruning")
			sawSurvived = true
		}
	}
	assert.True(t, sawRemoved)
	assert.True(t, sawSurvived)
}

func TestExpandNodeDropsTransposedChildren(t *testing.T) {
	// Two independent boxes can be pushed in either order to reach the same
	// final board; expanding both orderings must converge on one registered
	// node rather than duplicating it.
	b := testBoard(t, "###########", "#@  $   $.#", "#    .    #", "###########")
	tree := New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, manhattanMatcher{}))

	var pushLeftBoxEast, pushRightBoxEast *Node
	for move, child := range tree.Root.Children {
		if move.Dr == 0 && move.Dc == 1 && move.PlayerCol == 3 {
			pushLeftBoxEast = child
		}
		if move.Dr == 0 && move.Dc == 1 && move.PlayerCol == 7 {
			pushRightBoxEast = child
		}
	}
	require.NotNil(t, pushLeftBoxEast)
	require.NotNil(t, pushRightBoxEast)

	require.NoError(t, tree.ExpandNode(pushLeftBoxEast, manhattanMatcher{}))
	lenAfterFirst := tree.Len()

	boxesAt := func(n *Node, cols ...int) bool {
		boxes := n.Board.BoxPositions()
		if len(boxes) != len(cols) {
			return false
		}
		for i, c := range cols {
			if boxes[i].Col != c {
				return false
			}
		}
		return true
	}

	var convergedHash string
	for _, child := range pushLeftBoxEast.Children {
		if boxesAt(child, 5, 9) {
			convergedHash = child.Board.Hash()
		}
	}
	require.NotEmpty(t, convergedHash, "pushing the right box east from pushLeftBoxEast must reach boxes at cols 5 and 9")

	require.NoError(t, tree.ExpandNode(pushRightBoxEast, manhattanMatcher{}))

	// The converging push is dropped rather than linked in as a duplicate:
	// the registry doesn't grow for it, and it never appears as one of
	// pushRightBoxEast's own children.
	_, stillRegisteredUnderOriginal := tree.Lookup(convergedHash)
	assert.True(t, stillRegisteredUnderOriginal)
	for _, child := range pushRightBoxEast.Children {
		assert.NotEqual(t, convergedHash, child.Board.Hash())
	}
	assert.Less(t, tree.Len()-lenAfterFirst, len(pushRightBoxEast.Board.ValidMoves()),
		"at least one of pushRightBoxEast's candidate children must have been dropped as a transposition")
}

func TestRemoveCascadesToRootWhenAllChildrenDie(t *testing.T) {
	b := testBoard(t, "#####", "#@$ #", "###.#", "#####")
	tree := New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, manhattanMatcher{}))
	// The only push available leads nowhere (deadlock), so the cascade must
	// reach the root itself.
	assert.True(t, tree.Root.IsRemoved())
}

func TestFindLocatesDescendantByHash(t *testing.T) {
	b := testBoard(t, "######", "#@$. #", "######")
	tree := New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, manhattanMatcher{}))
	var child *Node
	for _, c := range tree.Root.Children {
		child = c
	}
	require.NotNil(t, child)
	found := Find(tree.Root, child.Board.Hash())
	assert.Same(t, child, found)
}

func TestNodesAndDelNodesAreDisjoint(t *testing.T) {
	b := testBoard(t, "####", "#@$#", "##.#", "####")
	tree := New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, manhattanMatcher{}))
	for hash := range tree.nodes {
		assert.False(t, tree.delNodes.Has(hash))
	}
}
