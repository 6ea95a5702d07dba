package searchtree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/config"
)

// countingMatcher records how many times each distinct box layout is scored,
// so a test can tell whether the same afterstate was matched more than once.
type countingMatcher struct {
	calls map[string]int
}

func (c *countingMatcher) MinCostMatching(boxes, goals []board.Pos) (float64, error) {
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[fmt.Sprint(boxes)]++
	return manhattanMatcher{}.MinCostMatching(boxes, goals)
}

func TestRolloutFindsImmediateWin(t *testing.T) {
	b := testBoard(t, "####", "#@*#", "####")
	cfg := config.Default()
	result, err := Rollout(b, manhattanMatcher{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, board.Win, result.MaxValue.Kind)
}

func TestRolloutFindsWinWithinLookahead(t *testing.T) {
	b := testBoard(t, "######", "#@$. #", "######")
	cfg := config.Default()
	cfg.Lookahead = 7
	result, err := Rollout(b, manhattanMatcher{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, board.Win, result.MaxValue.Kind)
	require.NotNil(t, result.Best)
}

func TestRolloutRespectsLookaheadBound(t *testing.T) {
	// A single push would win, but a zero-push horizon never tries it.
	b := testBoard(t, "######", "#@$. #", "######")
	cfg := config.Default()
	cfg.Lookahead = 0
	result, err := Rollout(b, manhattanMatcher{}, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, board.Win, result.MaxValue.Kind)
}

func TestRolloutDedupsTransposedBoards(t *testing.T) {
	// Two independent boxes can be pushed east in either order, converging on
	// the same board; without a visited set that board gets re-enqueued and
	// re-scored once per order it's reached by.
	b := testBoard(t, "###########", "#@  $   $.#", "#    .    #", "###########")
	cfg := config.Default()
	cfg.Lookahead = 4
	m := &countingMatcher{}
	_, err := Rollout(b, m, cfg)
	require.NoError(t, err)
	for layout, n := range m.calls {
		assert.Equal(t, 1, n, "box layout %s scored more than once", layout)
	}
}

func TestRolloutSkipsExpandingLossBoards(t *testing.T) {
	// Already deadlocked at the root: no valid push exists at all.
	b := testBoard(t, "####", "#@$#", "##.#", "####")
	cfg := config.Default()
	result, err := Rollout(b, manhattanMatcher{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, board.Loss, result.MaxValue.Kind)
}
