package treeviz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/matching"
	"github.com/paulkroe/SokobanSolver/internal/searchtree"
)

func parseBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	g := make([][]board.Cell, len(rows))
	var player board.Pos
	for r, row := range rows {
		g[r] = make([]board.Cell, len(row))
		for c, ch := range row {
			switch ch {
			case '#':
				g[r][c] = board.Wall
			case ' ':
				g[r][c] = board.Floor
			case '.':
				g[r][c] = board.Goal
			case '$':
				g[r][c] = board.Box
			case '@':
				g[r][c] = board.Player
				player = board.Pos{Row: r, Col: c}
			}
		}
	}
	b, err := board.New(g, player, 0, 1000)
	require.NoError(t, err)
	return b
}

func TestRenderProducesValidDOT(t *testing.T) {
	b := parseBoard(t, "######", "#@$. #", "######")
	tree := searchtree.New(b)
	require.NoError(t, tree.ExpandNode(tree.Root, matching.ManhattanMatcher{}))

	dot, err := Render(tree.Root, "search")
	require.NoError(t, err)
	assert.True(t, strings.Contains(dot, "digraph"))
	assert.True(t, strings.Contains(dot, "octagon"), "the winning child should be rendered as an octagon")
}
