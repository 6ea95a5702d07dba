package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid builds a rectangular grid from row strings using the same character
// table as the level loader, for test readability.
func grid(rows ...string) [][]Cell {
	g := make([][]Cell, len(rows))
	for r, row := range rows {
		g[r] = make([]Cell, len(row))
		for c, ch := range row {
			switch ch {
			case '#':
				g[r][c] = Wall
			case ' ':
				g[r][c] = Floor
			case '.':
				g[r][c] = Goal
			case '$':
				g[r][c] = Box
			case '*':
				g[r][c] = BoxOnGoal
			case '@':
				g[r][c] = Player
			case '+':
				g[r][c] = PlayerOnGoal
			default:
				panic("unknown rune in test grid: " + string(ch))
			}
		}
	}
	return g
}

func findPlayer(g [][]Cell) Pos {
	for r, row := range g {
		for c, cell := range row {
			if cell.IsPlayer() {
				return Pos{r, c}
			}
		}
	}
	panic("no player in test grid")
}

func mustBoard(t *testing.T, rows ...string) *Board {
	t.Helper()
	g := grid(rows...)
	b, err := New(g, findPlayer(g), 0, 1000)
	require.NoError(t, err)
	return b
}

func TestNewRejectsMissingPlayer(t *testing.T) {
	g := grid(
		"#####",
		"#   #",
		"#####",
	)
	_, err := New(g, Pos{1, 1}, 0, 1000)
	require.Error(t, err)
}

func TestInteriorExcludesBoxesAndWalls(t *testing.T) {
	b := mustBoard(t,
		"#####",
		"#@$.#",
		"#####",
	)
	assert.True(t, b.Interior().Has(Pos{1, 1}))
	assert.False(t, b.Interior().Has(Pos{1, 2}), "box cell is not walkable, so not interior")
	assert.False(t, b.Interior().Has(Pos{1, 3}), "goal behind the box is unreachable by walking")
}

func TestValidMovesOnlyFromInterior(t *testing.T) {
	// Player can reach the left side of the box but not the right (the box
	// blocks the corridor), so only the push-right direction is legal.
	b := mustBoard(t,
		"######",
		"#@$. #",
		"######",
	)
	moves := b.ValidMoves()
	require.Len(t, moves, 1)
	assert.Equal(t, Push{1, 1, 0, 1}, moves[0])
}

func TestMovePreservesBoxAndGoalCounts(t *testing.T) {
	b := mustBoard(t,
		"######",
		"#@$. #",
		"######",
	)
	moves := b.ValidMoves()
	require.Len(t, moves, 1)
	next, err := b.Move(moves[0])
	require.NoError(t, err)
	assert.Len(t, next.BoxPositions(), 1)
	assert.Equal(t, Pos{1, 3}, next.BoxPositions()[0])
	assert.Equal(t, Pos{1, 2}, next.Player())
	assert.Equal(t, 1, next.Steps())
}

func TestMoveRejectsIllegalPush(t *testing.T) {
	b := mustBoard(t,
		"#####",
		"#@$.#",
		"#####",
	)
	// No box south of the player: the pushed cell is a wall.
	_, err := b.Move(Push{1, 1, 1, 0})
	require.Error(t, err)
}

func TestHashCollapsesWalkEquivalentPositions(t *testing.T) {
	// Two boards differing only in which interior cell the player occupies,
	// but with identical reachable interior and box positions, hash equal.
	a := mustBoard(t,
		"######",
		"#@  $#",
		"#   .#",
		"######",
	)
	bg := grid(
		"######",
		"#   $#",
		"#  @.#",
		"######",
	)
	b, err := New(bg, findPlayer(bg), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHashDiffersWithDifferentBoxPositions(t *testing.T) {
	a := mustBoard(t,
		"######",
		"#@ $ #",
		"#   .#",
		"######",
	)
	bbrd := mustBoard(t,
		"######",
		"#@  $#",
		"#   .#",
		"######",
	)
	assert.NotEqual(t, a.Hash(), bbrd.Hash())
}
