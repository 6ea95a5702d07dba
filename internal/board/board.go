// Package board implements the Sokoban board: an immutable value type, its
// push-move generation and its canonical hash.
//
// Successor generation does not enumerate raw player steps; it enumerates pushes
// reachable from the player-accessible region (the "interior"). Two boards whose
// interior and box positions match are search-equivalent, since every push
// reachable from one is reachable from the other. This collapses the walk-move
// branching factor and gives the transposition key used by the search tree.
package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/paulkroe/SokobanSolver/internal/generics"
)

// Cell is the content of a single grid position.
type Cell uint8

const (
	Wall Cell = iota
	Floor
	Goal
	Box
	BoxOnGoal
	Player
	PlayerOnGoal
)

var cellNames = [...]string{"Wall", "Floor", "Goal", "Box", "BoxOnGoal", "Player", "PlayerOnGoal"}

// String returns the cell's long name.
func (c Cell) String() string {
	if int(c) >= len(cellNames) {
		return "Invalid"
	}
	return cellNames[c]
}

// IsBox reports whether the cell holds a box, on or off a goal.
func (c Cell) IsBox() bool {
	return c == Box || c == BoxOnGoal
}

// IsGoal reports whether the underlying cell is a goal, whatever currently occupies it.
func (c Cell) IsGoal() bool {
	return c == Goal || c == BoxOnGoal || c == PlayerOnGoal
}

// IsPlayer reports whether the cell holds the player.
func (c Cell) IsPlayer() bool {
	return c == Player || c == PlayerOnGoal
}

// IsWalkable reports whether the player can walk onto this cell (not a wall, not a box).
func (c Cell) IsWalkable() bool {
	return c != Wall && !c.IsBox()
}

// Pos is a (row, column) grid coordinate.
type Pos struct {
	Row, Col int
}

// String returns a human-readable coordinate.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns p translated by (dr, dc).
func (p Pos) Add(dr, dc int) Pos {
	return Pos{p.Row + dr, p.Col + dc}
}

// Manhattan returns the Manhattan distance between p and q.
func (p Pos) Manhattan(q Pos) int {
	return absInt(p.Row-q.Row) + absInt(p.Col-q.Col)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func comparePos(a, b Pos) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

// neighborDeltas enumerates the four orthogonal directions, N,E,S,W, in a fixed
// order so that valid-move sets and deadlock checks are deterministic.
var neighborDeltas = [4][2]int{
	{-1, 0}, // North
	{0, 1},  // East
	{1, 0},  // South
	{0, -1}, // West
}

// Push is a single box displacement: the player stands at (PlayerRow, PlayerCol),
// adjacent to a box in direction (Dr, Dc), and pushes it one cell further in that
// direction. Push is comparable so it can key a Node's children map.
type Push struct {
	PlayerRow, PlayerCol int
	Dr, Dc               int
}

// String renders a push in the classic "player position + direction" form.
func (m Push) String() string {
	return fmt.Sprintf("push@(%d,%d)+(%d,%d)", m.PlayerRow, m.PlayerCol, m.Dr, m.Dc)
}

// Board is an immutable Sokoban position. Every mutator (Move) returns a fresh
// Board; the grid itself is never written to in place after construction.
type Board struct {
	grid     [][]Cell
	player   Pos
	steps    int
	maxSteps int

	// interior and boxPositions are computed once at construction, since both
	// push generation and hashing need them repeatedly.
	interior     generics.Set[Pos]
	boxPositions []Pos
	hash         string
}

// New builds a Board from a grid, player position and step count, deriving the
// interior, box positions and hash. It fails fast on malformed input: not
// exactly one player cell at the given position, or a mismatched player marker.
func New(grid [][]Cell, player Pos, steps, maxSteps int) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, errors.New("board: empty grid")
	}
	if player.Row < 0 || player.Row >= len(grid) || player.Col < 0 || player.Col >= len(grid[0]) {
		return nil, errors.Errorf("board: player position %v out of bounds", player)
	}
	if !grid[player.Row][player.Col].IsPlayer() {
		return nil, errors.Errorf("board: cell at player position %v is %s, not a player cell",
			player, grid[player.Row][player.Col])
	}
	if steps < 0 {
		return nil, errors.Errorf("board: negative steps %d", steps)
	}
	if n := countPlayers(grid); n != 1 {
		return nil, errors.Errorf("board: expected exactly one player cell, found %d", n)
	}

	b := &Board{
		grid:     grid,
		player:   player,
		steps:    steps,
		maxSteps: maxSteps,
	}
	b.interior = floodInterior(grid, player)
	b.boxPositions = findBoxes(grid)
	b.hash = computeHash(b.interior, b.boxPositions)
	return b, nil
}

func countPlayers(grid [][]Cell) int {
	n := 0
	for _, row := range grid {
		for _, c := range row {
			if c.IsPlayer() {
				n++
			}
		}
	}
	return n
}

func findBoxes(grid [][]Cell) []Pos {
	var boxes []Pos
	for r, row := range grid {
		for c, cell := range row {
			if cell.IsBox() {
				boxes = append(boxes, Pos{r, c})
			}
		}
	}
	slices.SortFunc(boxes, comparePos)
	return boxes
}

// floodInterior computes the set of cells reachable from player by walking
// through non-wall, non-box cells, 4-connected.
func floodInterior(grid [][]Cell, player Pos) generics.Set[Pos] {
	interior := generics.MakeSet[Pos]()
	interior.Insert(player)
	queue := []Pos{player}
	height, width := len(grid), len(grid[0])
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, d := range neighborDeltas {
			next := pos.Add(d[0], d[1])
			if next.Row < 0 || next.Row >= height || next.Col < 0 || next.Col >= width {
				continue
			}
			if interior.Has(next) {
				continue
			}
			if !grid[next.Row][next.Col].IsWalkable() {
				continue
			}
			interior.Insert(next)
			queue = append(queue, next)
		}
	}
	return interior
}

func computeHash(interior generics.Set[Pos], boxes []Pos) string {
	interiorSlice := make([]Pos, 0, len(interior))
	for p := range interior {
		interiorSlice = append(interiorSlice, p)
	}
	slices.SortFunc(interiorSlice, comparePos)

	var sb strings.Builder
	sb.WriteString("I:")
	for _, p := range interiorSlice {
		fmt.Fprintf(&sb, "%d,%d;", p.Row, p.Col)
	}
	sb.WriteString("|B:")
	for _, p := range boxes {
		fmt.Fprintf(&sb, "%d,%d;", p.Row, p.Col)
	}
	return sb.String()
}

// Hash returns the canonical (interior, box_positions) key. Two boards with
// equal Hash are search-equivalent: they have the same reachable push set.
func (b *Board) Hash() string { return b.hash }

// Steps returns the number of pushes taken since the root.
func (b *Board) Steps() int { return b.steps }

// MaxSteps returns the hard step cutoff.
func (b *Board) MaxSteps() int { return b.maxSteps }

// Player returns the player's current cell.
func (b *Board) Player() Pos { return b.player }

// Interior returns the set of cells reachable from the player by walking alone.
func (b *Board) Interior() generics.Set[Pos] { return b.interior }

// BoxPositions returns the sorted list of cells currently holding a box.
func (b *Board) BoxPositions() []Pos { return b.boxPositions }

// Cell returns the content of the grid at p. Out-of-bounds positions return Wall.
func (b *Board) Cell(p Pos) Cell {
	if p.Row < 0 || p.Row >= len(b.grid) || p.Col < 0 || p.Col >= len(b.grid[0]) {
		return Wall
	}
	return b.grid[p.Row][p.Col]
}

// Dimensions returns (height, width) of the grid.
func (b *Board) Dimensions() (int, int) {
	return len(b.grid), len(b.grid[0])
}

// ValidMoves enumerates every push reachable from the current interior: for
// each box and each of the four directions, the player must be able to stand
// on the cell behind the box (within the interior) and the cell ahead of the
// box must be free of walls and other boxes.
func (b *Board) ValidMoves() []Push {
	seen := generics.MakeSet[Push]()
	var moves []Push
	for _, box := range b.boxPositions {
		for _, d := range neighborDeltas {
			stand := box.Add(-d[0], -d[1])
			if !b.interior.Has(stand) {
				continue
			}
			landing := box.Add(d[0], d[1])
			if !b.Cell(landing).IsWalkable() {
				continue
			}
			push := Push{stand.Row, stand.Col, d[0], d[1]}
			if !seen.Has(push) {
				seen.Insert(push)
				moves = append(moves, push)
			}
		}
	}
	return moves
}

// Move applies push, returning the resulting Board. It panics-equivalent fails
// fast (via error, not a silent wrong board) if push isn't actually legal on b:
// callers are expected to only apply pushes from ValidMoves.
func (b *Board) Move(push Push) (*Board, error) {
	height, width := b.Dimensions()
	if push.PlayerRow < 0 || push.PlayerRow >= height || push.PlayerCol < 0 || push.PlayerCol >= width {
		return nil, errors.Errorf("board: push %v player position out of bounds", push)
	}
	if !b.interior.Has(Pos{push.PlayerRow, push.PlayerCol}) {
		return nil, errors.Errorf("board: push %v player position is not reachable", push)
	}
	boxPos := Pos{push.PlayerRow + push.Dr, push.PlayerCol + push.Dc}
	landingPos := boxPos.Add(push.Dr, push.Dc)
	if !b.Cell(boxPos).IsBox() {
		return nil, errors.Errorf("board: push %v has no box at %v", push, boxPos)
	}
	if !b.Cell(landingPos).IsWalkable() {
		return nil, errors.Errorf("board: push %v landing cell %v is not walkable", push, landingPos)
	}

	before := len(b.boxPositions)
	beforeGoals := b.countGoalCells()

	newGrid := make([][]Cell, height)
	for r := range b.grid {
		newGrid[r] = slices.Clone(b.grid[r])
	}

	playerPos := b.player
	newGrid[playerPos.Row][playerPos.Col] = underlayAfterPlayerLeaves(b.grid[playerPos.Row][playerPos.Col])
	newGrid[landingPos.Row][landingPos.Col] = boxCellFor(b.grid[landingPos.Row][landingPos.Col])
	newGrid[boxPos.Row][boxPos.Col] = playerCellFor(b.grid[boxPos.Row][boxPos.Col])

	newBoard, err := New(newGrid, boxPos, b.steps+1, b.maxSteps)
	if err != nil {
		return nil, errors.Wrapf(err, "board: invariant broken applying push %v", push)
	}
	if len(newBoard.boxPositions) != before {
		return nil, errors.Errorf("board: push %v changed box count %d -> %d", push, before, len(newBoard.boxPositions))
	}
	if newBoard.countGoalCells() != beforeGoals {
		return nil, errors.Errorf("board: push %v changed goal count %d -> %d", push, beforeGoals, newBoard.countGoalCells())
	}
	return newBoard, nil
}

func (b *Board) countGoalCells() int {
	n := 0
	for _, row := range b.grid {
		for _, c := range row {
			if c.IsGoal() {
				n++
			}
		}
	}
	return n
}

// underlayAfterPlayerLeaves maps a player cell to what remains once the player
// steps off it: the goal underlay is preserved, the player marker is not.
func underlayAfterPlayerLeaves(c Cell) Cell {
	if c == PlayerOnGoal {
		return Goal
	}
	return Floor
}

// boxCellFor maps the destination cell's current content (floor or goal) to its
// box-occupied form.
func boxCellFor(c Cell) Cell {
	if c.IsGoal() {
		return BoxOnGoal
	}
	return Box
}

// playerCellFor maps the cell the player steps onto (a box cell being vacated)
// to its player-occupied form, preserving the goal underlay.
func playerCellFor(c Cell) Cell {
	if c == BoxOnGoal {
		return PlayerOnGoal
	}
	return Player
}
