// Package level parses Sokoban level files in the classic Sokoban-XSB
// character format into a board.Board.
package level

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/paulkroe/SokobanSolver/internal/board"
)

// charTable maps the on-disk character set to Cells. '-' and '_' are accepted
// as alternate floor markers, matching common level-pack conventions.
var charTable = map[rune]board.Cell{
	'#': board.Wall,
	' ': board.Floor,
	'-': board.Floor,
	'_': board.Floor,
	'.': board.Goal,
	'$': board.Box,
	'*': board.BoxOnGoal,
	'@': board.Player,
	'+': board.PlayerOnGoal,
}

// MaxSteps is the default step budget applied to a freshly parsed level, the
// same constant the matching config package defaults to.
const MaxSteps = 1000

// Parse reads a single level (one screen of rows, terminated by a blank line
// or EOF) from r and builds a Board from it. Rows shorter than the widest row
// are right-padded with walls, matching how Sokoban level files omit trailing
// wall characters.
func Parse(r io.Reader) (*board.Board, error) {
	scanner := bufio.NewScanner(r)
	var rawRows []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			if len(rawRows) > 0 {
				break
			}
			continue
		}
		rawRows = append(rawRows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "level: reading level text")
	}
	if len(rawRows) == 0 {
		return nil, errors.New("level: no rows found")
	}

	width := 0
	for _, row := range rawRows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make([][]board.Cell, len(rawRows))
	var player board.Pos
	foundPlayer := false
	for r, row := range rawRows {
		grid[r] = make([]board.Cell, width)
		for c := 0; c < width; c++ {
			if c >= len(row) {
				grid[r][c] = board.Wall
				continue
			}
			cell, ok := charTable[rune(row[c])]
			if !ok {
				return nil, errors.Errorf("level: unrecognized character %q at row %d, col %d", row[c], r, c)
			}
			grid[r][c] = cell
			if cell.IsPlayer() {
				if foundPlayer {
					return nil, errors.New("level: more than one player cell")
				}
				player = board.Pos{Row: r, Col: c}
				foundPlayer = true
			}
		}
	}
	if !foundPlayer {
		return nil, errors.New("level: no player cell found")
	}

	return board.New(grid, player, 0, MaxSteps)
}

// ParseString is a convenience wrapper around Parse for level text already in
// memory (e.g. embedded test fixtures).
func ParseString(s string) (*board.Board, error) {
	return Parse(strings.NewReader(s))
}

// ParseAll reads every level in r, each separated by one or more blank lines,
// returning them in file order. Used for level packs (e.g. Microban) that
// bundle many boards in a single file.
func ParseAll(r io.Reader) ([]*board.Board, error) {
	scanner := bufio.NewScanner(r)
	var boards []*board.Board
	var current []string
	flush := func() error {
		if len(current) == 0 {
			return nil
		}
		b, err := ParseString(strings.Join(current, "\n"))
		if err != nil {
			return err
		}
		boards = append(boards, b)
		current = nil
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		// Level packs often prefix each level with a comment/title line; skip
		// lines that contain any character outside the board character set.
		if !looksLikeBoardRow(line) {
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "level: reading level pack")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, errors.New("level: no levels found in pack")
	}
	return boards, nil
}

func looksLikeBoardRow(line string) bool {
	for _, r := range line {
		if _, ok := charTable[r]; !ok {
			return false
		}
	}
	return true
}
