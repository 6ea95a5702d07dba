// Package cli renders boards and solved push sequences to a terminal, using
// lipgloss for styling and golang.org/x/term to size the output to the
// current window.
package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/paulkroe/SokobanSolver/internal/board"
)

var (
	wallStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boxStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	goalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	playerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	ansiRE = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// UI renders Sokoban boards to an io.Writer, centering output to the
// terminal width when one can be detected.
type UI struct {
	out   io.Writer
	width int
}

// New builds a UI writing to out. It probes the terminal width via out's own
// file descriptor when out is a terminal; otherwise it falls back to 80 columns.
func New(out io.Writer) *UI {
	width := 80
	if f, ok := out.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return &UI{out: out, width: width}
}

// RenderBoard writes a styled rendition of b.
func (u *UI) RenderBoard(b *board.Board) {
	height, width := b.Dimensions()
	var sb strings.Builder
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			sb.WriteString(cellGlyph(b.Cell(board.Pos{Row: r, Col: c})))
		}
		sb.WriteByte('\n')
	}
	u.printCentered(sb.String())
}

func cellGlyph(c board.Cell) string {
	switch c {
	case board.Wall:
		return wallStyle.Render("#")
	case board.Floor:
		return " "
	case board.Goal:
		return goalStyle.Render(".")
	case board.Box:
		return boxStyle.Render("$")
	case board.BoxOnGoal:
		return boxStyle.Render("*")
	case board.Player:
		return playerStyle.Render("@")
	case board.PlayerOnGoal:
		return playerStyle.Render("+")
	default:
		return "?"
	}
}

// Announce prints a win/loss banner.
func (u *UI) Announce(solved bool, pushes int) {
	if solved {
		u.printCentered(winStyle.Render(fmt.Sprintf("solved in %d pushes", pushes)) + "\n")
		return
	}
	u.printCentered(lossStyle.Render("no solution found") + "\n")
}

func (u *UI) printCentered(s string) {
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		fmt.Fprintln(u.out, centerString(line, u.width))
	}
}

func centerString(s string, width int) string {
	visible := ansiRE.ReplaceAllString(s, "")
	pad := (width - len(visible)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
