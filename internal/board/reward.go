package board

// Kind classifies a Reward as an ongoing position, a win or a loss.
type Kind uint8

const (
	Step Kind = iota
	Win
	Loss
)

func (k Kind) String() string {
	switch k {
	case Step:
		return "Step"
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	}
	return "Invalid"
}

// Reward is the scalar value and terminality classification of a board, as
// produced by a Matcher oracle.
type Reward struct {
	Value float64
	Kind  Kind
}

// Matcher scores a board by the negative cost of the best assignment of boxes
// to goals; it is the only component Reward depends on, kept as an interface
// so the assignment algorithm can be swapped or stubbed in tests.
type Matcher interface {
	// MinCostMatching returns the minimum total cost of a perfect matching
	// between boxes and goals.
	MinCostMatching(boxes, goals []Pos) (float64, error)
}

// Goals returns the sorted list of goal cells on the board, independent of
// whether they currently hold a box.
func (b *Board) Goals() []Pos {
	var goals []Pos
	for r, row := range b.grid {
		for c, cell := range row {
			if cell.IsGoal() {
				goals = append(goals, Pos{r, c})
			}
		}
	}
	return goals
}

// Reward classifies the board and scores it via matcher. A board with every
// box on a goal is a Win regardless of matching cost. A board past its step
// budget, or deadlocked per CheckDeadlock (no legal push, or an off-goal box
// in a wall corner), is a Loss. Otherwise it is an ongoing Step,
// valued at the negative of the matching cost (closer to zero is better).
func (b *Board) Reward(matcher Matcher) (Reward, error) {
	if b.allBoxesOnGoals() {
		return Reward{Value: 0, Kind: Win}, nil
	}

	cost, err := matcher.MinCostMatching(b.boxPositions, b.Goals())
	if err != nil {
		return Reward{}, err
	}
	value := -cost

	if b.steps > b.maxSteps || b.CheckDeadlock() {
		return Reward{Value: value, Kind: Loss}, nil
	}
	return Reward{Value: value, Kind: Step}, nil
}

func (b *Board) allBoxesOnGoals() bool {
	for _, box := range b.boxPositions {
		if b.Cell(box) != BoxOnGoal {
			return false
		}
	}
	return len(b.boxPositions) > 0
}

// CheckDeadlock reports whether the board is unsolvable from here: either no
// push is available at all, or some box not already on a goal is wedged into
// a corner formed by two perpendicular walls.
func (b *Board) CheckDeadlock() bool {
	if len(b.ValidMoves()) == 0 {
		return true
	}
	for _, box := range b.boxPositions {
		if b.Cell(box) == BoxOnGoal {
			continue
		}
		if b.isCornered(box) {
			return true
		}
	}
	return false
}

// isCornered reports whether box is pinned against a wall on one of its two
// perpendicular axis pairs: e.g. walls immediately north and east of it. A box
// pinned this way can never be pushed off that pair of axes again.
func (b *Board) isCornered(box Pos) bool {
	north := b.Cell(box.Add(-1, 0)) == Wall
	south := b.Cell(box.Add(1, 0)) == Wall
	east := b.Cell(box.Add(0, 1)) == Wall
	west := b.Cell(box.Add(0, -1)) == Wall

	return (north && east) || (north && west) || (south && east) || (south && west)
}
