// Package matching implements the assignment-problem oracle the solver uses
// to score a board: the minimum-cost perfect matching of boxes to goals under
// Manhattan distance.
//
// No transport/assignment library appears anywhere in the retrieved example
// corpus (gonum's presence in the pack is for Dirichlet-noise sampling, not
// combinatorial optimization), so this is a direct, from-scratch
// implementation of the Hungarian algorithm (Kuhn-Munkres), kept dependency
// free and justified on its own as the one place the solver reaches for the
// standard library over a third-party package.
package matching

import (
	"math"

	"github.com/pkg/errors"

	"github.com/paulkroe/SokobanSolver/internal/board"
)

// ManhattanMatcher is a board.Matcher that scores assignments by Manhattan
// distance, solved exactly via the Hungarian algorithm.
type ManhattanMatcher struct{}

var _ board.Matcher = ManhattanMatcher{}

// MinCostMatching returns the minimum total Manhattan distance over all
// perfect matchings of boxes to goals. len(boxes) must equal len(goals);
// anything else signals a corrupted board and is reported as an error rather
// than silently padded.
func (ManhattanMatcher) MinCostMatching(boxes, goals []board.Pos) (float64, error) {
	n := len(boxes)
	if n != len(goals) {
		return 0, errors.Errorf("matching: %d boxes but %d goals, counts must match", n, len(goals))
	}
	if n == 0 {
		return 0, nil
	}
	cost := make([][]float64, n)
	for i, box := range boxes {
		cost[i] = make([]float64, n)
		for j, goal := range goals {
			cost[i][j] = float64(box.Manhattan(goal))
		}
	}
	return hungarian(cost)
}

// hungarian solves the square minimum-cost perfect matching problem in
// O(n^3), via the Jonker-Volgenant-style potentials formulation of the
// Kuhn-Munkres algorithm. cost must be an n x n matrix.
func hungarian(cost [][]float64) (float64, error) {
	n := len(cost)
	const inf = math.MaxFloat64 / 2

	// u, v are the row/column potentials; p[j] is the row currently matched to
	// column j (1-indexed, 0 meaning unmatched); way[j] records the column
	// each augmenting path came from, to reconstruct the assignment.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minV := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minV {
			minV[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minV[j] {
					minV[j] = cur
					way[j] = j0
				}
				if minV[j] < delta {
					delta = minV[j]
					j1 = j
				}
			}
			if j1 == -1 {
				return 0, errors.New("matching: no augmenting path found, cost matrix malformed")
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minV[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	total := 0.0
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			total += cost[p[j]-1][j-1]
		}
	}
	return total, nil
}
