package searchtree

import (
	"math"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/config"
	"github.com/paulkroe/SokobanSolver/internal/generics"
)

// RolloutResult summarizes a bounded lookahead probe: the best reward reached
// within the horizon, the board that reached it, and the pushes taken to get
// there from start. Path lets a win found mid-rollout, beyond any expanded
// tree node, still be turned into a full solution.
type RolloutResult struct {
	MaxValue board.Reward
	Best     *board.Board
	Path     []board.Push
}

type rolloutItem struct {
	b     *board.Board
	depth int
	path  []board.Push
}

// Rollout performs a breadth-first probe up to cfg.Lookahead pushes deep from
// start, not a random playout: it is an upper-bound estimate of what's
// reachable, used to seed a freshly-expanded leaf's statistics. It returns as
// soon as a Win is found; Loss boards are scored but never expanded further.
func Rollout(start *board.Board, matcher board.Matcher, cfg config.Config) (RolloutResult, error) {
	best := RolloutResult{MaxValue: board.Reward{Kind: board.Loss, Value: math.Inf(-1)}}

	startReward, err := start.Reward(matcher)
	if err != nil {
		return best, err
	}
	best.MaxValue = startReward
	best.Best = start
	if startReward.Kind != board.Step {
		return best, nil
	}

	visited := generics.SetWith(start.Hash())
	queue := []rolloutItem{{start, 0, nil}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= cfg.Lookahead {
			continue
		}
		for _, move := range item.b.ValidMoves() {
			next, err := item.b.Move(move)
			if err != nil {
				return best, err
			}
			if visited.Has(next.Hash()) {
				continue
			}
			visited.Insert(next.Hash())
			path := append(append([]board.Push(nil), item.path...), move)
			reward, err := next.Reward(matcher)
			if err != nil {
				return best, err
			}
			if betterReward(reward, best.MaxValue) {
				best.MaxValue = reward
				best.Best = next
				best.Path = path
			}
			if reward.Kind == board.Win {
				return best, nil
			}
			if reward.Kind == board.Loss {
				continue
			}
			queue = append(queue, rolloutItem{next, item.depth + 1, path})
		}
	}
	return best, nil
}
