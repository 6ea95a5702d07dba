// Package solver drives a full level to completion: it repeatedly runs an
// MCTS search from the current board, commits to the recommended push, and
// advances until the level is won, proven unsolvable, or a step budget is
// exhausted. This is the collaborator the core search reports a single move
// to; the search itself has no notion of "playing a whole game".
package solver

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/paulkroe/SokobanSolver/internal/board"
	"github.com/paulkroe/SokobanSolver/internal/config"
	"github.com/paulkroe/SokobanSolver/internal/mcts"
)

// Result is the outcome of driving one level.
type Result struct {
	Solved bool
	Moves  []board.Push
	Boards []*board.Board // Boards[0] is the start, Boards[i+1] is after Moves[i].
}

// Solver plays a single level by re-running MCTS from scratch after every
// committed push: each push gets its own fresh search budget, rather than
// reusing statistics from the previous position's subtree.
type Solver struct {
	Matcher     board.Matcher
	Config      config.Config
	Simulations int
	MaxPushes   int
	Rand        *rand.Rand
}

// New builds a Solver with sensible defaults layered over cfg.
func New(matcher board.Matcher, cfg config.Config) *Solver {
	return &Solver{
		Matcher:     matcher,
		Config:      cfg,
		Simulations: cfg.MaxSimulations,
		MaxPushes:   cfg.MaxSteps,
	}
}

// Solve plays start to completion, logging one line per committed push.
func (s *Solver) Solve(ctx context.Context, start *board.Board) (Result, error) {
	result := Result{Boards: []*board.Board{start}}
	current := start

	for i := 0; i < s.MaxPushes; i++ {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, "solver: cancelled")
		}

		reward, err := current.Reward(s.Matcher)
		if err != nil {
			return result, err
		}
		if reward.Kind == board.Win {
			result.Solved = true
			klog.V(1).Infof("solver: solved in %d pushes", len(result.Moves))
			return result, nil
		}
		if reward.Kind == board.Loss {
			klog.V(1).Info("solver: position is a proven loss, stopping")
			return result, nil
		}

		search := mcts.New(current, s.Matcher, s.Config, s.rng())
		runStart := time.Now()
		if err := search.Run(ctx, s.Simulations); err != nil {
			return result, err
		}
		klog.V(2).Infof("solver: push %d searched %d simulations in %s", i, s.Simulations, time.Since(runStart))

		if solution, ok := search.Solution(); ok && len(solution) > 0 {
			next, err := current.Move(solution[0])
			if err != nil {
				return result, errors.Wrapf(err, "solver: applying solved push %v", solution[0])
			}
			result.Moves = append(result.Moves, solution[0])
			result.Boards = append(result.Boards, next)
			current = next
			continue
		}

		move, ok := search.BestMove()
		if !ok {
			klog.V(1).Info("solver: no move recommended, position likely unsolvable")
			return result, nil
		}
		next, err := current.Move(move)
		if err != nil {
			return result, errors.Wrapf(err, "solver: applying recommended push %v", move)
		}
		result.Moves = append(result.Moves, move)
		result.Boards = append(result.Boards, next)
		current = next
	}

	klog.V(1).Infof("solver: exhausted push budget (%d) without a win", s.MaxPushes)
	return result, nil
}

func (s *Solver) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
