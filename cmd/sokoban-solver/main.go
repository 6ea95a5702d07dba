// Command sokoban-solver loads a level and searches for a solution with MCTS
// over the afterstate-pruned push graph, printing the push sequence to stdout
// and, optionally, writing a DOT dump of a search tree to a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/paulkroe/SokobanSolver/internal/config"
	"github.com/paulkroe/SokobanSolver/internal/level"
	"github.com/paulkroe/SokobanSolver/internal/matching"
	"github.com/paulkroe/SokobanSolver/internal/mcts"
	"github.com/paulkroe/SokobanSolver/internal/solver"
	"github.com/paulkroe/SokobanSolver/internal/treeviz"
	"github.com/paulkroe/SokobanSolver/internal/ui/cli"
)

func main() {
	klog.InitFlags(nil)
	levelPath := flag.String("level", "", "path to a level file (Sokoban-XSB format)")
	levelIndex := flag.Int("level_index", 0, "index of the level to solve, for multi-level packs")
	simulations := flag.Int("simulations", 0, "MCTS simulations per push; 0 uses the config default")
	seed := flag.Int64("seed", 0, "PRNG seed; 0 seeds from the current time")
	paramString := flag.String("params", "", "comma-separated key=value overrides, e.g. c_puct=40,lookahead=5")
	dotPath := flag.String("dot", "", "if set, re-run one search from the start position and write its tree as Graphviz DOT to this path")
	flag.Parse()

	if err := run(*levelPath, *levelIndex, *simulations, *seed, *paramString, *dotPath); err != nil {
		klog.Errorf("sokoban-solver: %v", err)
		os.Exit(1)
	}
}

func run(levelPath string, levelIndex, simulations int, seed int64, paramString, dotPath string) error {
	if levelPath == "" {
		return errors.New("-level is required")
	}
	cfg, err := config.FromParams(config.NewParamsFromString(paramString))
	if err != nil {
		return errors.Wrap(err, "parsing -params")
	}
	if simulations > 0 {
		cfg.MaxSimulations = simulations
	}

	f, err := os.Open(levelPath)
	if err != nil {
		return errors.Wrapf(err, "opening %s", levelPath)
	}
	defer f.Close()

	boards, err := level.ParseAll(f)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", levelPath)
	}
	if levelIndex < 0 || levelIndex >= len(boards) {
		return errors.Errorf("level_index %d out of range, pack has %d levels", levelIndex, len(boards))
	}
	start := boards[levelIndex]

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		klog.Info("sokoban-solver: interrupted, cancelling search")
		cancel()
	}()
	defer cancel()

	matcher := matching.ManhattanMatcher{}
	s := solver.New(matcher, cfg)
	if seed != 0 {
		s.Rand = rand.New(rand.NewSource(seed))
	}

	ui := cli.New(os.Stdout)
	ui.RenderBoard(start)

	result, err := s.Solve(ctx, start)
	if err != nil {
		return err
	}
	ui.Announce(result.Solved, len(result.Moves))
	for i, move := range result.Moves {
		fmt.Printf("%3d: %s\n", i+1, move)
	}

	if dotPath != "" {
		search := mcts.New(start, matcher, cfg, s.Rand)
		if err := search.Run(ctx, cfg.MaxSimulations); err != nil {
			return errors.Wrap(err, "re-running search for visualization")
		}
		dot, err := treeviz.Render(search.Tree().Root, "search")
		if err != nil {
			return errors.Wrap(err, "rendering search tree")
		}
		if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", dotPath)
		}
		klog.Infof("sokoban-solver: wrote search tree to %s", dotPath)
	}
	return nil
}
