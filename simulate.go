package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
)

// simulationSummary is what a replay reports once the move list is done
type simulationSummary struct {
	Moves   int
	Moved   int
	Pushed  int
	Blocked int
	BoxSum  int
}

func simulateAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFromCommand(cmd)
	if l := setupLogging(opts); l != nil {
		defer l.Close()
	}

	if cmd.Args().Len() != 1 {
		return errors.New("simulate expects exactly one puzzle file (use - for stdin)")
	}
	path := cmd.Args().First()

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read puzzle: %w", err)
	}

	summary, err := runSimulation(ctx, os.Stdout, string(data), cmd.Bool("quiet"))
	if err != nil {
		return err
	}
	log.Debug().
		Str("file", path).
		Int("moves", summary.Moves).
		Int("pushed", summary.Pushed).
		Int("blocked", summary.Blocked).
		Int("box_sum", summary.BoxSum).
		Msg("simulation finished")
	return nil
}

// runSimulation parses puzzle text and resolves its moves in order, writing
// the board with an annotation after each step unless quiet is set. A
// malformed board or a broken agent invariant ends the run with an error.
func runSimulation(ctx context.Context, w io.Writer, text string, quiet bool) (*simulationSummary, error) {
	puzzle, err := engine.ParsePuzzle(text)
	if err != nil {
		return nil, err
	}
	grid := puzzle.Board

	if !quiet {
		fmt.Fprintf(w, "Initial state:\n%s\n\n", grid.Render())
	}

	summary := &simulationSummary{}
	for i, dir := range puzzle.Moves {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := engine.Resolve(grid, dir)
		if err != nil {
			return summary, fmt.Errorf("move %d (%s): %w", i+1, dir, err)
		}

		summary.Moves++
		switch res.Outcome {
		case engine.Moved:
			summary.Moved++
		case engine.Pushed:
			summary.Pushed++
		default:
			summary.Blocked++
		}

		if !quiet {
			fmt.Fprintf(w, "Move %d %c: %s\n%s\n\n", i+1, dir.Token(), res.Annotation(), grid.Render())
		}
	}

	summary.BoxSum = engine.BoxCoordinateSum(grid)
	if quiet {
		fmt.Fprintf(w, "%s\n\n", grid.Render())
	}
	fmt.Fprintf(w, "Moves: %d (moved %d, pushed %d, blocked %d)\n",
		summary.Moves, summary.Moved, summary.Pushed, summary.Blocked)
	fmt.Fprintf(w, "Box coordinate sum: %d\n", summary.BoxSum)
	return summary, nil
}
