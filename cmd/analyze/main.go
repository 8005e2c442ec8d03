// Command analyze prints quick, human-readable heuristics about the puzzle
// files in a configs directory. It summarizes dimensions, box and wall
// counts, highlights boxes wedged into corners, and reports the outcome of
// replaying each puzzle's recorded move section.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
)

// Analysis is the report for one puzzle
type Analysis struct {
	Name        string
	Width       int
	Height      int
	Robot       engine.Position
	Boxes       int
	Walls       int
	Floor       int
	BoxSum      int
	CornerBoxes []engine.Position

	Moves        int
	Moved        int
	Pushes       int
	Blocked      int
	LongestChain int
	FinalBoxSum  int
	FinalBoard   string
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.txt"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Printf("No puzzle files found in %s\n", dir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analysis, err := analyzeFile(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analysis)
	}
}

func analyzeFile(path string) (*Analysis, error) {
	config, err := engine.LoadPuzzleConfig(path)
	if err != nil {
		return nil, err
	}
	return analyzeConfig(config)
}

func analyzeConfig(config *engine.PuzzleConfig) (*Analysis, error) {
	grid, err := engine.ParseBoardRows(config.Layout)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:   config.Name,
		Width:  grid.Width(),
		Height: grid.Height(),
		Robot:  grid.AgentPosition(),
		Boxes:  grid.Count(engine.Box),
		Walls:  grid.Count(engine.Wall),
		Floor:  grid.Count(engine.Empty),
		BoxSum: engine.BoxCoordinateSum(grid),
	}
	a.CornerBoxes = cornerBoxes(grid)

	for i, dir := range engine.ParseMoves(config.Moves) {
		res, err := engine.Resolve(grid, dir)
		if err != nil {
			return a, fmt.Errorf("replay move %d: %w", i+1, err)
		}
		a.Moves++
		switch res.Outcome {
		case engine.Pushed:
			a.Pushes++
			if res.ChainLength > a.LongestChain {
				a.LongestChain = res.ChainLength
			}
		case engine.Moved:
			a.Moved++
		default:
			a.Blocked++
		}
	}
	a.FinalBoxSum = engine.BoxCoordinateSum(grid)
	a.FinalBoard = grid.Render()
	return a, nil
}

// cornerBoxes finds boxes with a wall (or the grid edge) on two
// perpendicular sides. Such a box can never be pushed again.
func cornerBoxes(g *engine.Grid) []engine.Position {
	blocked := func(p engine.Position, d engine.Direction) bool {
		next, ok := g.Step(p, d)
		if !ok {
			return true
		}
		cell, _ := g.Get(next)
		return cell == engine.Wall
	}

	var corners []engine.Position
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := engine.Position{X: x, Y: y}
			if cell, _ := g.Get(p); cell != engine.Box {
				continue
			}
			vertical := blocked(p, engine.Up) || blocked(p, engine.Down)
			horizontal := blocked(p, engine.Left) || blocked(p, engine.Right)
			if vertical && horizontal {
				corners = append(corners, p)
			}
		}
	}
	return corners
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Robot Position: %s\n", a.Robot)
	fmt.Fprintf(w, "Boxes: %d, Walls: %d, Floor: %d\n", a.Boxes, a.Walls, a.Floor)
	fmt.Fprintf(w, "Box Coordinate Sum: %d\n", a.BoxSum)

	if len(a.CornerBoxes) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d boxes are wedged into corners and can never move\n", len(a.CornerBoxes))
		for i, p := range a.CornerBoxes {
			if i < 5 {
				fmt.Fprintf(w, "   Stuck: %s\n", p)
			}
		}
		if len(a.CornerBoxes) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(a.CornerBoxes)-5)
		}
	} else {
		fmt.Fprintf(w, "✅ No boxes start wedged into a corner\n")
	}

	if a.Moves == 0 {
		fmt.Fprintf(w, "No recorded moves\n")
		return
	}
	fmt.Fprintf(w, "Replay: %d moves (moved %d, pushed %d, blocked %d)\n", a.Moves, a.Moved, a.Pushes, a.Blocked)
	fmt.Fprintf(w, "Longest chain pushed: %d\n", a.LongestChain)
	fmt.Fprintf(w, "Final Box Coordinate Sum: %d\n", a.FinalBoxSum)
	fmt.Fprintf(w, "%s\n", a.FinalBoard)
}
