// Command validate checks the puzzle files in a config directory (default
// ../configs). JSON configs and raw puzzle text files are both accepted. It
// checks:
//   - JSON structure and required fields
//   - Grid consistency and allowed tokens (. # O @)
//   - Exactly one robot (@)
//   - Whether the perimeter is walled in
//   - Reachability: every box can be reached by the robot ignoring other boxes
//   - The recorded move section replays without breaking the board
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// readPuzzle returns the name, layout rows and move section of a puzzle file
func readPuzzle(filePath string, data []byte) (string, []string, string, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".json") {
		var config engine.PuzzleConfig
		if err := json.Unmarshal(data, &config); err != nil {
			return "", nil, "", fmt.Errorf("Invalid JSON: %v", err)
		}
		return config.Name, config.Layout, config.Moves, nil
	}

	board, moves := engine.SplitPuzzle(string(data))
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	var rows []string
	if board != "" {
		rows = strings.Split(strings.TrimRight(board, "\n"), "\n")
	}
	return name, rows, moves, nil
}

// validateConfig loads and validates a single puzzle file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	name, layout, moves, err := readPuzzle(filePath, data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if name == "" {
		result.fail("Name is required")
	}
	if len(layout) == 0 {
		result.fail("Layout is empty")
		return result
	}

	gridWidth := len(layout[0])
	agentCount := 0
	boxCount := 0
	wallCount := 0

	for i, row := range layout {
		if len(row) != gridWidth {
			result.fail("Inconsistent grid width at row %d: expected %d, got %d", i, gridWidth, len(row))
		}
		for j := 0; j < len(row); j++ {
			cell, ok := engine.CellFromToken(row[j])
			if !ok {
				result.fail("Invalid character '%c' at (%d,%d)", row[j], j, i)
				continue
			}
			switch cell {
			case engine.Agent:
				agentCount++
			case engine.Box:
				boxCount++
			case engine.Wall:
				wallCount++
			}
		}
	}

	if agentCount != 1 {
		result.fail("Must have exactly 1 robot (@), found %d", agentCount)
	}

	if !result.Valid {
		return result
	}

	if !perimeterWalled(layout) {
		result.warn("Perimeter is not fully walled; moves off the edge are blocked")
	}

	ignored := 0
	for _, r := range moves {
		if unicode.IsSpace(r) {
			continue
		}
		if r > unicode.MaxASCII {
			ignored++
			continue
		}
		if _, ok := engine.DirectionFromToken(byte(r)); !ok {
			ignored++
		}
	}
	if ignored > 0 {
		result.warn("Move section has %d unrecognized characters that will be skipped", ignored)
	}

	reachability := validateConnectivity(layout)
	if !reachability.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, reachability.Errors...)
	if !result.Valid {
		return result
	}

	config := &engine.PuzzleConfig{Name: name, Layout: layout, Moves: moves}
	if err := engine.ValidatePuzzleConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	replay, err := replayMoves(config)
	if err != nil {
		result.fail("Replay failed: %v", err)
		return result
	}

	result.info("Name: %s", name)
	result.info("Grid: %dx%d", gridWidth, len(layout))
	result.info("Boxes: %d", boxCount)
	result.info("Walls: %d", wallCount)
	result.info("Box coordinate sum: %d", replay.startSum)
	if replay.moves > 0 {
		result.info("Replay: %d moves (%d pushes, %d blocked), final box coordinate sum %d",
			replay.moves, replay.pushes, replay.blocked, replay.endSum)
	}

	return result
}

func perimeterWalled(layout []string) bool {
	last := len(layout) - 1
	for y, row := range layout {
		for x := 0; x < len(row); x++ {
			edge := y == 0 || y == last || x == 0 || x == len(row)-1
			if edge && row[x] != '#' {
				return false
			}
		}
	}
	return true
}

type replaySummary struct {
	moves    int
	pushes   int
	blocked  int
	startSum int
	endSum   int
}

// replayMoves plays the recorded move section on a fresh engine
func replayMoves(config *engine.PuzzleConfig) (replaySummary, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return replaySummary{}, err
	}

	summary := replaySummary{startSum: eng.GetState().BoxSum}
	results, err := eng.PlayScript()
	if err != nil {
		return summary, err
	}

	state := eng.GetState()
	summary.moves = len(results)
	summary.pushes = state.Pushes
	summary.blocked = state.BlockedMoves
	summary.endSum = state.BoxSum
	return summary, nil
}

// validateConnectivity ensures every box can be reached by the robot using
// 4-directional movement over non-wall cells, treating boxes as passable. A
// box sealed off by walls can never be pushed.
func validateConnectivity(layout []string) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if len(layout) == 0 {
		result.fail("Cannot validate connectivity: empty layout")
		return result
	}

	height := len(layout)
	width := len(layout[0])

	var start engine.Position
	found := false
	var boxes []engine.Position

	for y := 0; y < height; y++ {
		for x := 0; x < width && x < len(layout[y]); x++ {
			switch layout[y][x] {
			case '@':
				start = engine.Position{X: x, Y: y}
				found = true
			case 'O':
				boxes = append(boxes, engine.Position{X: x, Y: y})
			}
		}
	}

	if !found {
		result.fail("No robot position found for connectivity test")
		return result
	}

	if len(boxes) == 0 {
		result.info("Connectivity: no boxes to reach")
		return result
	}

	isPassable := func(x, y int) bool {
		if x < 0 || y < 0 || y >= height || x >= width || x >= len(layout[y]) {
			return false
		}
		return layout[y][x] != '#'
	}

	visited := make(map[engine.Position]bool)
	queue := []engine.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, d := range engine.Directions {
			dx, dy := d.Delta()
			next := engine.Position{X: current.X + dx, Y: current.Y + dy}
			if !visited[next] && isPassable(next.X, next.Y) {
				queue = append(queue, next)
			}
		}
	}

	var unreachable []string
	for _, box := range boxes {
		if !visited[box] {
			unreachable = append(unreachable, fmt.Sprintf("Box at %s", box))
		}
	}

	if len(unreachable) > 0 {
		result.fail("Connectivity failure: %d/%d boxes unreachable from the robot", len(unreachable), len(boxes))
		for _, box := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", box))
		}
	} else {
		result.info("Connectivity: all %d boxes reachable from the robot", len(boxes))
	}

	return result
}

// puzzleFiles lists the .json and .txt files of dir in name order
func puzzleFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// main validates every puzzle file in the directory given as the first
// argument, printing a concise report and exiting non-zero if any is invalid
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := puzzleFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding puzzle files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No puzzle files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
		for _, w := range result.Warnings {
			fmt.Println("  ⚠ " + w)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All puzzles are valid!")
	} else {
		fmt.Println("❌ Some puzzles have errors")
		os.Exit(1)
	}
}
