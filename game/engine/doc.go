// Package engine provides the core simulation logic for the Warehouse Robot Simulator.
//
// The engine package implements:
//   - The board model: a fixed-size Grid of cells (empty, wall, box, agent)
//     with a cached agent position
//   - Move resolution: relocating the agent, pushing a chain of boxes, or
//     rejecting the move
//   - Puzzle parsing: board text, move sequences, and the blank-line split
//     between them
//   - Puzzle configuration loading and validation
//
// Core Types:
//
// Grid owns the cells and the agent position. Resolve applies a single
// Direction to a Grid and returns a MoveResult describing the outcome.
// GameEngine wraps a Grid with its puzzle configuration, move history and
// counters, and implements the Engine interface used by the service layer.
//
// Usage:
//
//	puzzle, err := engine.ParsePuzzle(text)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, dir := range puzzle.Moves {
//		res, err := engine.Resolve(puzzle.Board, dir)
//		if err != nil {
//			log.Fatal(err) // invariant violation, state is corrupt
//		}
//		fmt.Println(res.Annotation())
//	}
//
// Rules:
//
// A move into a wall or off the grid is blocked. A move into an empty cell
// relocates the agent. A move into a box scans the contiguous run of boxes
// in the same direction; if the cell past the run is empty the whole run
// shifts by one, otherwise the move is blocked and nothing changes. Rows grow
// downwards, so up is (0,-1).
package engine
