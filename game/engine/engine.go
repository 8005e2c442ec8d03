package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for simulation operations
type Engine interface {
	// State management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetAgentPosition() Position

	// Movement operations
	Move(direction Direction) (MoveResult, error)
	BulkMove(moves []Direction) ([]MoveResult, error)
	PlayScript() ([]MoveResult, error)
	CanMove(direction Direction) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *PuzzleConfig
	SetConfig(config *PuzzleConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Local view
	GetLocalView() []SurroundingCell
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *PuzzleConfig
}

// NewEngine creates a new engine with the provided puzzle
func NewEngine(config *PuzzleConfig) (*GameEngine, error) {
	if err := ValidatePuzzleConfig(config); err != nil {
		return nil, err
	}

	state, err := InitGameStateFromConfig(config)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		config: config,
		state:  state,
	}, nil
}

// GetState returns the current state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Grid == nil {
		return fmt.Errorf("state has no grid")
	}
	e.state = state
	return nil
}

// Reset restores the starting board
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	state, err := InitGameStateFromConfig(e.config)
	if err != nil {
		// the config was validated when the engine was built
		panic(fmt.Sprintf("engine: reset with invalid config: %v", err))
	}
	e.state = state

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0
	e.state.Message = "Board reset to initial layout"

	return e.state
}

// GetAgentPosition returns the current agent position
func (e *GameEngine) GetAgentPosition() Position {
	return e.state.Grid.AgentPosition()
}

// Move resolves one direction against the board and records it
func (e *GameEngine) Move(direction Direction) (MoveResult, error) {
	result, err := Resolve(e.state.Grid, direction)
	if err != nil {
		e.state.Message = err.Error()
		return result, err
	}

	switch result.Outcome {
	case Pushed:
		e.state.Pushes++
		e.state.BoxSum = BoxCoordinateSum(e.state.Grid)
		e.state.Message = fmt.Sprintf("Pushed %s: chain of length %d", direction, result.ChainLength)
	case Moved:
		e.state.Message = fmt.Sprintf("Moved %s to %s", direction, result.To)
	default:
		e.state.BlockedMoves++
		if result.OutOfBounds {
			e.state.Message = fmt.Sprintf("Can't move %s: edge of the grid", direction)
		} else {
			e.state.Message = fmt.Sprintf("Can't move %s: blocked by %s", direction, result.BlockedBy)
		}
	}

	e.addMoveToHistory(result)
	return result, nil
}

// BulkMove applies moves in order. Blocked moves do not stop the sequence;
// an invariant violation does, returning the results gathered so far.
func (e *GameEngine) BulkMove(moves []Direction) ([]MoveResult, error) {
	results := make([]MoveResult, 0, len(moves))
	for i, d := range moves {
		res, err := e.Move(d)
		if err != nil {
			return results, fmt.Errorf("move %d (%s): %w", i+1, d, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// PlayScript applies the puzzle's recorded move section
func (e *GameEngine) PlayScript() ([]MoveResult, error) {
	return e.BulkMove(ParseMoves(e.config.Moves))
}

// CanMove checks whether a move in direction would be accepted
func (e *GameEngine) CanMove(direction Direction) bool {
	res, err := Resolve(e.state.Grid.Clone(), direction)
	return err == nil && res.Accepted()
}

// GetPossibleMoves returns all directions that would be accepted
func (e *GameEngine) GetPossibleMoves() []string {
	return PossibleMoves(e.state.Grid)
}

// GetConfig returns the current puzzle configuration
func (e *GameEngine) GetConfig() *PuzzleConfig {
	return e.config
}

// SetConfig sets a new puzzle and resets the board
func (e *GameEngine) SetConfig(config *PuzzleConfig) error {
	if err := ValidatePuzzleConfig(config); err != nil {
		return err
	}
	state, err := InitGameStateFromConfig(config)
	if err != nil {
		return err
	}
	e.config = config
	e.state = state
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// GetLocalView returns the cells around the agent
func (e *GameEngine) GetLocalView() []SurroundingCell {
	return LocalView(e.state.Grid)
}

func (e *GameEngine) addMoveToHistory(result MoveResult) {
	entry := MoveHistoryEntry{
		Action:       result.Direction.String(),
		Outcome:      result.Outcome,
		FromPosition: result.From,
		ToPosition:   result.To,
		ChainLength:  result.ChainLength,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   e.state.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	e.state.MoveHistory = append(e.state.MoveHistory, entry)
	e.state.TotalMoves++

	e.state.CurrentMoves = append(e.state.CurrentMoves, entry)
	e.state.CurrentMovesCount++
}
