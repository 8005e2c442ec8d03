package engine

import (
	"encoding/json"
	"fmt"
)

// Cell classifies a single grid position
type Cell uint8

const (
	Empty Cell = iota
	Wall
	Box
	Agent
)

const (
	// Validation constants
	MinGridSize  = 1
	MaxGridSize  = 200
	MaxBulkMoves = 1000
)

var cellTokens = [...]byte{
	Empty: '.',
	Wall:  '#',
	Box:   'O',
	Agent: '@',
}

var cellNames = [...]string{
	Empty: "empty",
	Wall:  "wall",
	Box:   "box",
	Agent: "agent",
}

var tokenCells = map[byte]Cell{
	'.': Empty,
	'#': Wall,
	'O': Box,
	'@': Agent,
}

// CellFromToken maps a board token to its cell. The second result is false
// for tokens outside the table.
func CellFromToken(token byte) (Cell, bool) {
	c, ok := tokenCells[token]
	return c, ok
}

// Token returns the board character for the cell
func (c Cell) Token() byte {
	if int(c) < len(cellTokens) {
		return cellTokens[c]
	}
	return '?'
}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return fmt.Sprintf("cell(%d)", uint8(c))
}

// MarshalJSON encodes the cell by name
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a cell from its name
func (c *Cell) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range cellNames {
		if n == name {
			*c = Cell(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cell %q", name)
}

// Position represents x,y coordinates (column, row)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// PuzzleConfig describes a warehouse puzzle as stored on disk
type PuzzleConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Layout      []string `json:"layout"`
	// Moves is the recorded move section, only ^ v < > are meaningful
	Moves string `json:"moves,omitempty"`
}

// GameState represents the complete state of a simulation
type GameState struct {
	Grid         *Grid              `json:"grid"`
	Message      string             `json:"message"`
	ConfigName   string             `json:"config_name"`
	Pushes       int                `json:"pushes"`
	BlockedMoves int                `json:"blocked_moves"`
	BoxSum       int                `json:"box_coordinate_sum"`
	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	TotalMoves   int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// Snapshot returns a deep copy of the state. The copy shares no grid
// cells or history backing arrays with gs.
func (gs *GameState) Snapshot() *GameState {
	if gs == nil {
		return nil
	}
	cp := *gs
	if gs.Grid != nil {
		cp.Grid = gs.Grid.Clone()
	}
	cp.MoveHistory = make([]MoveHistoryEntry, len(gs.MoveHistory))
	copy(cp.MoveHistory, gs.MoveHistory)
	cp.CurrentMoves = make([]MoveHistoryEntry, len(gs.CurrentMoves))
	copy(cp.CurrentMoves, gs.CurrentMoves)
	return &cp
}

// AgentPosition returns the cached agent position of the grid
func (gs *GameState) AgentPosition() Position {
	if gs.Grid == nil {
		return Position{}
	}
	return gs.Grid.AgentPosition()
}

// MoveHistoryEntry represents a single resolved move
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	Outcome      Outcome  `json:"outcome"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	ChainLength  int      `json:"chain_length,omitempty"`
	Timestamp    int64    `json:"timestamp"`
	MoveNumber   int      `json:"move_number"`
}
