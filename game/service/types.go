package service

import (
	"time"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
)

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameState    `json:"game_state"`
	GameConfig     *engine.PuzzleConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of a sequence of moves
type BulkMoveResult struct {
	// Summary
	RequestedMoves int               `json:"requested_moves"`
	SkippedTokens  int               `json:"skipped_tokens,omitempty"` // unrecognized move tokens that were ignored
	MovesExecuted  int               `json:"moves_executed"`
	Accepted       int               `json:"accepted"`
	Blocked        int               `json:"blocked"`
	Pushes         int               `json:"pushes"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos    engine.Position `json:"start_pos"`
	EndPos      engine.Position `json:"end_pos"`
	StartBoxSum int             `json:"start_box_sum"`
	EndBoxSum   int             `json:"end_box_sum"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Set when the run stopped on a corrupted board
	StoppedReason string `json:"stopped_reason,omitempty"`
	StoppedOnMove int    `json:"stopped_on_move,omitempty"` // 1-based index of the move that caused stop

	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx         int             `json:"idx"`
	Dir         string          `json:"dir"`
	From        engine.Position `json:"from"`
	To          engine.Position `json:"to"`
	Outcome     string          `json:"outcome"`
	Annotation  string          `json:"annotation"`
	ChainLength int             `json:"chain_length,omitempty"`
	BlockedBy   string          `json:"blocked_by,omitempty"`
}

// GameEvent represents an event that occurred during a run
type GameEvent struct {
	Type      string          `json:"type"` // "move", "push", "blocked", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Boxes       int    `json:"boxes"`
	ScriptMoves int    `json:"script_moves"`
}
