package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePuzzleConfig validates a puzzle configuration for correctness
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if len(config.Layout) < MinGridSize || len(config.Layout) > MaxGridSize {
		return fmt.Errorf("config validation: layout must have between %d and %d rows, got %d",
			MinGridSize, MaxGridSize, len(config.Layout))
	}
	if width := len(config.Layout[0]); width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("config validation: layout rows must have between %d and %d columns, got %d",
			MinGridSize, MaxGridSize, width)
	}

	if _, err := ParseBoardRows(config.Layout); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	return nil
}

// LoadPuzzleConfig loads a puzzle configuration from a JSON file or a raw
// puzzle text file
func LoadPuzzleConfig(filename string) (*PuzzleConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodePuzzleConfig(filename, data)
}

// DecodePuzzleConfig decodes file contents according to the file extension.
// Non-JSON files are treated as raw puzzle text named after the file.
func DecodePuzzleConfig(filename string, data []byte) (*PuzzleConfig, error) {
	var config *PuzzleConfig
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		config = &PuzzleConfig{}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	} else {
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		var err error
		config, err = PuzzleConfigFromText(name, string(data))
		if err != nil {
			return nil, err
		}
	}

	if err := ValidatePuzzleConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultPuzzleConfig returns the built-in starter puzzle
func DefaultPuzzleConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "starter",
		Description: "Small warehouse with a few boxes",
		Layout: []string{
			"########",
			"#..O.O.#",
			"##@.O..#",
			"#...O..#",
			"#.#.O..#",
			"#...O..#",
			"#......#",
			"########",
		},
		Moves: "<^^>>>vv<v>>v<<",
	}
}

// InitGameStateFromConfig creates a new game state using the provided configuration
func InitGameStateFromConfig(config *PuzzleConfig) (*GameState, error) {
	if config == nil {
		config = DefaultPuzzleConfig()
	}

	grid, err := ParseBoardRows(config.Layout)
	if err != nil {
		return nil, err
	}

	return &GameState{
		Grid:              grid,
		Message:           fmt.Sprintf("Loaded %s: %dx%d board, %d boxes", config.Name, grid.Width(), grid.Height(), grid.Count(Box)),
		ConfigName:        config.Name,
		BoxSum:            BoxCoordinateSum(grid),
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}, nil
}
