package engine

import (
	"strings"
)

// Puzzle is a parsed puzzle input: the starting board and its move sequence
type Puzzle struct {
	Board *Grid
	Moves []Direction
}

// SplitPuzzle splits puzzle text at the first blank line into the board
// section and the move section. Text without a blank line is all board.
func SplitPuzzle(text string) (board, moves string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimLeft(text, "\n")
	if i := strings.Index(text, "\n\n"); i >= 0 {
		return text[:i], text[i+2:]
	}
	return text, ""
}

// ParsePuzzle parses the board and move sections of puzzle text
func ParsePuzzle(text string) (*Puzzle, error) {
	boardText, movesText := SplitPuzzle(text)
	board, err := ParseBoard(boardText)
	if err != nil {
		return nil, err
	}
	return &Puzzle{
		Board: board,
		Moves: ParseMoves(movesText),
	}, nil
}

// PuzzleConfigFromText wraps raw puzzle text as a named configuration
func PuzzleConfigFromText(name, text string) (*PuzzleConfig, error) {
	boardText, movesText := SplitPuzzle(text)
	board, err := ParseBoard(boardText)
	if err != nil {
		return nil, err
	}
	return &PuzzleConfig{
		Name:        name,
		Description: "Imported puzzle input",
		Layout:      board.Rows(),
		Moves:       FormatMoves(ParseMoves(movesText)),
	}, nil
}
