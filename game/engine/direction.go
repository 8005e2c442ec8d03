package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is one of the four unit steps the agent can take
type Direction uint8

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the valid directions in token order
var Directions = []Direction{Up, Down, Left, Right}

var directionNames = [...]string{
	NoDirection: "none",
	Up:          "up",
	Down:        "down",
	Left:        "left",
	Right:       "right",
}

var directionTokens = [...]byte{
	NoDirection: ' ',
	Up:          '^',
	Down:        'v',
	Left:        '<',
	Right:       '>',
}

// Delta returns the column and row offsets of the direction.
// Rows grow downwards, so Up is (0,-1).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four unit directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Token returns the move character for the direction
func (d Direction) Token() byte {
	if int(d) < len(directionTokens) {
		return directionTokens[d]
	}
	return ' '
}

// MarshalJSON encodes the direction by name
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a direction name or token
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseDirection(s)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	*d = parsed
	return nil
}

// DirectionFromToken maps a move character to its direction
func DirectionFromToken(token byte) (Direction, bool) {
	switch token {
	case '^':
		return Up, true
	case 'v':
		return Down, true
	case '<':
		return Left, true
	case '>':
		return Right, true
	}
	return NoDirection, false
}

// ParseDirection accepts either a direction name ("up") or a single
// move token ("^"). Names are case-insensitive.
func ParseDirection(s string) (Direction, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		if d, ok := DirectionFromToken(s[0]); ok {
			return d, true
		}
	}
	switch strings.ToLower(s) {
	case "up", "u", "north":
		return Up, true
	case "down", "d", "south":
		return Down, true
	case "left", "l", "west":
		return Left, true
	case "right", "r", "east":
		return Right, true
	}
	return NoDirection, false
}

// ParseMoves turns a move section into directions. Characters other than
// ^ v < > (newlines included) are skipped.
func ParseMoves(s string) []Direction {
	moves := make([]Direction, 0, len(s))
	for i := 0; i < len(s); i++ {
		if d, ok := DirectionFromToken(s[i]); ok {
			moves = append(moves, d)
		}
	}
	return moves
}

// FormatMoves is the inverse of ParseMoves
func FormatMoves(moves []Direction) string {
	var b strings.Builder
	b.Grow(len(moves))
	for _, d := range moves {
		if d.Valid() {
			b.WriteByte(d.Token())
		}
	}
	return b.String()
}
