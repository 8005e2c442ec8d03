package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Outcome is how a single move resolved
type Outcome uint8

const (
	Blocked Outcome = iota
	Moved
	Pushed
)

var outcomeNames = [...]string{
	Blocked: "blocked",
	Moved:   "moved",
	Pushed:  "pushed",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// MarshalJSON encodes the outcome by name
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an outcome name
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range outcomeNames {
		if n == name {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", name)
}

// MoveResult describes one resolved move
type MoveResult struct {
	Direction   Direction `json:"direction"`
	Outcome     Outcome   `json:"outcome"`
	From        Position  `json:"from"`
	To          Position  `json:"to"`
	ChainLength int       `json:"chain_length,omitempty"`
	// BlockedAt is the cell that stopped the move. OutOfBounds is set when
	// the stop was the edge of the grid.
	BlockedAt   *Position `json:"blocked_at,omitempty"`
	BlockedBy   Cell      `json:"blocked_by,omitempty"`
	OutOfBounds bool      `json:"out_of_bounds,omitempty"`
}

// Accepted reports whether the grid changed
func (r MoveResult) Accepted() bool {
	return r.Outcome != Blocked
}

// Annotation is the human-readable label for the step
func (r MoveResult) Annotation() string {
	switch r.Outcome {
	case Pushed:
		return fmt.Sprintf("chain of length %d", r.ChainLength)
	case Moved:
		return "moved"
	default:
		return "blocked"
	}
}

// ScanChain walks from start in direction d while cells hold Box. It returns
// the number of boxes seen and the first non-box cell. ok is false when that
// cell is a wall or the walk leaves the grid; end is then the last in-bounds
// position visited.
func ScanChain(g *Grid, start Position, d Direction) (length int, end Position, ok bool) {
	limit := g.width
	if g.height > limit {
		limit = g.height
	}

	pos := start
	for length <= limit {
		cell, err := g.Get(pos)
		if err != nil {
			return length, pos, false
		}
		switch cell {
		case Empty:
			return length, pos, true
		case Box:
			length++
		default:
			return length, pos, false
		}
		next, inBounds := g.Step(pos, d)
		if !inBounds {
			return length, pos, false
		}
		pos = next
	}
	return length, pos, false
}

// Resolve applies direction d to the grid's agent. A blocked move leaves the
// grid untouched; an accepted push writes only the two boundary cells of the
// chain, since interior cells stay Box.
func Resolve(g *Grid, d Direction) (MoveResult, error) {
	from := g.agent
	result := MoveResult{Direction: d, Outcome: Blocked, From: from, To: from}

	if !d.Valid() {
		return result, fmt.Errorf("%w: %s", ErrInvalidDirection, d)
	}

	current, err := g.Get(from)
	if err != nil || current != Agent {
		return result, &InvariantError{Agent: from, Direction: d, Found: current}
	}

	target, inBounds := g.Step(from, d)
	if !inBounds {
		result.OutOfBounds = true
		result.BlockedBy = Wall
		return result, nil
	}

	cell, err := g.Get(target)
	if err != nil {
		return result, err
	}

	switch cell {
	case Empty:
		if err := g.MoveAgent(target); err != nil {
			return result, err
		}
		result.Outcome = Moved
		result.To = target
		return result, nil

	case Box:
		length, end, ok := ScanChain(g, target, d)
		if !ok {
			stop := end
			endCell, getErr := g.Get(end)
			if getErr == nil && endCell == Box {
				// the chain ran into the grid edge
				result.OutOfBounds = true
				endCell = Wall
			}
			result.BlockedAt = &stop
			result.BlockedBy = endCell
			result.ChainLength = length
			return result, nil
		}
		if err := g.Set(end, Box); err != nil {
			return result, err
		}
		if err := g.MoveAgent(target); err != nil {
			return result, err
		}
		result.Outcome = Pushed
		result.To = target
		result.ChainLength = length
		return result, nil

	case Agent:
		// a second agent can only appear through corruption
		return result, &InvariantError{Agent: from, Direction: d, Found: cell}

	default:
		result.BlockedAt = &target
		result.BlockedBy = cell
		return result, nil
	}
}

// IsFatal reports whether err must stop a run
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}
