package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Grid is a fixed-size board of cells with a cached agent position
type Grid struct {
	width  int
	height int
	cells  []Cell
	agent  Position
}

// ParseBoard builds a grid from board text, one row per line
func ParseBoard(text string) (*Grid, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, malformed("board is empty")
	}
	return ParseBoardRows(strings.Split(text, "\n"))
}

// ParseBoardRows builds a grid from equal-length rows of board tokens.
// Exactly one agent token must be present.
func ParseBoardRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, malformed("board has no rows")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, malformed("row 1 is empty")
	}

	g := &Grid{
		width:  width,
		height: len(rows),
		cells:  make([]Cell, width*len(rows)),
	}

	agents := 0
	for y, row := range rows {
		if len(row) != width {
			return nil, malformed("row %d has %d columns, expected %d", y+1, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			c, ok := CellFromToken(row[x])
			if !ok {
				return nil, malformed("unrecognized token %q at row %d, col %d", row[x], y+1, x+1)
			}
			if c == Agent {
				agents++
				g.agent = Position{X: x, Y: y}
			}
			g.cells[y*width+x] = c
		}
	}

	switch {
	case agents == 0:
		return nil, malformed("no agent (@) on board")
	case agents > 1:
		return nil, malformed("found %d agents, expected exactly one", agents)
	}
	return g, nil
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// AgentPosition returns the cached agent coordinate
func (g *Grid) AgentPosition() Position { return g.agent }

// InBounds reports whether p lies on the grid
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Step returns the neighbour of p in direction d. The second result is
// false when the neighbour would leave the grid.
func (g *Grid) Step(p Position, d Direction) (Position, bool) {
	dx, dy := d.Delta()
	next := Position{X: p.X + dx, Y: p.Y + dy}
	if !g.InBounds(next) {
		return p, false
	}
	return next, true
}

// Get returns the cell at p
func (g *Grid) Get(p Position) (Cell, error) {
	if !g.InBounds(p) {
		return Empty, fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, p, g.width, g.height)
	}
	return g.cells[p.Y*g.width+p.X], nil
}

// Set overwrites the cell at p. Writing Agent moves the cached agent
// position; callers relocating the agent should use MoveAgent so the old
// cell is cleared in the same step.
func (g *Grid) Set(p Position, c Cell) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, p, g.width, g.height)
	}
	g.cells[p.Y*g.width+p.X] = c
	if c == Agent {
		g.agent = p
	}
	return nil
}

// MoveAgent clears the current agent cell and places the agent at to
func (g *Grid) MoveAgent(to Position) error {
	if !g.InBounds(to) {
		return fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, to, g.width, g.height)
	}
	from := g.agent
	g.cells[from.Y*g.width+from.X] = Empty
	g.cells[to.Y*g.width+to.X] = Agent
	g.agent = to
	return nil
}

// Count returns how many cells hold c
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Rows renders the grid as one token string per row
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	buf := make([]byte, g.width)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			buf[x] = g.cells[y*g.width+x].Token()
		}
		rows[y] = string(buf)
	}
	return rows
}

// Render returns the board text, rows joined by newlines
func (g *Grid) Render() string {
	return strings.Join(g.Rows(), "\n")
}

func (g *Grid) String() string {
	return g.Render()
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		width:  g.width,
		height: g.height,
		cells:  cells,
		agent:  g.agent,
	}
}

// Equal reports whether both grids have the same layout and agent position
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.width != other.width || g.height != other.height || g.agent != other.agent {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

type gridJSON struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
	Agent  Position `json:"agent"`
}

// MarshalJSON encodes the grid as rendered rows
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{
		Width:  g.width,
		Height: g.height,
		Rows:   g.Rows(),
		Agent:  g.agent,
	})
}

// UnmarshalJSON re-parses the rendered rows
func (g *Grid) UnmarshalJSON(data []byte) error {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseBoardRows(raw.Rows)
	if err != nil {
		return err
	}
	if raw.Agent != parsed.agent {
		return fmt.Errorf("%w: agent recorded at %s but board has it at %s", ErrMalformedBoard, raw.Agent, parsed.agent)
	}
	*g = *parsed
	return nil
}
