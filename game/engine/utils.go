package engine

// BoxCoordinateSum adds 100*row + col over every box on the grid
func BoxCoordinateSum(g *Grid) int {
	sum := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == Box {
				sum += 100*y + x
			}
		}
	}
	return sum
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// SurroundingCell represents a cell with its absolute position
type SurroundingCell struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Type Cell `json:"type"`
}

// LocalView lists the 8 cells around the agent, clockwise from north.
// Positions off the grid read as walls.
func LocalView(g *Grid) []SurroundingCell {
	px, py := g.agent.X, g.agent.Y

	offsets := []struct{ dx, dy int }{
		{0, -1},  // North
		{1, -1},  // North-East
		{1, 0},   // East
		{1, 1},   // South-East
		{0, 1},   // South
		{-1, 1},  // South-West
		{-1, 0},  // West
		{-1, -1}, // North-West
	}

	view := make([]SurroundingCell, len(offsets))
	for i, o := range offsets {
		pos := Position{X: px + o.dx, Y: py + o.dy}
		cell, err := g.Get(pos)
		if err != nil {
			cell = Wall
		}
		view[i] = SurroundingCell{X: pos.X, Y: pos.Y, Type: cell}
	}
	return view
}

// PossibleMoves returns the directions that would not be blocked. The grid
// is not modified.
func PossibleMoves(g *Grid) []string {
	var possible []string
	for _, d := range Directions {
		res, err := Resolve(g.Clone(), d)
		if err == nil && res.Accepted() {
			possible = append(possible, d.String())
		}
	}
	return possible
}
