package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
	"github.com/wricardo/mcp-training/warehouse/game/service"
)

func formatSessionInfo(session *service.SessionInfo) string {
	header := fmt.Sprintf("Session: %s\nPuzzle: %s\nCreated: %s\n\n",
		session.ID, session.ConfigName, session.CreatedAt.Format("2006-01-02 15:04:05"))
	return header + formatGameState(session.GameState)
}

// formatBoard renders the grid with column and row rulers so coordinates can
// be read off directly
func formatBoard(g *engine.Grid) string {
	if g == nil {
		return "(no board)\n"
	}

	var b strings.Builder
	b.WriteString("    ")
	for x := 0; x < g.Width(); x++ {
		b.WriteByte(byte('0' + x%10))
	}
	b.WriteByte('\n')
	for y, row := range g.Rows() {
		fmt.Fprintf(&b, "%3d %s\n", y, row)
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "(no state)\n"
	}

	var b strings.Builder
	b.WriteString(formatBoard(state.Grid))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Robot: %s\n", state.AgentPosition())
	if state.Grid != nil {
		fmt.Fprintf(&b, "Boxes: %d\n", state.Grid.Count(engine.Box))
	}
	fmt.Fprintf(&b, "Box coordinate sum: %d\n", state.BoxSum)
	fmt.Fprintf(&b, "Moves: %d (pushes %d, blocked %d)\n", state.TotalMoves, state.Pushes, state.BlockedMoves)
	if state.Grid != nil {
		fmt.Fprintf(&b, "Possible moves: %s\n", formatMoveList(engine.PossibleMoves(state.Grid)))
		b.WriteString("Around the robot:\n")
		b.WriteString(formatLocal3x3(state.Grid))
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	return b.String()
}

func formatMoveList(moves []string) string {
	if len(moves) == 0 {
		return "none"
	}
	return strings.Join(moves, ", ")
}

// formatLocal3x3 renders the 3x3 window centered on the robot; cells off
// the grid show as walls
func formatLocal3x3(g *engine.Grid) string {
	agent := g.AgentPosition()
	var b strings.Builder
	for dy := -1; dy <= 1; dy++ {
		b.WriteString("  ")
		for dx := -1; dx <= 1; dx++ {
			cell, err := g.Get(engine.Position{X: agent.X + dx, Y: agent.Y + dy})
			if err != nil {
				cell = engine.Wall
			}
			b.WriteByte(cell.Token())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatStep(step *service.StepInfo) string {
	line := fmt.Sprintf("%d. %s %s -> %s: %s", step.Idx, step.Dir, step.From, step.To, step.Annotation)
	if step.BlockedBy != "" {
		line += fmt.Sprintf(" (by %s)", step.BlockedBy)
	}
	return line
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Step != nil {
		b.WriteString(formatStep(result.Step))
		b.WriteByte('\n')
	}
	if result.Message != "" {
		b.WriteString(result.Message)
		b.WriteByte('\n')
	}
	for _, ev := range result.Events {
		if ev.Type == "reset" {
			b.WriteString("(board was reset first)\n")
		}
	}
	b.WriteByte('\n')
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

const maxListedSteps = 40

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d of %d moves\n", sessionID, result.MovesExecuted, result.RequestedMoves)
	fmt.Fprintf(&b, "Accepted %d, blocked %d, pushes %d\n", result.Accepted, result.Blocked, result.Pushes)
	if result.SkippedTokens > 0 {
		fmt.Fprintf(&b, "Ignored %d unrecognized entries\n", result.SkippedTokens)
	}
	if result.Truncated {
		fmt.Fprintf(&b, "Input truncated to %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "STOPPED on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Robot: %s -> %s\n", result.StartPos, result.EndPos)
	fmt.Fprintf(&b, "Box coordinate sum: %d -> %d\n", result.StartBoxSum, result.EndBoxSum)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		steps := result.Steps
		if len(steps) > maxListedSteps {
			fmt.Fprintf(&b, "(showing last %d of %d)\n", maxListedSteps, len(steps))
			steps = steps[len(steps)-maxListedSteps:]
		}
		for i := range steps {
			b.WriteString(formatStep(&steps[i]))
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistoryEntry(num int, move engine.MoveHistoryEntry) string {
	line := fmt.Sprintf("%d. %s %s -> %s %s", num, move.Action, move.FromPosition, move.ToPosition, move.Outcome)
	if move.ChainLength > 0 {
		line += fmt.Sprintf(" (%d boxes)", move.ChainLength)
	}
	return line + "\n"
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), total moves: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		b.WriteString(formatHistoryEntry(move.MoveNumber, move))
	}
	if len(history.Moves) == 0 {
		b.WriteString("(no moves)\n")
	}
	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Since last reset: unavailable"
	}
	header := fmt.Sprintf("Since last reset: %d moves\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves since last reset)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryEntry(i+1, move))
	}
	return b.String()
}

// describeCell explains what sits at p and what pushing into it would do
func describeCell(g *engine.Grid, p engine.Position) string {
	cell, err := g.Get(p)
	if err != nil {
		return fmt.Sprintf("%s is outside the %dx%d grid (x 0-%d, y 0-%d). Moving there is blocked.",
			p, g.Width(), g.Height(), g.Width()-1, g.Height()-1)
	}

	var desc string
	switch cell {
	case engine.Wall:
		desc = "wall, stops the robot and any boxes pushed toward it"
	case engine.Box:
		desc = "box, can be pushed if the cell past its chain is empty"
	case engine.Agent:
		desc = "the robot"
	default:
		desc = "empty floor"
	}

	agent := g.AgentPosition()
	dist := engine.ManhattanDistance(agent, p)
	return fmt.Sprintf("Cell %s: '%c' %s\nRobot at %s, distance %d", p, cell.Token(), desc, agent, dist)
}
