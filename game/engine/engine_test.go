package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine integration tests",
		Layout: []string{
			"#######",
			"#@O..##",
			"#.....#",
			"#######",
		},
		Moves: ">>>?v<",
	}
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngine(config)
	require.NoError(t, err)
	require.NotNil(t, eng)

	state := eng.GetState()
	assert.Equal(t, Position{X: 1, Y: 1}, eng.GetAgentPosition())
	assert.Equal(t, config.Name, state.ConfigName)
	assert.Equal(t, 102, state.BoxSum)
	assert.Empty(t, state.MoveHistory)
	assert.Zero(t, state.TotalMoves)
	assert.Same(t, config, eng.GetConfig())
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Layout = []string{"###", "#.#", "###"}

	_, err := NewEngine(config)
	assert.ErrorIs(t, err, ErrMalformedBoard)
}

func TestEngine_MoveRecordsHistory(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	res, err := eng.Move(Right)
	require.NoError(t, err)
	assert.Equal(t, Pushed, res.Outcome)
	assert.Equal(t, 1, eng.GetState().Pushes)
	assert.Equal(t, 103, eng.GetState().BoxSum)
	assert.Contains(t, eng.GetState().Message, "chain of length 1")

	last := eng.GetLastMove()
	require.NotNil(t, last)
	assert.Equal(t, "right", last.Action)
	assert.Equal(t, Pushed, last.Outcome)
	assert.Equal(t, 1, last.MoveNumber)
	assert.Equal(t, 1, last.ChainLength)
	assert.Equal(t, Position{X: 1, Y: 1}, last.FromPosition)
	assert.Equal(t, Position{X: 2, Y: 1}, last.ToPosition)
}

func TestEngine_BlockedMoveCounted(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	res, err := eng.Move(Up)
	require.NoError(t, err)
	assert.Equal(t, Blocked, res.Outcome)
	assert.Equal(t, 1, eng.GetState().BlockedMoves)
	assert.Equal(t, 1, eng.GetState().TotalMoves)
	assert.Contains(t, eng.GetState().Message, "blocked by wall")
}

func TestEngine_BulkMoveContinuesPastBlocked(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	// box reaches the wall after two pushes; the third push is blocked
	results, err := eng.BulkMove([]Direction{Right, Right, Right, Down})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, Pushed, results[0].Outcome)
	assert.Equal(t, Pushed, results[1].Outcome)
	assert.Equal(t, Blocked, results[2].Outcome)
	assert.Equal(t, Moved, results[3].Outcome)

	assert.Equal(t, []string{
		"#######",
		"#...O##",
		"#..@..#",
		"#######",
	}, eng.GetState().Grid.Rows())
}

func TestEngine_BulkMoveStopsOnInvariantViolation(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	grid := eng.GetState().Grid
	require.NoError(t, grid.Set(grid.AgentPosition(), Empty))

	results, err := eng.BulkMove([]Direction{Down, Right})
	assert.Empty(t, results)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "move 1 (down)")
}

func TestEngine_PlayScript(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	results, err := eng.PlayScript()
	require.NoError(t, err)
	assert.Len(t, results, 5, "unknown tokens in the script are skipped")
	assert.Equal(t, 5, eng.GetState().TotalMoves)
}

func TestEngine_PlayScriptDefaultPuzzle(t *testing.T) {
	eng, err := NewEngine(DefaultPuzzleConfig())
	require.NoError(t, err)

	_, err = eng.PlayScript()
	require.NoError(t, err)
	assert.Equal(t, 2028, eng.GetState().BoxSum)
}

func TestEngine_Reset(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	_, err = eng.BulkMove([]Direction{Right, Down})
	require.NoError(t, err)

	state := eng.Reset()
	assert.Equal(t, Position{X: 1, Y: 1}, state.AgentPosition())
	assert.Equal(t, createTestConfig().Layout, state.Grid.Rows())
	assert.Equal(t, 2, state.TotalMoves, "cumulative history survives reset")
	assert.Len(t, state.MoveHistory, 2)
	assert.Zero(t, state.CurrentMovesCount)
	assert.Empty(t, state.CurrentMoves)
	assert.Zero(t, state.Pushes)
}

func TestGameState_SnapshotIsIndependent(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)
	_, err = eng.Move(Right)
	require.NoError(t, err)

	snap := eng.GetState().Snapshot()
	board := snap.Grid.Render()
	require.Len(t, snap.MoveHistory, 1)
	require.Len(t, snap.CurrentMoves, 1)

	_, err = eng.BulkMove([]Direction{Down, Left})
	require.NoError(t, err)

	assert.Equal(t, board, snap.Grid.Render(), "grid must not follow the live state")
	assert.Equal(t, Position{X: 2, Y: 1}, snap.AgentPosition())
	assert.Len(t, snap.MoveHistory, 1)
	assert.Len(t, snap.CurrentMoves, 1)
	assert.Equal(t, 1, snap.TotalMoves)

	snap.Grid.Set(Position{X: 5, Y: 2}, Box)
	assert.NotEqual(t, snap.Grid.Render(), eng.GetState().Grid.Render())

	empty, err := InitGameStateFromConfig(createTestConfig())
	require.NoError(t, err)
	cp := empty.Snapshot()
	assert.NotNil(t, cp.MoveHistory)
	assert.NotNil(t, cp.CurrentMoves)
	assert.Nil(t, (*GameState)(nil).Snapshot())
}

func TestEngine_CanMoveDoesNotMutate(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)
	before := eng.GetState().Grid.Clone()

	assert.True(t, eng.CanMove(Right))
	assert.True(t, eng.CanMove(Down))
	assert.False(t, eng.CanMove(Up))
	assert.False(t, eng.CanMove(Left))
	assert.ElementsMatch(t, []string{"down", "right"}, eng.GetPossibleMoves())

	assert.True(t, before.Equal(eng.GetState().Grid))
	assert.Zero(t, eng.GetState().TotalMoves)
}

func TestEngine_SetState(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	assert.Error(t, eng.SetState(nil))
	assert.Error(t, eng.SetState(&GameState{}))

	other, err := InitGameStateFromConfig(DefaultPuzzleConfig())
	require.NoError(t, err)
	require.NoError(t, eng.SetState(other))
	assert.Same(t, other, eng.GetState())
}

func TestEngine_SetConfig(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	require.NoError(t, eng.SetConfig(DefaultPuzzleConfig()))
	assert.Equal(t, "starter", eng.GetState().ConfigName)
	assert.Equal(t, Position{X: 2, Y: 2}, eng.GetAgentPosition())

	assert.Error(t, eng.SetConfig(&PuzzleConfig{Name: "bad"}))
	assert.Equal(t, "starter", eng.GetConfig().Name)
}

func TestEngine_LocalView(t *testing.T) {
	eng, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	view := eng.GetLocalView()
	require.Len(t, view, 8)
	assert.Equal(t, Box, view[2].Type)
}
