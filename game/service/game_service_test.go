package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
	"github.com/wricardo/mcp-training/warehouse/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.PuzzleConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.PuzzleConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.PuzzleConfig
}

func testPuzzle() *engine.PuzzleConfig {
	return &engine.PuzzleConfig{
		Name:        "test",
		Description: "Test configuration",
		Layout: []string{
			"#######",
			"#@O..##",
			"#.....#",
			"#######",
		},
		Moves: ">>>v<",
	}
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.PuzzleConfig{
			"test":    testPuzzle(),
			"starter": engine.DefaultPuzzleConfig(),
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	if config, exists := m.configs[name]; exists {
		return config, nil
	}
	return nil, service.ErrConfigNotFound
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	for id, config := range m.configs {
		configs = append(configs, &service.ConfigInfo{
			Filename: id + ".json",
			ConfigID: id,
			Name:     config.Name,
		})
	}
	return configs, nil
}

func (m *MockConfigManager) GetDefault() *engine.PuzzleConfig {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	if err := engine.ValidatePuzzleConfig(config); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidConfig, err)
	}
	m.configs[name] = config
	return nil
}

func newTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID")
		}
		if info.ConfigName != "test" {
			t.Errorf("Expected config id 'test', got %q", info.ConfigName)
		}
		if info.GameState == nil || info.GameState.BoxSum != 102 {
			t.Errorf("Expected initial state with box sum 102, got %+v", info.GameState)
		}
	})

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "starter")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.GameConfig.Name != "starter" {
			t.Errorf("Expected starter puzzle, got %q", info.GameConfig.Name)
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "missing")
		if !errors.Is(err, service.ErrConfigNotFound) {
			t.Fatalf("Expected ErrConfigNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected available configs in error, got %v", err)
		}
	})
}

func TestGameService_Move(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	t.Run("push", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "right", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if !result.Success {
			t.Error("Expected push to succeed")
		}
		if result.Step == nil || result.Step.Outcome != "pushed" || result.Step.ChainLength != 1 {
			t.Errorf("Unexpected step %+v", result.Step)
		}
		if result.Step.Annotation != "chain of length 1" {
			t.Errorf("Unexpected annotation %q", result.Step.Annotation)
		}
		if len(result.Events) != 1 || result.Events[0].Type != "push" {
			t.Errorf("Expected a push event, got %+v", result.Events)
		}
		if result.GameState.BoxSum != 103 {
			t.Errorf("Expected box sum 103, got %d", result.GameState.BoxSum)
		}
	})

	t.Run("token direction", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "v", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Step.Outcome != "moved" {
			t.Errorf("Expected moved, got %s", result.Step.Outcome)
		}
	})

	t.Run("blocked", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "down", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Success {
			t.Error("Expected wall to block the move")
		}
		if result.Step.BlockedBy != "wall" {
			t.Errorf("Expected blocked by wall, got %q", result.Step.BlockedBy)
		}
		if result.Events[0].Type != "blocked" {
			t.Errorf("Expected blocked event, got %s", result.Events[0].Type)
		}
	})

	t.Run("reset before move", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "down", true)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Events[0].Type != "reset" {
			t.Errorf("Expected reset event first, got %+v", result.Events)
		}
		if result.GameState.AgentPosition() != (engine.Position{X: 1, Y: 2}) {
			t.Errorf("Expected agent at (1,2), got %s", result.GameState.AgentPosition())
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		before := sessions.sessions[info.ID].Engine.GetState().TotalMoves
		_, err := svc.Move(ctx, info.ID, "diagonal", false)
		if !errors.Is(err, engine.ErrInvalidDirection) {
			t.Errorf("Expected ErrInvalidDirection, got %v", err)
		}
		if sessions.sessions[info.ID].Engine.GetState().TotalMoves != before {
			t.Error("Invalid direction must not record a move")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Move(ctx, "nope", "up", false)
		if !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("corrupted board", func(t *testing.T) {
		grid := sessions.sessions[info.ID].Engine.GetState().Grid
		grid.Set(grid.AgentPosition(), engine.Empty)

		_, err := svc.Move(ctx, info.ID, "up", false)
		if !errors.Is(err, engine.ErrInvariantViolation) {
			t.Errorf("Expected ErrInvariantViolation, got %v", err)
		}
	})

	if sessions.saves == 0 {
		t.Error("Expected sessions to be saved after moves")
	}
}

func TestGameService_BulkMove(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	t.Run("blocked moves do not stop the run", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "")
		result, err := svc.BulkMove(ctx, info.ID, []string{"right", ">", "right", "down"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Success {
			t.Error("Expected success")
		}
		if result.MovesExecuted != 4 || result.Accepted != 3 || result.Blocked != 1 || result.Pushes != 2 {
			t.Errorf("Unexpected counters: executed=%d accepted=%d blocked=%d pushes=%d",
				result.MovesExecuted, result.Accepted, result.Blocked, result.Pushes)
		}
		if len(result.Steps) != 4 || result.Steps[2].Outcome != "blocked" {
			t.Errorf("Unexpected steps %+v", result.Steps)
		}
		if result.StartBoxSum != 102 || result.EndBoxSum != 104 {
			t.Errorf("Expected box sum 102 -> 104, got %d -> %d", result.StartBoxSum, result.EndBoxSum)
		}
		if result.StartPos != (engine.Position{X: 1, Y: 1}) || result.EndPos != (engine.Position{X: 3, Y: 2}) {
			t.Errorf("Unexpected positions %s -> %s", result.StartPos, result.EndPos)
		}
		if len(result.PossibleMoves) == 0 {
			t.Error("Expected possible moves after run")
		}
	})

	t.Run("move strings and unknown tokens", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "")
		result, err := svc.BulkMove(ctx, info.ID, []string{">>", "?", "jump", "v<"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.RequestedMoves != 4 {
			t.Errorf("Expected 4 parsed moves, got %d", result.RequestedMoves)
		}
		if result.SkippedTokens != 2 {
			t.Errorf("Expected 2 skipped entries, got %d", result.SkippedTokens)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "")
		moves := make([]string, engine.MaxBulkMoves+5)
		for i := range moves {
			moves[i] = "left"
		}
		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkMoves {
			t.Error("Expected truncation at the bulk move limit")
		}
		if result.MovesExecuted != engine.MaxBulkMoves {
			t.Errorf("Expected %d executed moves, got %d", engine.MaxBulkMoves, result.MovesExecuted)
		}
	})

	t.Run("invariant violation stops the run", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "")
		grid := sessions.sessions[info.ID].Engine.GetState().Grid
		grid.Set(grid.AgentPosition(), engine.Empty)

		result, err := svc.BulkMove(ctx, info.ID, []string{"down", "right"}, false)
		if !errors.Is(err, engine.ErrInvariantViolation) {
			t.Fatalf("Expected ErrInvariantViolation, got %v", err)
		}
		if result == nil || result.Success || result.StoppedReason != "invariant_violation" || result.StoppedOnMove != 1 {
			t.Errorf("Unexpected partial result %+v", result)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		info, _ := svc.CreateSession(ctx, "")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := svc.BulkMove(cctx, info.ID, []string{"down"}, false)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
		if result.MovesExecuted != 0 {
			t.Errorf("Expected no moves executed, got %d", result.MovesExecuted)
		}
	})
}

func TestGameService_PlayScript(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "starter")
	result, err := svc.PlayScript(ctx, info.ID, false)
	if err != nil {
		t.Fatalf("PlayScript failed: %v", err)
	}
	if result.MovesExecuted != 15 {
		t.Errorf("Expected 15 moves, got %d", result.MovesExecuted)
	}
	if result.EndBoxSum != 2028 {
		t.Errorf("Expected box coordinate sum 2028, got %d", result.EndBoxSum)
	}

	// replaying with reset reaches the same layout
	again, err := svc.PlayScript(ctx, info.ID, true)
	if err != nil {
		t.Fatalf("PlayScript with reset failed: %v", err)
	}
	if again.EndBoxSum != 2028 {
		t.Errorf("Expected 2028 after reset and replay, got %d", again.EndBoxSum)
	}
	if again.Events[0].Type != "reset" {
		t.Error("Expected reset event first")
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	svc.BulkMove(ctx, info.ID, []string{"down", "right", "right", "up", "left"}, false)

	t.Run("defaults to newest first", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("GetMoveHistory failed: %v", err)
		}
		if history.TotalMoves != 5 || len(history.Moves) != 5 {
			t.Fatalf("Expected 5 moves, got %d/%d", history.TotalMoves, len(history.Moves))
		}
		if history.Moves[0].MoveNumber != 5 || history.Moves[0].Action != "left" {
			t.Errorf("Expected most recent first, got %+v", history.Moves[0])
		}
	})

	t.Run("ascending pages", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 2, Order: "asc"})
		if err != nil {
			t.Fatalf("GetMoveHistory failed: %v", err)
		}
		if len(history.Moves) != 2 || history.Moves[0].MoveNumber != 3 {
			t.Errorf("Unexpected page %+v", history.Moves)
		}
		if history.TotalPages != 3 || !history.HasNext || !history.HasPrevious {
			t.Errorf("Unexpected pagination %+v", history)
		}
	})

	t.Run("descending pages", func(t *testing.T) {
		history, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 3, Limit: 2, Order: "desc"})
		if len(history.Moves) != 1 || history.Moves[0].MoveNumber != 1 {
			t.Errorf("Expected the first move on the last page, got %+v", history.Moves)
		}
		if history.HasNext {
			t.Error("Last page should not have a next page")
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		history, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 9, Limit: 2})
		if history.Moves == nil || len(history.Moves) != 0 {
			t.Errorf("Expected empty page, got %+v", history.Moves)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.GetMoveHistory(ctx, "nope", service.HistoryOptions{})
		if !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestGameService_ListSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.CreateSession(ctx, "")
	svc.CreateSession(ctx, "starter")

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}
}

func TestGameService_DeleteSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_Reset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	svc.BulkMove(ctx, info.ID, []string{"right", "down"}, false)

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.AgentPosition() != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("Expected agent back at start, got %s", state.AgentPosition())
	}
	if state.BoxSum != 102 {
		t.Errorf("Expected box sum 102, got %d", state.BoxSum)
	}
	if state.TotalMoves != 2 {
		t.Errorf("Expected cumulative history to survive reset, got %d", state.TotalMoves)
	}
}

func TestGameService_Configs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(configs), err)
	}

	puzzle := testPuzzle()
	puzzle.Name = "saved"
	if err := svc.SaveConfig(ctx, "saved", puzzle); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "saved")
	if err != nil || loaded.Name != "saved" {
		t.Errorf("Expected saved config back, got %v (%v)", loaded, err)
	}

	bad := testPuzzle()
	bad.Layout = []string{"###", "#.#", "###"}
	if err := svc.SaveConfig(ctx, "bad", bad); !errors.Is(err, service.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseMoveList(t *testing.T) {
	dirs, skipped := service.ParseMoveList([]string{"up", "DOWN", "<>", "x", "", "^?v"})
	want := []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right, engine.Up, engine.Down}
	if len(dirs) != len(want) {
		t.Fatalf("Expected %d directions, got %v", len(want), dirs)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("Direction %d: expected %s, got %s", i, want[i], dirs[i])
		}
	}
	if skipped != 2 {
		t.Errorf("Expected 2 skipped entries, got %d", skipped)
	}
}

func TestGameService_ConcurrentMovesAndStateReads(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	const rounds = 200
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			dir := "right"
			if i%2 == 1 {
				dir = "left"
			}
			if _, err := svc.Move(ctx, info.ID, dir, false); err != nil {
				errs <- fmt.Errorf("move %d: %w", i, err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			state, err := svc.GetGameState(ctx, info.ID)
			if err != nil {
				errs <- fmt.Errorf("read %d: %w", i, err)
				continue
			}
			board := state.Grid.Render()
			if n := strings.Count(board, "@"); n != 1 {
				errs <- fmt.Errorf("read %d: expected one robot, got %d in\n%s", i, n, board)
			}
			if n := strings.Count(board, "O"); n != 1 {
				errs <- fmt.Errorf("read %d: expected one box, got %d in\n%s", i, n, board)
			}
			if len(state.MoveHistory) != state.TotalMoves {
				errs <- fmt.Errorf("read %d: history length %d, total moves %d", i, len(state.MoveHistory), state.TotalMoves)
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	final, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if final.TotalMoves != rounds {
		t.Errorf("Expected %d moves, got %d", rounds, final.TotalMoves)
	}
}

func TestGameService_ReturnedStateIsSnapshot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	before, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	moved, err := svc.Move(ctx, info.ID, "down", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	bulk, err := svc.BulkMove(ctx, info.ID, []string{">>"}, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	reset, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := svc.Move(ctx, info.ID, "right", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	checks := []struct {
		name  string
		state *engine.GameState
		robot engine.Position
		total int
	}{
		{"initial", before, engine.Position{X: 1, Y: 1}, 0},
		{"move", moved.GameState, engine.Position{X: 1, Y: 2}, 1},
		{"bulk move", bulk.GameState, engine.Position{X: 3, Y: 2}, 3},
		{"reset", reset, engine.Position{X: 1, Y: 1}, 3},
	}
	for _, c := range checks {
		if got := c.state.AgentPosition(); got != c.robot {
			t.Errorf("%s: expected robot at %s, got %s", c.name, c.robot, got)
		}
		if c.state.TotalMoves != c.total || len(c.state.MoveHistory) != c.total {
			t.Errorf("%s: expected %d moves, got %d (history %d)", c.name, c.total, c.state.TotalMoves, len(c.state.MoveHistory))
		}
	}
	if strings.Count(reset.Grid.Render(), "@") != 1 || len(reset.CurrentMoves) != 0 {
		t.Errorf("Reset snapshot changed after later move:\n%s", reset.Grid.Render())
	}
}
