package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new simulation service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config id for a display name, for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Snapshot(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new session on the named puzzle, or the default one
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.PuzzleConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Str("session", session.ID).Str("config", config.Name).Msg("session started")
	return s.sessionInfo(session, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(session, ""), nil
}

// ListSessions returns all sessions held in memory
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move resolves a single direction for a session. Unknown directions are
// rejected before the board is touched.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrInvalidDirection, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	res, err := sess.Engine.Move(dir)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Str("direction", dir.String()).Msg("move failed")
		return nil, err
	}

	state := sess.Engine.GetState().Snapshot()
	step := stepInfo(1, res)
	result := &MoveResult{
		Success:   res.Accepted(),
		GameState: state,
		Message:   state.Message,
		Events:    append(events, moveEvent(res, state.Message)),
		Step:      &step,
	}

	s.persist(sessionID, "move")
	return result, nil
}

// BulkMove applies a sequence of moves. Each entry is a direction name or a
// run of move characters; entries that yield no direction are skipped.
// Blocked moves never stop the run.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	dirs, skipped := ParseMoveList(moves)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, sess, dirs, reset)
	if result != nil {
		result.SkippedTokens = skipped
	}
	s.persist(sessionID, "bulk move")
	return result, err
}

// PlayScript replays the puzzle's own move section
func (s *gameServiceImpl) PlayScript(ctx context.Context, sessionID string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, sess, engine.ParseMoves(sess.Config.Moves), reset)
	s.persist(sessionID, "script")
	return result, err
}

// run executes dirs against the session board, recording a compact trace.
// It stops early on an invariant violation or context cancellation and
// returns the partial result together with the error.
func (s *gameServiceImpl) run(ctx context.Context, sess *Session, dirs []engine.Direction, reset bool) (*BulkMoveResult, error) {
	result := &BulkMoveResult{
		RequestedMoves: len(dirs),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetState()
	result.StartPos = start.AgentPosition()
	result.StartBoxSum = start.BoxSum

	if len(dirs) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		dirs = dirs[:engine.MaxBulkMoves]
	}

	var runErr error
	for i, d := range dirs {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.StoppedReason = "cancelled"
			result.StoppedOnMove = i + 1
			runErr = err
			break
		}

		res, err := sess.Engine.Move(d)
		if err != nil {
			result.Success = false
			result.StoppedReason = "invariant_violation"
			result.StoppedOnMove = i + 1
			runErr = fmt.Errorf("move %d (%s): %w", i+1, d, err)
			log.Error().Err(err).Str("session", sess.ID).Int("move", i+1).Msg("run stopped")
			break
		}

		result.MovesExecuted++
		switch res.Outcome {
		case engine.Pushed:
			result.Accepted++
			result.Pushes++
		case engine.Moved:
			result.Accepted++
		default:
			result.Blocked++
		}
		result.Steps = append(result.Steps, stepInfo(i+1, res))
		result.Events = append(result.Events, moveEvent(res, sess.Engine.GetState().Message))
	}

	end := sess.Engine.GetState().Snapshot()
	result.GameState = end
	result.EndPos = end.AgentPosition()
	result.EndBoxSum = end.BoxSum
	result.Message = fmt.Sprintf("Executed %d of %d moves: %d accepted, %d blocked, %d pushes. Box coordinate sum %d",
		result.MovesExecuted, result.RequestedMoves, result.Accepted, result.Blocked, result.Pushes, end.BoxSum)
	if runErr == nil {
		result.PossibleMoves = sess.Engine.GetPossibleMoves()
	}

	return result, runErr
}

// Reset restores a session's starting board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset().Snapshot()
	s.persist(sessionID, "reset")
	return state, nil
}

// GetGameState returns a snapshot of the current state. The snapshot is
// taken under the service lock and never changes afterwards.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available puzzle configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a puzzle configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// getSession fetches a session and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msgf("failed to persist session after %s", after)
	}
}

// ParseMoveList turns API move entries into directions. An entry is either
// a direction name ("up", "left") or a run of move characters ("<^^>").
// It returns the directions and the number of entries that yielded none.
func ParseMoveList(moves []string) ([]engine.Direction, int) {
	dirs := make([]engine.Direction, 0, len(moves))
	skipped := 0
	for _, m := range moves {
		if d, ok := engine.ParseDirection(m); ok {
			dirs = append(dirs, d)
			continue
		}
		run := engine.ParseMoves(m)
		if len(run) == 0 {
			skipped++
			continue
		}
		dirs = append(dirs, run...)
	}
	return dirs, skipped
}

func stepInfo(idx int, res engine.MoveResult) StepInfo {
	step := StepInfo{
		Idx:         idx,
		Dir:         res.Direction.String(),
		From:        res.From,
		To:          res.To,
		Outcome:     res.Outcome.String(),
		Annotation:  res.Annotation(),
		ChainLength: res.ChainLength,
	}
	if res.Outcome == engine.Blocked {
		if res.OutOfBounds {
			step.BlockedBy = "edge"
		} else {
			step.BlockedBy = res.BlockedBy.String()
		}
	}
	return step
}

func moveEvent(res engine.MoveResult, message string) GameEvent {
	eventType := "move"
	switch res.Outcome {
	case engine.Pushed:
		eventType = "push"
	case engine.Blocked:
		eventType = "blocked"
	}
	return GameEvent{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
		Position:  res.To,
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Board reset to initial layout",
		Timestamp: time.Now(),
	}
}
