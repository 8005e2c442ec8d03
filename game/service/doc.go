// Package service provides the business logic layer for the Warehouse Robot Simulator.
//
// The service package implements:
//   - Multi-session management
//   - Single moves, bulk moves and replaying a puzzle's own move script
//   - Move history pagination
//   - Puzzle configuration listing, loading and saving
//
// Core Interfaces:
//
// GameService is the high-level interface used by the HTTP, WebSocket and MCP
// transports. SessionManager and ConfigManager are implemented by the session
// and config packages.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := svc.CreateSession(ctx, "starter")
//	res, err := svc.Move(ctx, info.ID, "left", false)
//	run, err := svc.BulkMove(ctx, info.ID, []string{"<^^>", "down"}, false)
//
// Errors:
//
// Unknown directions on Move wrap engine.ErrInvalidDirection. A corrupted
// board surfaces as engine.ErrInvariantViolation and stops a bulk run; the
// partial BulkMoveResult is returned alongside the error. Lookups of missing
// sessions and puzzles wrap ErrSessionNotFound and ErrConfigNotFound.
package service
