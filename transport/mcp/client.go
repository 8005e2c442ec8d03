package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
	"github.com/wricardo/mcp-training/warehouse/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// APIError is a non-2xx answer from the REST API. Body keeps the raw
// payload so callers can recover partial results.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

const serverInstructions = `Warehouse Robot Simulator - MCP Interface

A robot (@) walks a rectangular warehouse grid of walls (#), boxes (O) and
empty floor (.). Moving into a box pushes the whole contiguous row of boxes
ahead of it, as long as the cell past the last box is empty. Walls and the
grid edge stop the robot and everything in front of it.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage simulation sessions
- game_state: current board, counters and box coordinate sum
- move: one step (up/down/left/right or ^ v < >)
- bulk_move: many steps at once, e.g. ["<^^>>>vv", "down"]
- play_script: replay the moves recorded with the puzzle
- reset_game: restore the starting board
- move_history: paginated history of resolved moves
- list_configs: available puzzles
- game_instructions: rules and coordinate conventions
- describe_cell: what occupies a given (x, y)

The 'intent' parameter on move tools is for you: state what you expect the
move to do before making it.`

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Warehouse Robot Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(serverInstructions),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func resetProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Reset the board before moving",
	}
}

func intentProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "What you expect this move to do",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session, optionally on a named puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Puzzle to load (see list_configs); the default puzzle when omitted",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Simulation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and counters",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the robot one step, pushing any boxes in the way",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "^", "v", "<", ">"},
					"description": "Direction to move",
				},
				"intent": intentProperty(),
				"reset":  resetProperty(),
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Run a sequence of moves. Each entry is a direction name or a run of ^ v < > characters; other characters are ignored.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": fmt.Sprintf("Moves to run, at most %d per call", engine.MaxBulkMoves),
				},
				"intent": intentProperty(),
				"reset":  resetProperty(),
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_script",
		Description: "Replay the move section recorded with the session's puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"reset":      resetProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handlePlayScript)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restore the starting board of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the paginated move history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (1-based)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Moves per page (max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Rules of the simulator and coordinate conventions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the content of one grid cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Column, 0 at the left edge",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Row, 0 at the top edge",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Body: data}
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Message = errResp.Error
		}
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call failed")
		return apiErr
	}

	if result != nil {
		return json.Unmarshal(data, result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPuzzle: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Puzzle: %s, Last used: %s)\n",
			s.ID, s.ConfigName, s.LastAccessedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	body := map[string]interface{}{
		"direction": stringArg(args, "direction"),
		"reset":     boolArg(args, "reset"),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	var moves []string
	switch raw := args["moves"].(type) {
	case []interface{}:
		for _, m := range raw {
			if move, ok := m.(string); ok {
				moves = append(moves, move)
			}
		}
	case []string:
		moves = raw
	case string:
		moves = []string{raw}
	}
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must contain at least one entry"), nil
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": boolArg(args, "reset"),
	}

	return c.runResult(ctx, sessionID, sessionPath(sessionID, "/bulk-move"), body)
}

func (c *Client) handlePlayScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	body := map[string]interface{}{"reset": boolArg(args, "reset")}
	return c.runResult(ctx, sessionID, sessionPath(sessionID, "/play"), body)
}

// runResult posts a bulk run and formats the outcome, including the partial
// result of a run that stopped on an error
func (c *Client) runResult(ctx context.Context, sessionID, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.BulkMoveResult
	err := c.apiCall(ctx, "POST", path, body, &result)
	if err == nil {
		return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
	}

	if apiErr, ok := err.(*APIError); ok {
		var stopped struct {
			Result *service.BulkMoveResult `json:"result"`
		}
		if json.Unmarshal(apiErr.Body, &stopped) == nil && stopped.Result != nil {
			text := fmt.Sprintf("ERROR: %s\n\n%s", apiErr.Message, formatBulkMoveResult(sessionID, stopped.Result))
			return mcp.NewToolResultError(text), nil
		}
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// the live segment is best effort
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Puzzles:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Boxes: %d, Recorded moves: %d\n\n",
			cfg.ConfigID, cfg.Name, cfg.Description, cfg.Width, cfg.Height, cfg.Boxes, cfg.ScriptMoves)
	}

	return mcp.NewToolResultText(b.String()), nil
}

const gameInstructions = `Warehouse Robot Simulator - Instructions

GRID LEGEND:
  #  wall, never moves
  O  box
  @  the robot (exactly one)
  .  empty floor

COORDINATES:
  x is the column, 0 at the left edge; y is the row, 0 at the top edge.
  "up" decreases y, "down" increases y.

MOVEMENT RULES:
  • Into empty floor: the robot steps there.
  • Into a wall or off the grid: nothing happens (blocked).
  • Into a box: look along the direction past every consecutive box.
      - first non-box cell is empty: the whole chain shifts one cell and the robot follows.
      - first non-box cell is a wall, or the chain reaches the edge: nothing moves.
  • A blocked move is not an error. The board is unchanged and the move is counted.

MOVE COMMANDS:
  up / down / left / right, or the characters ^ v < >.
  bulk_move accepts strings like "<^^>>>vv<v>>v<<"; characters other than
  ^ v < > are ignored, so multi-line scripts can be pasted as-is.

SCORING:
  The box coordinate sum adds 100 * y + x for every box on the board.

TIPS:
  • Read the board row by row; the robot's (x, y) is shown in every state.
  • Use describe_cell when unsure what is next to the robot.
  • Pushes are irreversible in corners: a box pushed against two walls stays there.`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required numbers"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if state.Grid == nil {
		return mcp.NewToolResultError("session has no board"), nil
	}

	return mcp.NewToolResultText(describeCell(state.Grid, engine.Position{X: x, Y: y})), nil
}
