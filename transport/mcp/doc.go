// Package mcp exposes the warehouse simulator as Model Context Protocol tools.
//
// Client wraps an mcp-go server whose tool handlers call the REST API over
// HTTP, so the same tool set works against a local or remote server.
//
// Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board with rulers, robot position, box coordinate sum
//     and the 3x3 window around the robot
//   - move: one direction, optionally resetting first
//   - bulk_move: a list of direction names or runs of ^ v < > characters
//   - play_script: replay the puzzle's recorded move section
//   - reset_game: restore the starting board
//   - move_history: paged history plus the moves since the last reset
//   - list_configs: available puzzles
//   - game_instructions: rules, legend and scoring
//   - describe_cell: what sits at a coordinate
//
// Every simulation tool requires session_id. Create a session first.
//
// Transport:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())      // stdio
//	client.GetMCPServer().HandleMessage(ctx, body) // behind POST /mcp
package mcp
