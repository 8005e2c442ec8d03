// Package api provides the HTTP REST surface of the warehouse simulator.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions               create a session ({"config_id": "starter"}, empty body for default)
//   - GET    /api/sessions               list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified       sessions side by side (?sessionIds=a,b or ?configName=x)
//   - GET    /api/sessions/{id}          session details
//   - DELETE /api/sessions/{id}          delete a session
//
// Simulation:
//   - GET  /api/sessions/{id}/state      full state as JSON
//   - GET  /api/sessions/{id}/board      rendered board as text/plain
//   - GET  /api/sessions/{id}/view       cells around the agent and possible moves
//   - POST /api/sessions/{id}/move       {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move  {"moves": ["<^^>", "down"], "reset": false}
//   - POST /api/sessions/{id}/play       replay the puzzle's recorded moves
//   - POST /api/sessions/{id}/reset      restore the starting board
//   - GET  /api/sessions/{id}/history    ?page=1&limit=20&order=desc
//
// Puzzles:
//   - GET  /api/configs                  list puzzles
//   - GET  /api/configs/{name}           puzzle layout and moves
//   - POST /api/configs                  save a puzzle
//
// Other:
//   - GET /health
//   - GET /ws?session={id}               live board updates
//
// Errors are JSON objects with an "error" field. Unknown sessions and
// puzzles map to 404, bad directions, bodies and layouts to 400, and a
// corrupted board to 500. A bulk run that stops early answers with both
// the error and the partial result:
//
//	{"error": "move 3 (up): invariant violation: ...", "result": {...}}
package api
