// Package websocket pushes live board updates to browser clients.
//
// Clients connect with ?session={id}. After every move, bulk run or reset
// the API calls Hub.BroadcastToSession, and each subscriber of that session
// receives:
//
//	{"session_id": "ab12", "event": "state_update", "board": "#####\n#@O.#\n#####", "game_state": {...}}
//
// Bulk runs also emit a "run_summary" event with the counters of the run.
// Clients only listen; anything they send is discarded. A client whose send
// buffer fills up is dropped.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	hub.ServeWS(w, r, sessionID)
package websocket
