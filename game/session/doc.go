// Package session keeps simulation sessions: one engine and board per
// session, addressed by a short case-insensitive ID.
//
// Manager holds sessions in memory behind a RWMutex. Generated IDs are four
// lowercase alphanumeric characters from go-nanoid; callers may also pick
// their own ID (letters, digits, '-' and '_').
//
// With a SessionPersistence attached, sessions are written on create and on
// every access update, and sessions missing from memory are loaded on demand.
// FilePersistence stores one JSON file per session holding the puzzle, the
// board rows and the move history.
//
//	persistence, _ := session.NewFilePersistence("sessions", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//	_ = manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", puzzle)
//
// CleanupExpiredSessions evicts idle sessions from memory only; their files
// remain and reload on the next Get.
package session
