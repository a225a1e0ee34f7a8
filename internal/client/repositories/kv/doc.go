// Package kv provides the persisted key/value stores behind the console's
// session and chat roster.
//
// # Overview
//
// Store is the whole contract: Get, Set, SetMany and Delete over string
// values. Four implementations are available:
//
//   - SQLiteStore: default; a single kv table migrated with goose.
//   - FileStore: one JSON object in a file, the closest analog of browser
//     local storage; other processes can watch the file (see events.FileWatcher).
//   - RedisStore: keys under a prefix in Redis, shared by several consoles.
//   - MemoryStore: process-local, used by tests and the "memory" backend.
//
// # Concurrency
//
// All implementations are safe for concurrent use inside one process.
// Across processes the last writer wins; there is no version check.
package kv
