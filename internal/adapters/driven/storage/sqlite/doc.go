// Package sqlite provides a SQLite-based implementation of the contract store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It persists contract metadata, risk
// reports and chat history through a single database connection.
//
// Vector indices are deliberately NOT persisted here: they live in memory and
// are rebuilt from the stored contract text after restart.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory as .up.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.contralens/data/contralens.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
