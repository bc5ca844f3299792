// Package history persists a SQLite ledger of optimization runs so users
// can review which strategy handled each file and how much it saved.
package history
