// Package vector defines the fixed-dimension vector record and the
// SQLite-backed store used by this project. It includes:
//   - Record model and Store interface
//   - SQLiteStore: append-only durable storage with row counting
//   - Schema helpers to create the vec10k table
//   - Embedding encoding (BLOB)
//   - StorageError: transient/fatal classification of store failures
package vector
