// Package service implements the vector store operations exposed over HTTP:
// Health, Upsert and Count. It owns the storage handle through a Backend
// whose mode is fixed when the process starts. A degraded backend answers
// reads with zero and rejects writes with ErrUnavailable.
package service
