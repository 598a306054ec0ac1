package vector

import (
	"context"
)

// Dimension is the only vector length accepted by the store.
const Dimension = 10000

// TableName is the table holding vector records.
const TableName = "vec10k"

// Record represents a single row of the vec10k table.
type Record struct {
	// ID is the caller supplied identifier. It is not unique; appending the
	// same ID twice yields two rows.
	ID string

	// Vector holds exactly Dimension float32 values.
	Vector []float32

	// Meta is the serialized metadata payload. The store never parses it.
	Meta string

	// Timestamp is the UTC capture time in ISO-8601 form.
	Timestamp string
}

// Store defines the persistence operations the service relies on.
type Store interface {
	// Append adds records to the table. Either all records are stored or none.
	Append(ctx context.Context, records ...Record) error

	// Count returns the number of rows in the table.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
