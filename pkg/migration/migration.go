package migration

import "context"

// Runner applies a migration chain forward (Up) or rolls it back (Down).
type Runner interface {
	Up() error
	Down() error
}

// Migrate is one revision in the schema history.
type Migrate interface {
	// ID return unique identifier for each migration. The prefix must be number.
	ID(ctx context.Context) string

	// SequenceNumber orders the revision inside the chain. It must be unique
	// and strictly greater than the predecessor's number.
	SequenceNumber(ctx context.Context) int

	// Up return sql migration for sync database.
	Up(ctx context.Context) (sql string, err error)

	// Down return sql migration for rollback database.
	Down(ctx context.Context) (sql string, err error)
}
