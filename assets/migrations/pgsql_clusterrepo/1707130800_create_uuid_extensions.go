package pgsql_clusterrepo

import (
	"context"
	"fmt"
)

// CreateUuidExtensions1707130800 is struct to define a migration with ID 1707130800_create_uuid_extensions
type CreateUuidExtensions1707130800 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateUuidExtensions1707130800) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1707130800, "create_uuid_extensions")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateUuidExtensions1707130800) SequenceNumber(ctx context.Context) int {
	return 1707130800
}

// Up return sql migration for sync database
func (m CreateUuidExtensions1707130800) Up(ctx context.Context) (sql string, err error) {
	sql = `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`
	return
}

// Down return sql migration for rollback database
func (m CreateUuidExtensions1707130800) Down(ctx context.Context) (sql string, err error) {
	return
}
