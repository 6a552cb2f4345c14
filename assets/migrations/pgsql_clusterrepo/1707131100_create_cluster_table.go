package pgsql_clusterrepo

import (
	"context"
	"fmt"
)

// CreateClusterTable1707131100 is struct to define a migration with ID 1707131100_create_cluster_table
type CreateClusterTable1707131100 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateClusterTable1707131100) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1707131100, "create_cluster_table")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateClusterTable1707131100) SequenceNumber(ctx context.Context) int {
	return 1707131100
}

// Up return sql migration for sync database
func (m CreateClusterTable1707131100) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS cluster (
	name VARCHAR NOT NULL PRIMARY KEY,
	client_id VARCHAR NOT NULL,
	description VARCHAR NOT NULL DEFAULT '',
	owner_email VARCHAR NOT NULL,
	status VARCHAR NOT NULL,
	provider VARCHAR NOT NULL,
	creation_parameters JSONB NOT NULL DEFAULT '{}',
	cloud_account_id VARCHAR NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX unique_idx_cluster_client_id ON cluster (LOWER(client_id));
`

	return
}

// Down return sql migration for rollback database
func (m CreateClusterTable1707131100) Down(ctx context.Context) (sql string, err error) {
	sql = `DROP TABLE IF EXISTS cluster;`
	return
}
