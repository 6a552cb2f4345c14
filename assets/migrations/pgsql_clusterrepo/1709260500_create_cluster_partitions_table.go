package pgsql_clusterrepo

import (
	"context"
	"fmt"
)

// CreateClusterPartitionsTable1709260500 is struct to define a migration with ID 1709260500_create_cluster_partitions_table
type CreateClusterPartitionsTable1709260500 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateClusterPartitionsTable1709260500) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1709260500, "create_cluster_partitions_table")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateClusterPartitionsTable1709260500) SequenceNumber(ctx context.Context) int {
	return 1709260500
}

// Up return sql migration for sync database
func (m CreateClusterPartitionsTable1709260500) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS cluster_partitions (
	id BIGINT NOT NULL PRIMARY KEY,
	cluster_name VARCHAR NOT NULL,
	name VARCHAR NOT NULL,
	node_count INTEGER NOT NULL DEFAULT 0,
	config JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	CONSTRAINT fk_cluster_partitions_cluster_name
		FOREIGN KEY (cluster_name) REFERENCES cluster (name)
		ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE INDEX idx_cluster_partitions_cluster_name ON cluster_partitions (cluster_name);
CREATE UNIQUE INDEX unique_idx_cluster_partitions_name ON cluster_partitions (cluster_name, name);
`

	return
}

// Down return sql migration for rollback database
func (m CreateClusterPartitionsTable1709260500) Down(ctx context.Context) (sql string, err error) {
	sql = `DROP TABLE IF EXISTS cluster_partitions;`
	return
}
