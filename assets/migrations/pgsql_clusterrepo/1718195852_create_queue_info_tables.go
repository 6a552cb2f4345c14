package pgsql_clusterrepo

import (
	"context"
	"fmt"
)

// CreateQueueInfoTables1718195852 is struct to define a migration with ID 1718195852_create_queue_info_tables
type CreateQueueInfoTables1718195852 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateQueueInfoTables1718195852) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1718195852, "create_queue_info_tables")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateQueueInfoTables1718195852) SequenceNumber(ctx context.Context) int {
	return 1718195852
}

// Up return sql migration for sync database
func (m CreateQueueInfoTables1718195852) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS queue_info (
	id BIGINT NOT NULL PRIMARY KEY,
	cluster_name VARCHAR NOT NULL,
	name VARCHAR NOT NULL,
	info JSONB NOT NULL DEFAULT '{}',
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	CONSTRAINT fk_queue_info_cluster_name
		FOREIGN KEY (cluster_name) REFERENCES cluster (name)
		ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE INDEX idx_queue_info_cluster_name ON queue_info (cluster_name);
CREATE INDEX idx_queue_info_name ON queue_info (name);
CREATE UNIQUE INDEX unique_idx_queue_info_cluster_queue ON queue_info (cluster_name, name);

CREATE TABLE IF NOT EXISTS all_queue_info (
	id BIGINT NOT NULL PRIMARY KEY,
	cluster_name VARCHAR NOT NULL,
	info JSONB NOT NULL DEFAULT '{}',
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	CONSTRAINT fk_all_queue_info_cluster_name
		FOREIGN KEY (cluster_name) REFERENCES cluster (name)
		ON DELETE CASCADE
);

CREATE UNIQUE INDEX unique_idx_all_queue_info_cluster_name ON all_queue_info (cluster_name);
`

	return
}

// Down return sql migration for rollback database
func (m CreateQueueInfoTables1718195852) Down(ctx context.Context) (sql string, err error) {
	sql = `
DROP TABLE IF EXISTS all_queue_info;
DROP TABLE IF EXISTS queue_info;
`
	return
}
