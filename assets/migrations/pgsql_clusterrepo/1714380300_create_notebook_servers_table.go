package pgsql_clusterrepo

import (
	"context"
	"fmt"
)

// CreateNotebookServersTable1714380300 is struct to define a migration with ID 1714380300_create_notebook_servers_table
type CreateNotebookServersTable1714380300 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateNotebookServersTable1714380300) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1714380300, "create_notebook_servers_table")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateNotebookServersTable1714380300) SequenceNumber(ctx context.Context) int {
	return 1714380300
}

// Up return sql migration for sync database
func (m CreateNotebookServersTable1714380300) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS notebook_servers (
	id BIGINT NOT NULL PRIMARY KEY,
	cluster_name VARCHAR NOT NULL,
	partition_name VARCHAR NOT NULL DEFAULT '',
	name VARCHAR NOT NULL,
	owner_email VARCHAR NOT NULL,
	server_url VARCHAR NOT NULL DEFAULT '',
	status VARCHAR NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	CONSTRAINT fk_notebook_servers_cluster_name
		FOREIGN KEY (cluster_name) REFERENCES cluster (name)
		ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE INDEX idx_notebook_servers_cluster_name ON notebook_servers (cluster_name);
CREATE UNIQUE INDEX unique_idx_notebook_servers_name ON notebook_servers (cluster_name, name);
`

	return
}

// Down return sql migration for rollback database
func (m CreateNotebookServersTable1714380300) Down(ctx context.Context) (sql string, err error) {
	sql = `DROP TABLE IF EXISTS notebook_servers;`
	return
}
