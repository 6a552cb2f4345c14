package pgsql_clusterrepo

import (
	"context"
	"fmt"
)

// CreateCloudAccountApiKeyTable1720513456 is struct to define a migration with ID 1720513456_create_cloud_account_api_key_table
type CreateCloudAccountApiKeyTable1720513456 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateCloudAccountApiKeyTable1720513456) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1720513456, "create_cloud_account_api_key_table")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateCloudAccountApiKeyTable1720513456) SequenceNumber(ctx context.Context) int {
	return 1720513456
}

// Up return sql migration for sync database
func (m CreateCloudAccountApiKeyTable1720513456) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS cloud_account_api_key (
	id UUID NOT NULL PRIMARY KEY DEFAULT uuid_generate_v4(),
	cloud_account_id VARCHAR NOT NULL,
	api_key VARCHAR NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX unique_idx_cloud_account_api_key_account ON cloud_account_api_key (cloud_account_id);
`

	return
}

// Down return sql migration for rollback database
func (m CreateCloudAccountApiKeyTable1720513456) Down(ctx context.Context) (sql string, err error) {
	sql = `DROP TABLE IF EXISTS cloud_account_api_key;`
	return
}
