package clusterrepo

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Cluster mirrors one row of the cluster table.
// Json tag is used for caching.
type Cluster struct {
	Name        string `json:"name" db:"name" validate:"required"`             // primary key
	ClientID    string `json:"client_id" db:"client_id" validate:"required"`   // unique, matched lowercase
	Description string `json:"description" db:"description" validate:"-"`
	OwnerEmail  string `json:"owner_email" db:"owner_email" validate:"required,email"`
	Status      string `json:"status" db:"status" validate:"required"`
	Provider    string `json:"provider" db:"provider" validate:"required"`

	CreationParameters types.JSONText `json:"creation_parameters" db:"creation_parameters" validate:"-"`

	// CloudAccountID is NULL until the cluster is linked to a cloud account.
	CloudAccountID sql.NullString `json:"cloud_account_id" db:"cloud_account_id" validate:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at" validate:"-"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" validate:"-"`
}

// Partition mirrors one row of the cluster_partitions table.
type Partition struct {
	ID          int64          `json:"id" db:"id" validate:"required"` // primary key
	ClusterName string         `json:"cluster_name" db:"cluster_name" validate:"required"`
	Name        string         `json:"name" db:"name" validate:"required"`
	NodeCount   int            `json:"node_count" db:"node_count" validate:"min=0"`
	Config      types.JSONText `json:"config" db:"config" validate:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at" validate:"-"`
}
