// Package httptyped holds the response entities the REST transport puts on
// the wire. Service structs deliberately carry no json tags, the mapping to
// a public payload happens here and nowhere else.
package httptyped

import (
	"encoding/json"
	"time"

	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/pkg/sortfield"
)

type ClusterEntity struct {
	Name               string            `json:"name"`
	ClientID           string            `json:"client_id"`
	Description        string            `json:"description"`
	OwnerEmail         string            `json:"owner_email"`
	Status             string            `json:"status"`
	Provider           string            `json:"provider"`
	CreationParameters json.RawMessage   `json:"creation_parameters,omitempty"`
	CloudAccountID     string            `json:"cloud_account_id,omitempty"`
	Partitions         []PartitionEntity `json:"partitions"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type PartitionEntity struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	NodeCount int             `json:"node_count"`
	Config    json.RawMessage `json:"config,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func ClusterEntityFromSvc(cluster clustersvc.Cluster) ClusterEntity {
	partitions := make([]PartitionEntity, 0, len(cluster.Partitions))
	for _, p := range cluster.Partitions {
		partitions = append(partitions, PartitionEntityFromSvc(p))
	}

	return ClusterEntity{
		Name:               cluster.Name,
		ClientID:           cluster.ClientID,
		Description:        cluster.Description,
		OwnerEmail:         cluster.OwnerEmail,
		Status:             cluster.Status,
		Provider:           cluster.Provider,
		CreationParameters: cluster.CreationParameters,
		CloudAccountID:     cluster.CloudAccountID,
		Partitions:         partitions,
		CreatedAt:          cluster.CreatedAt,
		UpdatedAt:          cluster.UpdatedAt,
	}
}

func PartitionEntityFromSvc(partition clustersvc.Partition) PartitionEntity {
	return PartitionEntity{
		ID:        partition.ID,
		Name:      partition.Name,
		NodeCount: partition.NodeCount,
		Config:    partition.Config,
		CreatedAt: partition.CreatedAt,
	}
}

// ClusterSortChecker derives the sortable fields from the wire entity, the
// excluded set keeps it aligned with the columns the repo will order by.
func ClusterSortChecker() (*sortfield.Checker, error) {
	return sortfield.New(ClusterEntity{},
		"description",
		"creation_parameters",
		"cloud_account_id",
		"partitions",
	)
}
