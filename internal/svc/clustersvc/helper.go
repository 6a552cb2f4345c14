package clustersvc

import (
	"encoding/json"

	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
)

func ClusterFromRepo(c clusterrepo.Cluster, partitions []clusterrepo.Partition) Cluster {
	out := Cluster{
		Name:               c.Name,
		ClientID:           c.ClientID,
		Description:        c.Description,
		OwnerEmail:         c.OwnerEmail,
		Status:             c.Status,
		Provider:           c.Provider,
		CreationParameters: json.RawMessage(c.CreationParameters),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}

	if c.CloudAccountID.Valid {
		out.CloudAccountID = c.CloudAccountID.String
	}

	for _, p := range partitions {
		out.Partitions = append(out.Partitions, PartitionFromRepo(p))
	}

	return out
}

func PartitionFromRepo(p clusterrepo.Partition) Partition {
	return Partition{
		ID:        p.ID,
		Name:      p.Name,
		NodeCount: p.NodeCount,
		Config:    json.RawMessage(p.Config),
		CreatedAt: p.CreatedAt,
	}
}
