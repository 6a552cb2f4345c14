package httptyped

import (
	"time"

	"github.com/vantagecompute/vantage-api/internal/svc/notebooksvc"
	"github.com/vantagecompute/vantage-api/pkg/sortfield"
)

type NotebookEntity struct {
	ID            int64     `json:"id"`
	ClusterName   string    `json:"cluster_name"`
	PartitionName string    `json:"partition_name"`
	Name          string    `json:"name"`
	OwnerEmail    string    `json:"owner_email"`
	ServerURL     string    `json:"server_url,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NotebookEntityFromSvc(nb notebooksvc.NotebookServer) NotebookEntity {
	return NotebookEntity{
		ID:            nb.ID,
		ClusterName:   nb.ClusterName,
		PartitionName: nb.PartitionName,
		Name:          nb.Name,
		OwnerEmail:    nb.OwnerEmail,
		ServerURL:     nb.ServerURL,
		Status:        nb.Status,
		CreatedAt:     nb.CreatedAt,
		UpdatedAt:     nb.UpdatedAt,
	}
}

func NotebookSortChecker() (*sortfield.Checker, error) {
	return sortfield.New(NotebookEntity{},
		"id",
		"cluster_name",
		"server_url",
	)
}
