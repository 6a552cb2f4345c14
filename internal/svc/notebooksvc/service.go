package notebooksvc

import (
	"context"
	"time"
)

// Notebook server statuses as reported by the hub.
const (
	StatusStarting = "starting"
	StatusRunning  = "running"
	StatusStopped  = "stopped"
)

// Service exposes notebook server operations scoped to one cluster.
type Service interface {
	CreateNotebook(ctx context.Context, input InputCreateNotebook) (out OutCreateNotebook, err error)
	ListNotebooks(ctx context.Context, input InputListNotebooks) (out OutListNotebooks, err error)
	UpdateNotebookStatus(ctx context.Context, input InputUpdateNotebookStatus) (out OutUpdateNotebookStatus, err error)
	DelNotebook(ctx context.Context, input InputDelNotebook) (out OutDelNotebook, err error)
}

type NotebookServer struct {
	ID            int64  `validate:"required"`
	ClusterName   string `validate:"required"`
	PartitionName string
	Name          string `validate:"required"`
	OwnerEmail    string `validate:"required"`
	ServerURL     string
	Status        string `validate:"required"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type InputCreateNotebook struct {
	ClusterName   string `validate:"required"`
	PartitionName string `validate:"-"`
	Name          string `validate:"required"`
	OwnerEmail    string `validate:"required,email"`
}

type OutCreateNotebook struct {
	NotebookServer NotebookServer
}

type InputListNotebooks struct {
	ClusterName string `validate:"required"`
	Limit       int64  `validate:"min=0"`
	Offset      int64  `validate:"min=0"`
	SortBy      string `validate:"-"` // already checked by the transport layer sort checker
}

type OutListNotebooks struct {
	Total           int64
	Limit           int64
	NotebookServers []NotebookServer
}

type InputUpdateNotebookStatus struct {
	ClusterName string `validate:"required"`
	Name        string `validate:"required"`
	Status      string `validate:"required,oneof=starting running stopped"`
}

type OutUpdateNotebookStatus struct {
	NotebookServer NotebookServer
}

type InputDelNotebook struct {
	ClusterName string `validate:"required"`
	Name        string `validate:"required"`
}

type OutDelNotebook struct {
	Success bool
}
