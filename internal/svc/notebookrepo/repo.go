package notebookrepo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrValidation = errors.New("validation error")
)

// NotebookServer mirrors one row of the notebook_servers table.
type NotebookServer struct {
	ID            int64     `json:"id" db:"id" validate:"required"` // primary key
	ClusterName   string    `json:"cluster_name" db:"cluster_name" validate:"required"`
	PartitionName string    `json:"partition_name" db:"partition_name" validate:"-"`
	Name          string    `json:"name" db:"name" validate:"required"`
	OwnerEmail    string    `json:"owner_email" db:"owner_email" validate:"required,email"`
	ServerURL     string    `json:"server_url" db:"server_url" validate:"-"`
	Status        string    `json:"status" db:"status" validate:"required"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" validate:"-"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at" validate:"-"`
}

// Repo is notebook server repository service
type Repo interface {
	Create(ctx context.Context, in InputCreate) (out OutCreate, err error)
	List(ctx context.Context, in InputList) (out OutList, err error)
	UpdateStatus(ctx context.Context, in InputUpdateStatus) (out OutUpdateStatus, err error)
	DelByName(ctx context.Context, in InputDelByName) (out OutDelByName, err error)
}

type InputCreate struct {
	NotebookServer NotebookServer `validate:"required"`
}

type OutCreate struct {
	NotebookServer NotebookServer
}

type InputList struct {
	ClusterName string `validate:"required"`
	Limit       int64  `validate:"required"`
	Offset      int64  `validate:"min=0"`
	SortBy      string `validate:"-"`
}

type OutList struct {
	Total           int64
	NotebookServers []NotebookServer
}

type InputUpdateStatus struct {
	ClusterName string `validate:"required"`
	Name        string `validate:"required"`
	Status      string `validate:"required"`
}

type OutUpdateStatus struct {
	NotebookServer NotebookServer
}

type InputDelByName struct {
	ClusterName string `validate:"required"`
	Name        string `validate:"required"`
}

type OutDelByName struct {
	Success bool
}
