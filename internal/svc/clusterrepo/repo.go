package clusterrepo

import (
	"context"
	"errors"
)

var (
	ErrValidation = errors.New("validation error")
)

// Repo is cluster repository service
type Repo interface {
	Create(ctx context.Context, in InputCreate) (out OutCreate, err error)
	GetByName(ctx context.Context, in InputGetByName) (out OutGetByName, err error)
	List(ctx context.Context, in InputList) (out OutList, err error)
	UpdateStatus(ctx context.Context, in InputUpdateStatus) (out OutUpdateStatus, err error)
	DelByName(ctx context.Context, in InputDelByName) (out OutDelByName, err error)
	ListPartitions(ctx context.Context, in InputListPartitions) (out OutListPartitions, err error)
}

type InputCreate struct {
	Cluster    Cluster     `validate:"required"`
	Partitions []Partition `validate:"dive"`
}

type OutCreate struct {
	Cluster    Cluster
	Partitions []Partition
}

type InputGetByName struct {
	Name string `validate:"required"`
}

type OutGetByName struct {
	Cluster Cluster
}

type InputList struct {
	Limit  int64  `validate:"required"`
	Offset int64  `validate:"min=0"`
	SortBy string `validate:"-"` // column name, must already be checked against the sortable set
}

type OutList struct {
	Total    int64
	Clusters []Cluster
}

type InputUpdateStatus struct {
	Name   string `validate:"required"`
	Status string `validate:"required"`
}

type OutUpdateStatus struct {
	Cluster Cluster
}

type InputDelByName struct {
	Name string `validate:"required"`
}

type OutDelByName struct {
	Success bool
}

type InputListPartitions struct {
	ClusterName string `validate:"required"`
}

type OutListPartitions struct {
	Partitions []Partition
}
