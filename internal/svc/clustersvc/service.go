package clustersvc

import (
	"context"
	"encoding/json"
	"time"
)

// Cluster lifecycle statuses as reported to and by the provisioning agent.
const (
	StatusProvisioning = "provisioning"
	StatusReady        = "ready"
	StatusDeleting     = "deleting"
	StatusError        = "error"
)

// Service is an interface of final business logic.
// Any input and output from/to this function should be SAFE for external party to consume,
// i.e: request or response from HTTP handler
type Service interface {
	CreateCluster(ctx context.Context, input InputCreateCluster) (out OutCreateCluster, err error)
	GetCluster(ctx context.Context, input InputGetCluster) (out OutGetCluster, err error)
	ListClusters(ctx context.Context, input InputListClusters) (out OutListClusters, err error)
	UpdateClusterStatus(ctx context.Context, input InputUpdateClusterStatus) (out OutUpdateClusterStatus, err error)
	DelCluster(ctx context.Context, input InputDelCluster) (out OutDelCluster, err error)
}

// Cluster is like clusterrepo.Cluster but this only use for returning output via external service.
// This must not have any json or yaml tag, any output method (HTTP, gRPC, etc) must define its own entity standard.
type Cluster struct {
	Name               string `validate:"required"`
	ClientID           string `validate:"required"`
	Description        string
	OwnerEmail         string `validate:"required"`
	Status             string `validate:"required"`
	Provider           string `validate:"required"`
	CreationParameters json.RawMessage
	CloudAccountID     string // empty when the cluster has no linked cloud account
	Partitions         []Partition
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Partition struct {
	ID        int64
	Name      string `validate:"required"`
	NodeCount int
	Config    json.RawMessage
	CreatedAt time.Time
}

type InputCreateCluster struct {
	Name               string `validate:"required"`
	ClientID           string `validate:"required,alphanum,lowercase"`
	Description        string `validate:"-"`
	OwnerEmail         string `validate:"required,email"`
	Provider           string `validate:"required"`
	CreationParameters json.RawMessage `validate:"-"`
	CloudAccountID     string          `validate:"-"`
	Partitions         []InputPartition `validate:"dive"`
}

type InputPartition struct {
	Name      string          `validate:"required"`
	NodeCount int             `validate:"min=0"`
	Config    json.RawMessage `validate:"-"`
}

type OutCreateCluster struct {
	Cluster Cluster
}

type InputGetCluster struct {
	Name string `validate:"required"`
}

type OutGetCluster struct {
	Cluster Cluster
}

type InputListClusters struct {
	Limit  int64  `validate:"min=0"`
	Offset int64  `validate:"min=0"`
	SortBy string `validate:"-"` // already checked by the transport layer sort checker
}

type OutListClusters struct {
	Total    int64
	Limit    int64
	Clusters []Cluster
}

type InputUpdateClusterStatus struct {
	Name   string `validate:"required"`
	Status string `validate:"required,oneof=provisioning ready deleting error"`
}

type OutUpdateClusterStatus struct {
	Cluster Cluster
}

type InputDelCluster struct {
	Name string `validate:"required"`
}

type OutDelCluster struct {
	Success bool
}
