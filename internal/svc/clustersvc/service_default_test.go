package clustersvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
)

type fakeUID struct {
	next uint64
	err  error
}

func (f *fakeUID) NextID() (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.next++
	return f.next, nil
}

// fakeClusterRepo keeps clusters in a map, enough to drive the service.
type fakeClusterRepo struct {
	clusters   map[string]clusterrepo.Cluster
	partitions map[string][]clusterrepo.Partition
	createErr  error
}

func newFakeClusterRepo() *fakeClusterRepo {
	return &fakeClusterRepo{
		clusters:   make(map[string]clusterrepo.Cluster),
		partitions: make(map[string][]clusterrepo.Partition),
	}
}

func (f *fakeClusterRepo) Create(ctx context.Context, in clusterrepo.InputCreate) (clusterrepo.OutCreate, error) {
	if f.createErr != nil {
		return clusterrepo.OutCreate{}, f.createErr
	}

	f.clusters[in.Cluster.Name] = in.Cluster
	f.partitions[in.Cluster.Name] = in.Partitions
	return clusterrepo.OutCreate{Cluster: in.Cluster, Partitions: in.Partitions}, nil
}

func (f *fakeClusterRepo) GetByName(ctx context.Context, in clusterrepo.InputGetByName) (clusterrepo.OutGetByName, error) {
	c, ok := f.clusters[in.Name]
	if !ok {
		return clusterrepo.OutGetByName{}, sql.ErrNoRows
	}

	return clusterrepo.OutGetByName{Cluster: c}, nil
}

func (f *fakeClusterRepo) List(ctx context.Context, in clusterrepo.InputList) (clusterrepo.OutList, error) {
	out := clusterrepo.OutList{Total: int64(len(f.clusters))}
	for _, c := range f.clusters {
		out.Clusters = append(out.Clusters, c)
	}

	return out, nil
}

func (f *fakeClusterRepo) UpdateStatus(ctx context.Context, in clusterrepo.InputUpdateStatus) (clusterrepo.OutUpdateStatus, error) {
	c, ok := f.clusters[in.Name]
	if !ok {
		return clusterrepo.OutUpdateStatus{}, sql.ErrNoRows
	}

	c.Status = in.Status
	f.clusters[in.Name] = c
	return clusterrepo.OutUpdateStatus{Cluster: c}, nil
}

func (f *fakeClusterRepo) DelByName(ctx context.Context, in clusterrepo.InputDelByName) (clusterrepo.OutDelByName, error) {
	_, ok := f.clusters[in.Name]
	delete(f.clusters, in.Name)
	delete(f.partitions, in.Name)
	return clusterrepo.OutDelByName{Success: ok}, nil
}

func (f *fakeClusterRepo) ListPartitions(ctx context.Context, in clusterrepo.InputListPartitions) (clusterrepo.OutListPartitions, error) {
	return clusterrepo.OutListPartitions{Partitions: f.partitions[in.ClusterName]}, nil
}

var _ clusterrepo.Repo = (*fakeClusterRepo)(nil)

func newService(t *testing.T, repo clusterrepo.Repo) *clustersvc.DefaultService {
	svc, err := clustersvc.New(clustersvc.DefaultServiceConfig{
		UIDGen:      &fakeUID{},
		ClusterRepo: repo,
	})
	require.NoError(t, err)
	return svc
}

func validInput() clustersvc.InputCreateCluster {
	return clustersvc.InputCreateCluster{
		Name:       "hpc1",
		ClientID:   "hpc1client",
		OwnerEmail: "owner@example.com",
		Provider:   "aws",
		Partitions: []clustersvc.InputPartition{
			{Name: "compute", NodeCount: 4},
			{Name: "debug", NodeCount: 1},
		},
	}
}

func TestCreateCluster(t *testing.T) {
	t.Run("missing required field", func(t *testing.T) {
		svc := newService(t, newFakeClusterRepo())

		_, err := svc.CreateCluster(context.Background(), clustersvc.InputCreateCluster{})
		assert.Error(t, err)
	})

	t.Run("success starts provisioning", func(t *testing.T) {
		svc := newService(t, newFakeClusterRepo())

		out, err := svc.CreateCluster(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, "hpc1", out.Cluster.Name)
		assert.Equal(t, clustersvc.StatusProvisioning, out.Cluster.Status)
		assert.Len(t, out.Cluster.Partitions, 2)
		assert.Equal(t, "", out.Cluster.CloudAccountID)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		repo := newFakeClusterRepo()
		svc := newService(t, repo)

		_, err := svc.CreateCluster(context.Background(), validInput())
		require.NoError(t, err)

		_, err = svc.CreateCluster(context.Background(), validInput())
		assert.Error(t, err)
	})

	t.Run("repo failure propagates", func(t *testing.T) {
		repo := newFakeClusterRepo()
		repo.createErr = errors.New("db down")
		svc := newService(t, repo)

		_, err := svc.CreateCluster(context.Background(), validInput())
		assert.Error(t, err)
	})
}

func TestGetCluster(t *testing.T) {
	repo := newFakeClusterRepo()
	svc := newService(t, repo)

	_, err := svc.CreateCluster(context.Background(), validInput())
	require.NoError(t, err)

	t.Run("found with partitions", func(t *testing.T) {
		out, err := svc.GetCluster(context.Background(), clustersvc.InputGetCluster{Name: "hpc1"})
		require.NoError(t, err)
		assert.Equal(t, "hpc1", out.Cluster.Name)
		assert.Len(t, out.Cluster.Partitions, 2)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetCluster(context.Background(), clustersvc.InputGetCluster{Name: "missing"})
		assert.Error(t, err)
	})
}

func TestUpdateClusterStatus(t *testing.T) {
	repo := newFakeClusterRepo()
	svc := newService(t, repo)

	_, err := svc.CreateCluster(context.Background(), validInput())
	require.NoError(t, err)

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdateClusterStatus(context.Background(), clustersvc.InputUpdateClusterStatus{
			Name:   "hpc1",
			Status: "exploded",
		})
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		out, err := svc.UpdateClusterStatus(context.Background(), clustersvc.InputUpdateClusterStatus{
			Name:   "hpc1",
			Status: clustersvc.StatusReady,
		})
		require.NoError(t, err)
		assert.Equal(t, clustersvc.StatusReady, out.Cluster.Status)
	})
}

func TestDelCluster(t *testing.T) {
	repo := newFakeClusterRepo()
	svc := newService(t, repo)

	_, err := svc.CreateCluster(context.Background(), validInput())
	require.NoError(t, err)

	out, err := svc.DelCluster(context.Background(), clustersvc.InputDelCluster{Name: "hpc1"})
	require.NoError(t, err)
	assert.True(t, out.Success)

	out, err = svc.DelCluster(context.Background(), clustersvc.InputDelCluster{Name: "hpc1"})
	require.NoError(t, err)
	assert.False(t, out.Success)
}
