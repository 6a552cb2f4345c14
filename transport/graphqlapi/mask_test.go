package graphqlapi_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/transport/graphqlapi"
)

type fakeClusterSvc struct {
	clusters map[string]clustersvc.Cluster
}

func (f *fakeClusterSvc) CreateCluster(ctx context.Context, input clustersvc.InputCreateCluster) (clustersvc.OutCreateCluster, error) {
	return clustersvc.OutCreateCluster{}, nil
}

func (f *fakeClusterSvc) GetCluster(ctx context.Context, input clustersvc.InputGetCluster) (clustersvc.OutGetCluster, error) {
	c, ok := f.clusters[input.Name]
	if !ok {
		return clustersvc.OutGetCluster{}, fmt.Errorf("cluster %q: %w", input.Name, sql.ErrNoRows)
	}

	return clustersvc.OutGetCluster{Cluster: c}, nil
}

func (f *fakeClusterSvc) ListClusters(ctx context.Context, input clustersvc.InputListClusters) (out clustersvc.OutListClusters, err error) {
	for _, c := range f.clusters {
		out.Clusters = append(out.Clusters, c)
	}

	out.Total = int64(len(out.Clusters))
	return
}

func (f *fakeClusterSvc) UpdateClusterStatus(ctx context.Context, input clustersvc.InputUpdateClusterStatus) (clustersvc.OutUpdateClusterStatus, error) {
	return clustersvc.OutUpdateClusterStatus{}, nil
}

func (f *fakeClusterSvc) DelCluster(ctx context.Context, input clustersvc.InputDelCluster) (clustersvc.OutDelCluster, error) {
	return clustersvc.OutDelCluster{}, nil
}

var _ clustersvc.Service = (*fakeClusterSvc)(nil)

type fakeCloudAcctSvc struct {
	keys   map[string]cloudacctsvc.APIKey
	getErr error
}

func (f *fakeCloudAcctSvc) CreateKey(ctx context.Context, input cloudacctsvc.InputCreateKey) (cloudacctsvc.OutCreateKey, error) {
	return cloudacctsvc.OutCreateKey{}, nil
}

func (f *fakeCloudAcctSvc) GetKey(ctx context.Context, input cloudacctsvc.InputGetKey) (cloudacctsvc.OutGetKey, error) {
	if f.getErr != nil {
		return cloudacctsvc.OutGetKey{}, f.getErr
	}

	key, ok := f.keys[input.CloudAccountID]
	if !ok {
		return cloudacctsvc.OutGetKey{}, sql.ErrNoRows
	}

	return cloudacctsvc.OutGetKey{APIKey: key}, nil
}

func (f *fakeCloudAcctSvc) DelKey(ctx context.Context, input cloudacctsvc.InputDelKey) (cloudacctsvc.OutDelKey, error) {
	return cloudacctsvc.OutDelKey{}, nil
}

var _ cloudacctsvc.Service = (*fakeCloudAcctSvc)(nil)

func newSchema(t *testing.T, cloudAcct cloudacctsvc.Service) graphql.Schema {
	schema, err := graphqlapi.NewSchema(graphqlapi.SchemaConfig{
		ClusterSvc: &fakeClusterSvc{clusters: map[string]clustersvc.Cluster{
			"hpc1": {
				Name:     "hpc1",
				ClientID: "hpc1client",
				Status:   clustersvc.StatusReady,
				// no cloud account linked
			},
			"hpc2": {
				Name:           "hpc2",
				ClientID:       "hpc2client",
				Status:         clustersvc.StatusReady,
				CloudAccountID: "acct-1",
			},
		}},
		CloudAcctSvc: cloudAcct,
	})
	require.NoError(t, err)
	return schema
}

func TestNewSchema(t *testing.T) {
	t.Run("missing services", func(t *testing.T) {
		_, err := graphqlapi.NewSchema(graphqlapi.SchemaConfig{})
		assert.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		newSchema(t, &fakeCloudAcctSvc{})
	})
}

func TestShouldMaskError(t *testing.T) {
	t.Run("plain error stays", func(t *testing.T) {
		ferr := gqlerrors.FormatError(errors.New("boom"))
		assert.False(t, graphqlapi.ShouldMaskError(ferr))
	})

	t.Run("wrapped sentinel is masked", func(t *testing.T) {
		ferr := gqlerrors.FormatError(fmt.Errorf("cluster: %w", graphqlapi.ErrAbsentRelation))
		assert.True(t, graphqlapi.ShouldMaskError(ferr))
	})

	t.Run("sentinel behind executor wrapper is masked", func(t *testing.T) {
		ferr := gqlerrors.FormatError(&gqlerrors.Error{
			Message:       "resolve failed",
			OriginalError: fmt.Errorf("cluster: %w", graphqlapi.ErrAbsentRelation),
		})
		assert.True(t, graphqlapi.ShouldMaskError(ferr))
	})

	t.Run("other error behind executor wrapper stays", func(t *testing.T) {
		ferr := gqlerrors.FormatError(&gqlerrors.Error{
			Message:       "resolve failed",
			OriginalError: errors.New("db down"),
		})
		assert.False(t, graphqlapi.ShouldMaskError(ferr))
	})
}

func TestMaskResult(t *testing.T) {
	t.Run("nil result is a no-op", func(t *testing.T) {
		graphqlapi.MaskResult(nil)
	})

	t.Run("list cleared when only absent relations remain", func(t *testing.T) {
		result := &graphql.Result{
			Errors: []gqlerrors.FormattedError{
				gqlerrors.FormatError(fmt.Errorf("a: %w", graphqlapi.ErrAbsentRelation)),
			},
		}
		graphqlapi.MaskResult(result)
		assert.Nil(t, result.Errors)
	})

	t.Run("real errors survive", func(t *testing.T) {
		result := &graphql.Result{
			Errors: []gqlerrors.FormattedError{
				gqlerrors.FormatError(fmt.Errorf("a: %w", graphqlapi.ErrAbsentRelation)),
				gqlerrors.FormatError(errors.New("db down")),
			},
		}
		graphqlapi.MaskResult(result)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "db down", result.Errors[0].Message)
	})
}

func TestQueryAbsentRelation(t *testing.T) {
	schema := newSchema(t, &fakeCloudAcctSvc{keys: map[string]cloudacctsvc.APIKey{
		"acct-1": {ID: "11111111-1111-1111-1111-111111111111", CloudAccountID: "acct-1"},
	}})

	t.Run("traversal into missing relation yields null without errors", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ cluster(name: "hpc1") { name cloudAccount { cloudAccountId } } }`,
			Context:       context.Background(),
		})
		graphqlapi.MaskResult(result)

		assert.Nil(t, result.Errors)

		data, ok := result.Data.(map[string]interface{})
		require.True(t, ok)
		cluster, ok := data["cluster"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "hpc1", cluster["name"])
		assert.Nil(t, cluster["cloudAccount"])
	})

	t.Run("linked relation resolves", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ cluster(name: "hpc2") { name cloudAccount { cloudAccountId } } }`,
			Context:       context.Background(),
		})
		graphqlapi.MaskResult(result)

		require.Nil(t, result.Errors)

		data := result.Data.(map[string]interface{})
		cluster := data["cluster"].(map[string]interface{})
		account, ok := cluster["cloudAccount"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "acct-1", account["cloudAccountId"])
	})

	t.Run("real resolver failure stays visible", func(t *testing.T) {
		broken := newSchema(t, &fakeCloudAcctSvc{getErr: errors.New("store unreachable")})

		result := graphql.Do(graphql.Params{
			Schema:        broken,
			RequestString: `{ cluster(name: "hpc2") { name cloudAccount { cloudAccountId } } }`,
			Context:       context.Background(),
		})
		graphqlapi.MaskResult(result)

		assert.NotEmpty(t, result.Errors)
	})

	t.Run("unknown field is not masked", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ cluster(name: "hpc1") { bogus } }`,
			Context:       context.Background(),
		})
		graphqlapi.MaskResult(result)

		assert.NotEmpty(t, result.Errors)
	})
}
