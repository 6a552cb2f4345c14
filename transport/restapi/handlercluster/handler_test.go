package handlercluster

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
)

type fakeClusterService struct {
	lastListInput clustersvc.InputListClusters
}

var _ clustersvc.Service = (*fakeClusterService)(nil)

func (f *fakeClusterService) CreateCluster(ctx context.Context, input clustersvc.InputCreateCluster) (clustersvc.OutCreateCluster, error) {
	return clustersvc.OutCreateCluster{}, fmt.Errorf("not implemented")
}

func (f *fakeClusterService) GetCluster(ctx context.Context, input clustersvc.InputGetCluster) (clustersvc.OutGetCluster, error) {
	return clustersvc.OutGetCluster{}, fmt.Errorf("cluster '%s' is not found", input.Name)
}

func (f *fakeClusterService) ListClusters(ctx context.Context, input clustersvc.InputListClusters) (clustersvc.OutListClusters, error) {
	f.lastListInput = input
	return clustersvc.OutListClusters{
		Total: 1,
		Limit: input.Limit,
		Clusters: []clustersvc.Cluster{
			{
				Name:       "hpc1",
				ClientID:   "hpc1client",
				OwnerEmail: "owner@example.com",
				Status:     clustersvc.StatusReady,
				Provider:   "aws",
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			},
		},
	}, nil
}

func (f *fakeClusterService) UpdateClusterStatus(ctx context.Context, input clustersvc.InputUpdateClusterStatus) (clustersvc.OutUpdateClusterStatus, error) {
	return clustersvc.OutUpdateClusterStatus{}, fmt.Errorf("not implemented")
}

func (f *fakeClusterService) DelCluster(ctx context.Context, input clustersvc.InputDelCluster) (clustersvc.OutDelCluster, error) {
	return clustersvc.OutDelCluster{Success: false}, nil
}

func testRequest(t *testing.T, h func(http.ResponseWriter, *http.Request), method, target string) *httptest.ResponseRecorder {
	t.Helper()

	ctx := respbuilder.Inject(context.Background(), respbuilder.Tracer{
		RemoteAddr: "localhost",
		AppTraceID: "test-trace",
	})

	req := httptest.NewRequest(method, target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestListClustersSortBy(t *testing.T) {
	svc := &fakeClusterService{}
	handler, err := NewHandler(HandlerConfig{ClusterService: svc})
	require.NoError(t, err)

	t.Run("no sort param", func(t *testing.T) {
		rec := testRequest(t, handler.ListClusters(), http.MethodGet, "/api/v1/clusters?limit=10")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, svc.lastListInput.SortBy)
	})

	t.Run("sortable field passes through", func(t *testing.T) {
		rec := testRequest(t, handler.ListClusters(), http.MethodGet, "/api/v1/clusters?sort_by=created_at")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "created_at", svc.lastListInput.SortBy)
	})

	t.Run("unknown field rejected with available fields", func(t *testing.T) {
		rec := testRequest(t, handler.ListClusters(), http.MethodGet, "/api/v1/clusters?sort_by=bogus")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "available fields:")
		assert.Contains(t, rec.Body.String(), `"error_code":"06"`)
	})

	t.Run("excluded field rejected", func(t *testing.T) {
		rec := testRequest(t, handler.ListClusters(), http.MethodGet, "/api/v1/clusters?sort_by=description")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestSortFields(t *testing.T) {
	handler, err := NewHandler(HandlerConfig{ClusterService: &fakeClusterService{}})
	require.NoError(t, err)

	rec := testRequest(t, handler.SortFields(), http.MethodGet, "/api/v1/clusters/sort-fields")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"available_fields"`)
	assert.Contains(t, body, "created_at")
	assert.Contains(t, body, `"excluded_fields"`)
	assert.Contains(t, body, "description")
}

func TestDelClusterNotFound(t *testing.T) {
	handler, err := NewHandler(HandlerConfig{ClusterService: &fakeClusterService{}})
	require.NoError(t, err)

	rec := testRequest(t, handler.DelCluster(), http.MethodDelete, "/api/v1/clusters/nosuch")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":"04"`)
}
