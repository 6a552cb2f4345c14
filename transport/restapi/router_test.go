package restapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/internal/svc/identitysvc"
	"github.com/vantagecompute/vantage-api/internal/svc/notebooksvc"
	"github.com/vantagecompute/vantage-api/internal/svc/queuesvc"
	"github.com/vantagecompute/vantage-api/internal/svc/subssvc"
	"github.com/vantagecompute/vantage-api/transport/restapi"
	"github.com/yusufsyaifudin/ylog"
	"go.uber.org/zap"
)

// stub services so the transport can be built without a container.

type stubClusterSvc struct{}

func (stubClusterSvc) CreateCluster(ctx context.Context, in clustersvc.InputCreateCluster) (clustersvc.OutCreateCluster, error) {
	return clustersvc.OutCreateCluster{}, nil
}

func (stubClusterSvc) GetCluster(ctx context.Context, in clustersvc.InputGetCluster) (clustersvc.OutGetCluster, error) {
	return clustersvc.OutGetCluster{}, nil
}

func (stubClusterSvc) ListClusters(ctx context.Context, in clustersvc.InputListClusters) (clustersvc.OutListClusters, error) {
	return clustersvc.OutListClusters{}, nil
}

func (stubClusterSvc) UpdateClusterStatus(ctx context.Context, in clustersvc.InputUpdateClusterStatus) (clustersvc.OutUpdateClusterStatus, error) {
	return clustersvc.OutUpdateClusterStatus{}, nil
}

func (stubClusterSvc) DelCluster(ctx context.Context, in clustersvc.InputDelCluster) (clustersvc.OutDelCluster, error) {
	return clustersvc.OutDelCluster{}, nil
}

type stubNotebookSvc struct{}

func (stubNotebookSvc) CreateNotebook(ctx context.Context, in notebooksvc.InputCreateNotebook) (notebooksvc.OutCreateNotebook, error) {
	return notebooksvc.OutCreateNotebook{}, nil
}

func (stubNotebookSvc) ListNotebooks(ctx context.Context, in notebooksvc.InputListNotebooks) (notebooksvc.OutListNotebooks, error) {
	return notebooksvc.OutListNotebooks{}, nil
}

func (stubNotebookSvc) UpdateNotebookStatus(ctx context.Context, in notebooksvc.InputUpdateNotebookStatus) (notebooksvc.OutUpdateNotebookStatus, error) {
	return notebooksvc.OutUpdateNotebookStatus{}, nil
}

func (stubNotebookSvc) DelNotebook(ctx context.Context, in notebooksvc.InputDelNotebook) (notebooksvc.OutDelNotebook, error) {
	return notebooksvc.OutDelNotebook{}, nil
}

type stubQueueSvc struct{}

func (stubQueueSvc) IngestReport(ctx context.Context, in queuesvc.InputIngestReport) (queuesvc.OutIngestReport, error) {
	return queuesvc.OutIngestReport{}, nil
}

func (stubQueueSvc) GetQueues(ctx context.Context, in queuesvc.InputGetQueues) (queuesvc.OutGetQueues, error) {
	return queuesvc.OutGetQueues{}, nil
}

type stubCloudAcctSvc struct{}

func (stubCloudAcctSvc) CreateKey(ctx context.Context, in cloudacctsvc.InputCreateKey) (cloudacctsvc.OutCreateKey, error) {
	return cloudacctsvc.OutCreateKey{}, nil
}

func (stubCloudAcctSvc) GetKey(ctx context.Context, in cloudacctsvc.InputGetKey) (cloudacctsvc.OutGetKey, error) {
	return cloudacctsvc.OutGetKey{}, nil
}

func (stubCloudAcctSvc) DelKey(ctx context.Context, in cloudacctsvc.InputDelKey) (cloudacctsvc.OutDelKey, error) {
	return cloudacctsvc.OutDelKey{}, nil
}

type stubIdentitySvc struct{}

func (stubIdentitySvc) ListUsers(ctx context.Context, in identitysvc.InputListUsers) (identitysvc.OutListUsers, error) {
	return identitysvc.OutListUsers{}, nil
}

func (stubIdentitySvc) GetDefaultClient(ctx context.Context) (identitysvc.OutGetDefaultClient, error) {
	return identitysvc.OutGetDefaultClient{}, nil
}

func (stubIdentitySvc) CountUsers(ctx context.Context, in identitysvc.InputCountUsers) (identitysvc.OutCountUsers, error) {
	return identitysvc.OutCountUsers{}, nil
}

type stubSubsSvc struct{}

func (stubSubsSvc) ResolveSubscription(ctx context.Context, in subssvc.InputResolveSubscription) (subssvc.OutResolveSubscription, error) {
	return subssvc.OutResolveSubscription{}, nil
}

func (stubSubsSvc) CheckEntitlements(ctx context.Context, in subssvc.InputCheckEntitlements) (subssvc.OutCheckEntitlements, error) {
	return subssvc.OutCheckEntitlements{}, nil
}

func newTransport(t *testing.T) *restapi.DefaultHTTP {
	t.Helper()

	ylog.SetGlobalLogger(ylog.NewZap(zap.NewNop()))

	server, err := restapi.NewHTTPTransport(restapi.Config{
		AppServiceName:      "vantage-api",
		AppVersion:          "test",
		ClusterService:      stubClusterSvc{},
		NotebookService:     stubNotebookSvc{},
		QueueService:        stubQueueSvc{},
		CloudAccountService: stubCloudAcctSvc{},
		IdentityService:     stubIdentitySvc{},
		SubsService:         stubSubsSvc{},
	})
	require.NoError(t, err)
	return server
}

func TestSwaggerUIServed(t *testing.T) {
	server := newTransport(t)

	req := httptest.NewRequest(http.MethodGet, "/swaggerui/index.html", nil)
	rec := httptest.NewRecorder()
	server.Server().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestRoutesRegistered(t *testing.T) {
	server := newTransport(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clusters/sort-fields", nil)
	rec := httptest.NewRecorder()
	server.Server().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "available_fields")
}
