package genapidoc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/transport/restapi/handlercluster"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
)

// ClusterGetOne
// GET /api/v1/clusters/{cluster_name}
func ClusterGetOne(ctx context.Context, components openapi3.Components, path map[string]*openapi3.PathItem) {
	const scopedSchemaName = "ClusterGetOne"
	const routeName = "Get Cluster"
	const pathRoute = "/api/v1/clusters/{cluster_name}"

	// --- Response schema
	respStruct := handlercluster.GetClusterResp{
		Cluster: httptyped.ClusterEntity{
			Name:       "hpc-prod",
			ClientID:   "hpc-prod-client",
			OwnerEmail: "owner@example.com",
			Status:     "RUNNING",
			Provider:   "aws",
			Partitions: []httptyped.PartitionEntity{
				{
					ID:        123,
					Name:      "compute",
					NodeCount: 8,
					CreatedAt: time.Now(),
				},
			},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	// generate response and add to components
	resp := respbuilder.Success(ctx, respStruct)
	outResp := MustNewSchemaGenerator(ctx, scopedSchemaName+".Resp201.", resp)
	for s, ref := range outResp.Schemas {
		components.Schemas[s] = ref
	}

	// --- params
	paramClusterName := openapi3.NewPathParameter("cluster_name").WithDescription("Cluster name")
	paramClusterName.Schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "string"}}
	paramClusterName.Example = "hpc-prod"

	// --- final spec
	op := openapi3.NewOperation()
	op.Tags = []string{"Cluster"}
	op.Summary = routeName
	op.OperationID = scopedSchemaName
	op.AddParameter(paramClusterName)

	op.AddResponse(http.StatusOK, openapi3.NewResponse().WithJSONSchemaRef(
		&openapi3.SchemaRef{
			Ref: fmt.Sprintf("#/components/schemas/%s", outResp.ParentSchemaName),
		},
	).WithDescription("desc"))

	_, exist := path[pathRoute]
	if !exist {
		path[pathRoute] = &openapi3.PathItem{}
	}

	path[pathRoute].Get = op
}
