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

// ClusterGetList
// GET /api/v1/clusters
func ClusterGetList(ctx context.Context, components openapi3.Components, path map[string]*openapi3.PathItem) {
	const scopedSchemaName = "ClusterGetList"
	const routeName = "Get List of Clusters"
	const pathRoute = "/api/v1/clusters"

	// --- Response schema
	respStruct := handlercluster.ListClustersResp{
		Total: 1,
		Limit: 100,
		Items: []httptyped.ClusterEntity{
			{
				Name:       "hpc-prod",
				ClientID:   "hpc-prod-client",
				OwnerEmail: "owner@example.com",
				Status:     "RUNNING",
				Provider:   "aws",
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			},
		},
	}

	// generate response and add to components
	resp := respbuilder.Success(ctx, respStruct)
	outResp := MustNewSchemaGenerator(ctx, scopedSchemaName+".Resp201.", resp)
	for s, ref := range outResp.Schemas {
		components.Schemas[s] = ref
	}

	// --- params
	paramLimit := openapi3.NewQueryParameter("limit").WithDescription("Limit of list returned")
	paramLimit.Schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "number"}}
	paramLimit.Example = 100
	paramLimit.Required = false

	paramOffset := openapi3.NewQueryParameter("offset").WithDescription("Number of rows to skip before the returned page")
	paramOffset.Schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "number"}}
	paramOffset.Example = 0
	paramOffset.Required = false

	paramSortBy := openapi3.NewQueryParameter("sort_by").WithDescription("Field to order by, see the sort-fields endpoint for the allowed set")
	paramSortBy.Schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "string"}}
	paramSortBy.Example = "created_at"
	paramSortBy.Required = false

	// --- final spec
	op := openapi3.NewOperation()
	op.Tags = []string{"Cluster"}
	op.Summary = routeName
	op.OperationID = scopedSchemaName
	op.AddParameter(paramLimit)
	op.AddParameter(paramOffset)
	op.AddParameter(paramSortBy)

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
