package genapidoc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/transport/restapi/handlercluster"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
)

// ClusterCreate
// POST /api/v1/clusters
func ClusterCreate(ctx context.Context, components openapi3.Components, path map[string]*openapi3.PathItem) {
	const scopedSchemaName = "ClusterCreate"
	const routeName = "Create New Cluster"
	const pathRoute = "/api/v1/clusters"

	// --- Request schema
	reqStruct := handlercluster.CreateClusterReq{
		Name:               "hpc-prod",
		ClientID:           "hpc-prod-client",
		Description:        "Production compute cluster",
		OwnerEmail:         "owner@example.com",
		Provider:           "aws",
		CreationParameters: json.RawMessage(`{"region":"us-east-1"}`),
	}

	// generate request
	outReq := MustNewSchemaGenerator(ctx, scopedSchemaName+".", reqStruct)
	reqSchemaName := outReq.ParentSchemaName
	for s, ref := range outReq.Schemas {
		components.Schemas[s] = ref
	}

	reqBody := openapi3.NewRequestBody()
	reqBody.WithJSONSchemaRef(&openapi3.SchemaRef{
		Ref: fmt.Sprintf("#/components/schemas/%s", reqSchemaName),
	})

	components.RequestBodies[scopedSchemaName] = &openapi3.RequestBodyRef{
		Value: reqBody,
	}

	// --- Response schema
	respStruct := handlercluster.CreateClusterResp{
		Cluster: httptyped.ClusterEntity{
			Name:       "hpc-prod",
			ClientID:   "hpc-prod-client",
			OwnerEmail: "owner@example.com",
			Status:     "CREATING",
			Provider:   "aws",
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		},
	}

	// generate response and add to components
	resp := respbuilder.Success(ctx, respStruct)
	outResp := MustNewSchemaGenerator(ctx, scopedSchemaName+".Resp201.", resp)
	for s, ref := range outResp.Schemas {
		components.Schemas[s] = ref
	}

	// --- final spec
	op := openapi3.NewOperation()
	op.Tags = []string{"Cluster"}
	op.Summary = routeName
	op.Description = "Will register a new Slurm cluster together with its partitions."
	op.OperationID = scopedSchemaName

	op.RequestBody = &openapi3.RequestBodyRef{
		Ref: fmt.Sprintf("#/components/requestBodies/%s", scopedSchemaName), // refer to generated name we define above
	}
	op.AddResponse(http.StatusCreated, openapi3.NewResponse().WithJSONSchemaRef(
		&openapi3.SchemaRef{
			Ref: fmt.Sprintf("#/components/schemas/%s", outResp.ParentSchemaName),
		},
	).WithDescription("desc"))

	_, exist := path[pathRoute]
	if !exist {
		path[pathRoute] = &openapi3.PathItem{}
	}

	path[pathRoute].Post = op
}
