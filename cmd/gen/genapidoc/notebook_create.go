package genapidoc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/transport/restapi/handlernotebook"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
)

// NotebookCreate
// POST /api/v1/clusters/{cluster_name}/notebooks
func NotebookCreate(ctx context.Context, components openapi3.Components, path map[string]*openapi3.PathItem) {
	const scopedSchemaName = "NotebookCreate"
	const routeName = "Create New Notebook Server"
	const pathRoute = "/api/v1/clusters/{cluster_name}/notebooks"

	// --- Request schema
	reqStruct := handlernotebook.CreateNotebookReq{
		Name:          "experiments",
		PartitionName: "compute",
		OwnerEmail:    "owner@example.com",
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
	respStruct := handlernotebook.CreateNotebookResp{
		NotebookServer: httptyped.NotebookEntity{
			ID:            123,
			ClusterName:   "hpc-prod",
			PartitionName: "compute",
			Name:          "experiments",
			OwnerEmail:    "owner@example.com",
			Status:        "PENDING",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		},
	}

	// generate response and add to components
	resp := respbuilder.Success(ctx, respStruct)
	outResp := MustNewSchemaGenerator(ctx, scopedSchemaName+".Resp201.", resp)
	for s, ref := range outResp.Schemas {
		components.Schemas[s] = ref
	}

	// --- params
	paramClusterName := openapi3.NewPathParameter("cluster_name").WithDescription("Cluster the notebook server runs on")
	paramClusterName.Schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "string"}}
	paramClusterName.Example = "hpc-prod"

	// --- final spec
	op := openapi3.NewOperation()
	op.Tags = []string{"Notebook"}
	op.Summary = routeName
	op.Description = "Will schedule a notebook server on one of the cluster partitions."
	op.OperationID = scopedSchemaName
	op.AddParameter(paramClusterName)

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
