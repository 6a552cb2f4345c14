package graphqlapi

import (
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/segmentio/encoding/json"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/yusufsyaifudin/ylog"
)

type HandlerConfig struct {
	Schema graphql.Schema `validate:"required"`
}

type Handler struct {
	Config HandlerConfig
}

func NewHandler(conf HandlerConfig) (*Handler, error) {
	err := validator.Validate(conf)
	if err != nil {
		return nil, err
	}

	return &Handler{Config: conf}, nil
}

type QueryReq struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Query executes a GraphQL request against the cluster schema.
// Path         : POST /api/v1/graphql
// Request Body : QueryReq
// Response     : graphql.Result (bare, not wrapped in the common envelope)
func (h *Handler) Query() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.Body == nil {
			err := fmt.Errorf("request body is nil")
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		defer func() {
			if _err := r.Body.Close(); _err != nil {
				ylog.Error(ctx, "error closing request body", ylog.KV("error", _err))
			}
		}()

		var reqBody QueryReq
		dec := json.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if reqBody.Query == "" {
			err = fmt.Errorf("query must not be empty")
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         h.Config.Schema,
			RequestString:  reqBody.Query,
			VariableValues: reqBody.Variables,
			OperationName:  reqBody.OperationName,
			Context:        ctx,
		})

		// hide the "relation not set" noise before the result goes out
		MaskResult(result)

		// GraphQL keeps transport-level success even when the result
		// carries field errors, the errors list is part of the payload
		respbuilder.WriteJSON(http.StatusOK, w, r, result)
	}

	return handler
}
