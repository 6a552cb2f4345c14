// Package handleragent serves the endpoints the in-cluster agent talks to:
// scheduler queue reports and the cloud account API keys used to
// authenticate those agents.
package handleragent

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	segjson "github.com/segmentio/encoding/json"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/internal/svc/queuesvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
	"github.com/yusufsyaifudin/ylog"
)

type HandlerConfig struct {
	QueueService        queuesvc.Service     `validate:"required"`
	CloudAccountService cloudacctsvc.Service `validate:"required"`
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

type QueueReportReq struct {
	Queues []struct {
		Name string          `json:"name"`
		Info json.RawMessage `json:"info"`
	} `json:"queues"`
	AllInfo json.RawMessage `json:"all_info"`
}

type QueueReportResp struct {
	Accepted int `json:"accepted"`
}

// PutQueueReport ingest the periodic queue report an agent pushes. Rows
// are upserted concurrently, a partial failure comes back as an error.
// Path         : PUT /api/v1/clusters/{cluster_name}/agent/queues
// Request Body : QueueReportReq
// Response     : QueueReportResp
func (h *Handler) PutQueueReport() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName := strings.TrimSpace(chi.URLParam(r, "cluster_name"))
		if !utf8.ValidString(clusterName) {
			err := fmt.Errorf("cluster name '%s' is not valid utf8", clusterName)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if r.Body == nil {
			err := fmt.Errorf("request body is nil")
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		defer func() {
			if _err := r.Body.Close(); _err != nil {
				ylog.Error(ctx, "cannot close request body", ylog.KV("error", _err))
			}
		}()

		var reqBody QueueReportReq
		dec := segjson.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		ingestIn := queuesvc.InputIngestReport{
			ClusterName: clusterName,
			AllInfo:     reqBody.AllInfo,
		}
		for _, q := range reqBody.Queues {
			ingestIn.Queues = append(ingestIn.Queues, queuesvc.QueueReport{
				Name: q.Name,
				Info: q.Info,
			})
		}

		ingestOut, err := h.Config.QueueService.IngestReport(ctx, ingestIn)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		respBody := QueueReportResp{Accepted: ingestOut.Accepted}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type GetQueuesResp struct {
	Queues  []httptyped.QueueEntity `json:"queues"`
	AllInfo json.RawMessage         `json:"all_info,omitempty"`
}

// GetQueues serve the last reported queue state for one cluster. A cluster
// that never reported yields an empty list, not an error.
// Path     : GET /api/v1/clusters/{cluster_name}/agent/queues
// Response : GetQueuesResp
func (h *Handler) GetQueues() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName := strings.TrimSpace(chi.URLParam(r, "cluster_name"))
		if !utf8.ValidString(clusterName) {
			err := fmt.Errorf("cluster name '%s' is not valid utf8", clusterName)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		getOut, err := h.Config.QueueService.GetQueues(ctx, queuesvc.InputGetQueues{
			ClusterName: clusterName,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		queues := make([]httptyped.QueueEntity, 0)
		for _, q := range getOut.Queues {
			queues = append(queues, httptyped.QueueEntityFromSvc(q))
		}

		respBody := GetQueuesResp{
			Queues:  queues,
			AllInfo: getOut.AllInfo,
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type CreateAPIKeyReq struct {
	APIKey string `json:"api_key"`
}

type APIKeyResp struct {
	APIKey httptyped.CloudAccountKeyEntity `json:"api_key"`
}

// CreateAPIKey mint (or accept) an API key for one cloud account.
// Path         : POST /api/v1/cloud-accounts/{cloud_account_id}/api-key
// Request Body : CreateAPIKeyReq (api_key optional, generated when empty)
// Response     : APIKeyResp
func (h *Handler) CreateAPIKey() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cloudAccountID := strings.TrimSpace(chi.URLParam(r, "cloud_account_id"))
		if !utf8.ValidString(cloudAccountID) {
			err := fmt.Errorf("cloud account id '%s' is not valid utf8", cloudAccountID)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		var reqBody CreateAPIKeyReq
		if r.Body != nil {
			defer func() {
				if _err := r.Body.Close(); _err != nil {
					ylog.Error(ctx, "cannot close request body", ylog.KV("error", _err))
				}
			}()

			// empty body is fine, the key gets generated server side
			dec := segjson.NewDecoder(r.Body)
			if err := dec.Decode(&reqBody); err != nil && !errors.Is(err, io.EOF) {
				resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
				respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
				return
			}
		}

		createOut, err := h.Config.CloudAccountService.CreateKey(ctx, cloudacctsvc.InputCreateKey{
			CloudAccountID: cloudAccountID,
			APIKey:         reqBody.APIKey,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		respBody := APIKeyResp{
			APIKey: httptyped.CloudAccountKeyEntityFromSvc(createOut.APIKey),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusCreated, w, r, resp)
	}

	return handler
}

// GetAPIKey fetch the API key registered for one cloud account.
// Path     : GET /api/v1/cloud-accounts/{cloud_account_id}/api-key
// Response : APIKeyResp
func (h *Handler) GetAPIKey() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cloudAccountID := strings.TrimSpace(chi.URLParam(r, "cloud_account_id"))
		if !utf8.ValidString(cloudAccountID) {
			err := fmt.Errorf("cloud account id '%s' is not valid utf8", cloudAccountID)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		getOut, err := h.Config.CloudAccountService.GetKey(ctx, cloudacctsvc.InputGetKey{
			CloudAccountID: cloudAccountID,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrResourceNotFound, err)
			respbuilder.WriteJSON(http.StatusNotFound, w, r, resp)
			return
		}

		respBody := APIKeyResp{
			APIKey: httptyped.CloudAccountKeyEntityFromSvc(getOut.APIKey),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type DelAPIKeyResp struct {
	Success bool `json:"success"`
}

// DelAPIKey revoke the API key of one cloud account.
// Path     : DELETE /api/v1/cloud-accounts/{cloud_account_id}/api-key
// Response : DelAPIKeyResp
func (h *Handler) DelAPIKey() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cloudAccountID := strings.TrimSpace(chi.URLParam(r, "cloud_account_id"))
		if !utf8.ValidString(cloudAccountID) {
			err := fmt.Errorf("cloud account id '%s' is not valid utf8", cloudAccountID)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		delOut, err := h.Config.CloudAccountService.DelKey(ctx, cloudacctsvc.InputDelKey{
			CloudAccountID: cloudAccountID,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if !delOut.Success {
			err = fmt.Errorf("cloud account '%s' has no api key", cloudAccountID)
			resp := respbuilder.Error(ctx, respbuilder.ErrResourceNotFound, err)
			respbuilder.WriteJSON(http.StatusNotFound, w, r, resp)
			return
		}

		respBody := DelAPIKeyResp{Success: delOut.Success}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}
