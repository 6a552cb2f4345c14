package handlercluster

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	segjson "github.com/segmentio/encoding/json"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/pkg/sortfield"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
	"github.com/yusufsyaifudin/ylog"
)

type HandlerConfig struct {
	ClusterService clustersvc.Service `validate:"required"`
}

type Handler struct {
	Config      HandlerConfig
	sortChecker *sortfield.Checker
}

func NewHandler(conf HandlerConfig) (*Handler, error) {
	err := validator.Validate(conf)
	if err != nil {
		return nil, err
	}

	checker, err := httptyped.ClusterSortChecker()
	if err != nil {
		return nil, err
	}

	return &Handler{Config: conf, sortChecker: checker}, nil
}

type CreateClusterReq struct {
	Name               string          `json:"name"`
	ClientID           string          `json:"client_id"`
	Description        string          `json:"description"`
	OwnerEmail         string          `json:"owner_email"`
	Provider           string          `json:"provider"`
	CreationParameters json.RawMessage `json:"creation_parameters"`
	CloudAccountID     string          `json:"cloud_account_id"`
	Partitions         []struct {
		Name      string          `json:"name"`
		NodeCount int             `json:"node_count"`
		Config    json.RawMessage `json:"config"`
	} `json:"partitions"`
}

type CreateClusterResp struct {
	Cluster httptyped.ClusterEntity `json:"cluster"`
}

// CreateCluster registers a new cluster with its partitions.
// Path         : POST /api/v1/clusters
// Request Body : CreateClusterReq
// Response     : CreateClusterResp
func (h *Handler) CreateCluster() func(http.ResponseWriter, *http.Request) {
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
				ylog.Error(ctx, "cannot close request body", ylog.KV("error", _err))
			}
		}()

		var reqBody CreateClusterReq
		dec := segjson.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		createIn := clustersvc.InputCreateCluster{
			Name:               reqBody.Name,
			ClientID:           reqBody.ClientID,
			Description:        reqBody.Description,
			OwnerEmail:         reqBody.OwnerEmail,
			Provider:           reqBody.Provider,
			CreationParameters: reqBody.CreationParameters,
			CloudAccountID:     reqBody.CloudAccountID,
		}
		for _, p := range reqBody.Partitions {
			createIn.Partitions = append(createIn.Partitions, clustersvc.InputPartition{
				Name:      p.Name,
				NodeCount: p.NodeCount,
				Config:    p.Config,
			})
		}

		createOut, err := h.Config.ClusterService.CreateCluster(ctx, createIn)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		respBody := CreateClusterResp{
			Cluster: httptyped.ClusterEntityFromSvc(createOut.Cluster),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusCreated, w, r, resp)
	}

	return handler
}

type GetClusterResp struct {
	Cluster httptyped.ClusterEntity `json:"cluster"`
}

// GetCluster fetch one cluster with its partitions.
// Path     : GET /api/v1/clusters/{cluster_name}
// Response : GetClusterResp
func (h *Handler) GetCluster() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName := strings.TrimSpace(chi.URLParam(r, "cluster_name"))
		if !utf8.ValidString(clusterName) {
			err := fmt.Errorf("cluster name '%s' is not valid utf8", clusterName)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		getOut, err := h.Config.ClusterService.GetCluster(ctx, clustersvc.InputGetCluster{
			Name: clusterName,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrResourceNotFound, err)
			respbuilder.WriteJSON(http.StatusNotFound, w, r, resp)
			return
		}

		respBody := GetClusterResp{
			Cluster: httptyped.ClusterEntityFromSvc(getOut.Cluster),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type ListClustersReq struct {
	Limit  int64  `schema:"limit"`
	Offset int64  `schema:"offset"`
	SortBy string `schema:"sort_by"`
}

type ListClustersResp struct {
	Total int64                     `json:"total"`
	Limit int64                     `json:"limit"`
	Items []httptyped.ClusterEntity `json:"items"`
}

// ListClusters list clusters, sortable by the fields the response declares.
// Path          : GET /api/v1/clusters
// Request Query : ListClustersReq
// Response      : ListClustersResp
func (h *Handler) ListClusters() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		err := r.ParseForm()
		if err != nil {
			err = fmt.Errorf("failed parse form: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		query := ListClustersReq{}
		queryDec := schema.NewDecoder()
		err = queryDec.Decode(&query, r.Form)
		if err != nil {
			err = fmt.Errorf("failed decode query params: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		sortBy, err := h.sortChecker.Check(query.SortBy)
		if err != nil {
			err = fmt.Errorf("%w, available fields: %s", err, strings.Join(h.sortChecker.AvailableFields(), ", "))
			resp := respbuilder.Error(ctx, respbuilder.ErrUnprocessable, err)
			respbuilder.WriteJSON(http.StatusUnprocessableEntity, w, r, resp)
			return
		}

		listOut, err := h.Config.ClusterService.ListClusters(ctx, clustersvc.InputListClusters{
			Limit:  query.Limit,
			Offset: query.Offset,
			SortBy: sortBy,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		clusters := make([]httptyped.ClusterEntity, 0)
		for _, cluster := range listOut.Clusters {
			clusters = append(clusters, httptyped.ClusterEntityFromSvc(cluster))
		}

		respBody := ListClustersResp{
			Total: listOut.Total,
			Limit: listOut.Limit,
			Items: clusters,
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type SortFieldsResp struct {
	AvailableFields []string `json:"available_fields"`
	ExcludedFields  []string `json:"excluded_fields"`
}

// SortFields report which fields a list request may sort by.
// Path     : GET /api/v1/clusters/sort-fields
// Response : SortFieldsResp
func (h *Handler) SortFields() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		respBody := SortFieldsResp{
			AvailableFields: h.sortChecker.AvailableFields(),
			ExcludedFields:  h.sortChecker.ExcludedFields(),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type UpdateClusterStatusReq struct {
	Status string `json:"status"`
}

type UpdateClusterStatusResp struct {
	Cluster httptyped.ClusterEntity `json:"cluster"`
}

// UpdateClusterStatus move the cluster through its lifecycle.
// Path         : PUT /api/v1/clusters/{cluster_name}/status
// Request Body : UpdateClusterStatusReq
// Response     : UpdateClusterStatusResp
func (h *Handler) UpdateClusterStatus() func(http.ResponseWriter, *http.Request) {
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

		var reqBody UpdateClusterStatusReq
		dec := segjson.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		updateOut, err := h.Config.ClusterService.UpdateClusterStatus(ctx, clustersvc.InputUpdateClusterStatus{
			Name:   clusterName,
			Status: reqBody.Status,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		respBody := UpdateClusterStatusResp{
			Cluster: httptyped.ClusterEntityFromSvc(updateOut.Cluster),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type DelClusterResp struct {
	Success bool `json:"success"`
}

// DelCluster remove one cluster, its partitions, notebooks and queue rows
// go with it through the schema cascade.
// Path     : DELETE /api/v1/clusters/{cluster_name}
// Response : DelClusterResp
func (h *Handler) DelCluster() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName := strings.TrimSpace(chi.URLParam(r, "cluster_name"))
		if !utf8.ValidString(clusterName) {
			err := fmt.Errorf("cluster name '%s' is not valid utf8", clusterName)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		delOut, err := h.Config.ClusterService.DelCluster(ctx, clustersvc.InputDelCluster{
			Name: clusterName,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if !delOut.Success {
			err = fmt.Errorf("cluster '%s' is not found", clusterName)
			resp := respbuilder.Error(ctx, respbuilder.ErrResourceNotFound, err)
			respbuilder.WriteJSON(http.StatusNotFound, w, r, resp)
			return
		}

		respBody := DelClusterResp{Success: delOut.Success}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}
