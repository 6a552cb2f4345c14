package handlernotebook

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
	"github.com/vantagecompute/vantage-api/internal/svc/notebooksvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/pkg/sortfield"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
	"github.com/yusufsyaifudin/ylog"
)

type HandlerConfig struct {
	NotebookService notebooksvc.Service `validate:"required"`
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

	checker, err := httptyped.NotebookSortChecker()
	if err != nil {
		return nil, err
	}

	return &Handler{Config: conf, sortChecker: checker}, nil
}

func clusterNameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	clusterName := strings.TrimSpace(chi.URLParam(r, "cluster_name"))
	if !utf8.ValidString(clusterName) {
		err := fmt.Errorf("cluster name '%s' is not valid utf8", clusterName)
		resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
		respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
		return "", false
	}

	return clusterName, true
}

type CreateNotebookReq struct {
	Name          string `json:"name"`
	PartitionName string `json:"partition_name"`
	OwnerEmail    string `json:"owner_email"`
}

type CreateNotebookResp struct {
	NotebookServer httptyped.NotebookEntity `json:"notebook_server"`
}

// CreateNotebook schedule a notebook server on the cluster.
// Path         : POST /api/v1/clusters/{cluster_name}/notebooks
// Request Body : CreateNotebookReq
// Response     : CreateNotebookResp
func (h *Handler) CreateNotebook() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName, ok := clusterNameParam(w, r)
		if !ok {
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

		var reqBody CreateNotebookReq
		dec := json.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		createOut, err := h.Config.NotebookService.CreateNotebook(ctx, notebooksvc.InputCreateNotebook{
			ClusterName:   clusterName,
			PartitionName: reqBody.PartitionName,
			Name:          reqBody.Name,
			OwnerEmail:    reqBody.OwnerEmail,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		respBody := CreateNotebookResp{
			NotebookServer: httptyped.NotebookEntityFromSvc(createOut.NotebookServer),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusCreated, w, r, resp)
	}

	return handler
}

type ListNotebooksReq struct {
	Limit  int64  `schema:"limit"`
	Offset int64  `schema:"offset"`
	SortBy string `schema:"sort_by"`
}

type ListNotebooksResp struct {
	Total int64                      `json:"total"`
	Limit int64                      `json:"limit"`
	Items []httptyped.NotebookEntity `json:"items"`
}

// ListNotebooks list notebook servers on one cluster.
// Path          : GET /api/v1/clusters/{cluster_name}/notebooks
// Request Query : ListNotebooksReq
// Response      : ListNotebooksResp
func (h *Handler) ListNotebooks() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName, ok := clusterNameParam(w, r)
		if !ok {
			return
		}

		err := r.ParseForm()
		if err != nil {
			err = fmt.Errorf("failed parse form: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		query := ListNotebooksReq{}
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

		listOut, err := h.Config.NotebookService.ListNotebooks(ctx, notebooksvc.InputListNotebooks{
			ClusterName: clusterName,
			Limit:       query.Limit,
			Offset:      query.Offset,
			SortBy:      sortBy,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		notebooks := make([]httptyped.NotebookEntity, 0)
		for _, nb := range listOut.NotebookServers {
			notebooks = append(notebooks, httptyped.NotebookEntityFromSvc(nb))
		}

		respBody := ListNotebooksResp{
			Total: listOut.Total,
			Limit: listOut.Limit,
			Items: notebooks,
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type UpdateNotebookStatusReq struct {
	Status string `json:"status"`
}

type UpdateNotebookStatusResp struct {
	NotebookServer httptyped.NotebookEntity `json:"notebook_server"`
}

// UpdateNotebookStatus record the status the hub reports for a server.
// Path         : PUT /api/v1/clusters/{cluster_name}/notebooks/{notebook_name}/status
// Request Body : UpdateNotebookStatusReq
// Response     : UpdateNotebookStatusResp
func (h *Handler) UpdateNotebookStatus() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName, ok := clusterNameParam(w, r)
		if !ok {
			return
		}

		notebookName := strings.TrimSpace(chi.URLParam(r, "notebook_name"))

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

		var reqBody UpdateNotebookStatusReq
		dec := json.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		updateOut, err := h.Config.NotebookService.UpdateNotebookStatus(ctx, notebooksvc.InputUpdateNotebookStatus{
			ClusterName: clusterName,
			Name:        notebookName,
			Status:      reqBody.Status,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		respBody := UpdateNotebookStatusResp{
			NotebookServer: httptyped.NotebookEntityFromSvc(updateOut.NotebookServer),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type DelNotebookResp struct {
	Success bool `json:"success"`
}

// DelNotebook remove one notebook server.
// Path     : DELETE /api/v1/clusters/{cluster_name}/notebooks/{notebook_name}
// Response : DelNotebookResp
func (h *Handler) DelNotebook() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clusterName, ok := clusterNameParam(w, r)
		if !ok {
			return
		}

		notebookName := strings.TrimSpace(chi.URLParam(r, "notebook_name"))

		delOut, err := h.Config.NotebookService.DelNotebook(ctx, notebooksvc.InputDelNotebook{
			ClusterName: clusterName,
			Name:        notebookName,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if !delOut.Success {
			err = fmt.Errorf("notebook '%s' is not found on cluster '%s'", notebookName, clusterName)
			resp := respbuilder.Error(ctx, respbuilder.ErrResourceNotFound, err)
			respbuilder.WriteJSON(http.StatusNotFound, w, r, resp)
			return
		}

		respBody := DelNotebookResp{Success: delOut.Success}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}
