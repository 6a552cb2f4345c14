package handleruser

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/vantagecompute/vantage-api/internal/svc/identitysvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
)

type HandlerConfig struct {
	IdentityService identitysvc.Service `validate:"required"`
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

func tenantParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	tenant := strings.TrimSpace(chi.URLParam(r, "tenant"))
	if !utf8.ValidString(tenant) {
		err := fmt.Errorf("tenant '%s' is not valid utf8", tenant)
		resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
		respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
		return "", false
	}

	return tenant, true
}

type ListUsersResp struct {
	Users []httptyped.UserEntity `json:"users"`
}

// ListUsers list the human members of one organization, service accounts
// are already filtered out by the identity facade.
// Path     : GET /api/v1/organizations/{tenant}/users
// Response : ListUsersResp
func (h *Handler) ListUsers() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tenant, ok := tenantParam(w, r)
		if !ok {
			return
		}

		listOut, err := h.Config.IdentityService.ListUsers(ctx, identitysvc.InputListUsers{
			Tenant: tenant,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUpstream, err)
			respbuilder.WriteJSON(http.StatusBadGateway, w, r, resp)
			return
		}

		users := make([]httptyped.UserEntity, 0)
		for _, user := range listOut.Users {
			users = append(users, httptyped.UserEntityFromSvc(user))
		}

		respBody := ListUsersResp{Users: users}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type CountUsersResp struct {
	Total int `json:"total"`
}

// CountUsers report how many human members an organization has.
// Path     : GET /api/v1/organizations/{tenant}/users/count
// Response : CountUsersResp
func (h *Handler) CountUsers() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tenant, ok := tenantParam(w, r)
		if !ok {
			return
		}

		countOut, err := h.Config.IdentityService.CountUsers(ctx, identitysvc.InputCountUsers{
			Tenant: tenant,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUpstream, err)
			respbuilder.WriteJSON(http.StatusBadGateway, w, r, resp)
			return
		}

		respBody := CountUsersResp{Total: countOut.Total}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type DefaultClientResp struct {
	Client httptyped.ClientEntity `json:"client"`
}

// GetDefaultClient fetch the realm's default OAuth client.
// Path     : GET /api/v1/identity/default-client
// Response : DefaultClientResp
func (h *Handler) GetDefaultClient() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clientOut, err := h.Config.IdentityService.GetDefaultClient(ctx)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUpstream, err)
			respbuilder.WriteJSON(http.StatusBadGateway, w, r, resp)
			return
		}

		respBody := DefaultClientResp{
			Client: httptyped.ClientEntityFromSvc(clientOut.Client),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}
