package handlersub

import (
	"fmt"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
	"github.com/vantagecompute/vantage-api/internal/svc/subssvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/transport/restapi/httptyped"
	"github.com/yusufsyaifudin/ylog"
)

type HandlerConfig struct {
	SubsService subssvc.Service `validate:"required"`
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

type ResolveSubscriptionReq struct {
	RegistrationToken string `json:"registration_token"`
}

type ResolveSubscriptionResp struct {
	Subscription httptyped.SubscriptionEntity `json:"subscription"`
}

// ResolveSubscription exchange the registration token the marketplace
// posts on a fresh subscription for the customer identity behind it.
// Errors from the broker come back as-is, there is no retry here.
// Path         : POST /api/v1/subscriptions/resolve
// Request Body : ResolveSubscriptionReq
// Response     : ResolveSubscriptionResp
func (h *Handler) ResolveSubscription() func(http.ResponseWriter, *http.Request) {
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

		var reqBody ResolveSubscriptionReq
		dec := json.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		resolveOut, err := h.Config.SubsService.ResolveSubscription(ctx, subssvc.InputResolveSubscription{
			RegistrationToken: reqBody.RegistrationToken,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUpstream, err)
			respbuilder.WriteJSON(http.StatusBadGateway, w, r, resp)
			return
		}

		respBody := ResolveSubscriptionResp{
			Subscription: httptyped.SubscriptionEntity{
				CustomerIdentifier: resolveOut.CustomerIdentifier,
				ProductCode:        resolveOut.ProductCode,
			},
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type CheckEntitlementsReq struct {
	ProductCode        string `schema:"product_code"`
	CustomerIdentifier string `schema:"customer_identifier"`
}

type CheckEntitlementsResp struct {
	Entitled     bool                          `json:"entitled"`
	Entitlements []httptyped.EntitlementEntity `json:"entitlements"`
}

// CheckEntitlements ask the marketplace what a customer is entitled to.
// Path          : GET /api/v1/subscriptions/entitlements
// Request Query : CheckEntitlementsReq
// Response      : CheckEntitlementsResp
func (h *Handler) CheckEntitlements() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		err := r.ParseForm()
		if err != nil {
			err = fmt.Errorf("failed parse form: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		query := CheckEntitlementsReq{}
		queryDec := schema.NewDecoder()
		err = queryDec.Decode(&query, r.Form)
		if err != nil {
			err = fmt.Errorf("failed decode query params: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		checkOut, err := h.Config.SubsService.CheckEntitlements(ctx, subssvc.InputCheckEntitlements{
			ProductCode:        query.ProductCode,
			CustomerIdentifier: query.CustomerIdentifier,
		})
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrUpstream, err)
			respbuilder.WriteJSON(http.StatusBadGateway, w, r, resp)
			return
		}

		entitlements := make([]httptyped.EntitlementEntity, 0)
		for _, ent := range checkOut.Entitlements {
			entitlements = append(entitlements, httptyped.EntitlementEntityFromSvc(ent))
		}

		respBody := CheckEntitlementsResp{
			Entitled:     checkOut.Entitled,
			Entitlements: entitlements,
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}
