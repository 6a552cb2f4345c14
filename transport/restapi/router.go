package restapi

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vantagecompute/vantage-api/assets"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/internal/svc/identitysvc"
	"github.com/vantagecompute/vantage-api/internal/svc/notebooksvc"
	"github.com/vantagecompute/vantage-api/internal/svc/queuesvc"
	"github.com/vantagecompute/vantage-api/internal/svc/subssvc"
	"github.com/vantagecompute/vantage-api/pkg/tracer"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/transport/graphqlapi"
	"github.com/vantagecompute/vantage-api/transport/restapi/handleragent"
	"github.com/vantagecompute/vantage-api/transport/restapi/handlercluster"
	"github.com/vantagecompute/vantage-api/transport/restapi/handlernotebook"
	"github.com/vantagecompute/vantage-api/transport/restapi/handlersub"
	"github.com/vantagecompute/vantage-api/transport/restapi/handleruser"
	"go.opentelemetry.io/otel"
)

type Config struct {
	AppServiceName      string               `validate:"required"`
	AppVersion          string               `validate:"required"`
	ClusterService      clustersvc.Service   `validate:"required"`
	NotebookService     notebooksvc.Service  `validate:"required"`
	QueueService        queuesvc.Service     `validate:"required"`
	CloudAccountService cloudacctsvc.Service `validate:"required"`
	IdentityService     identitysvc.Service  `validate:"required"`
	SubsService         subssvc.Service      `validate:"required"`
}

type DefaultHTTP struct {
	router *chi.Mux
}

func NewHTTPTransport(cfg Config) (*DefaultHTTP, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("http transport cfg error: %w", err)
	}

	// ** Cluster handler
	handlerCluster, err := handlercluster.NewHandler(handlercluster.HandlerConfig{
		ClusterService: cfg.ClusterService,
	})
	if err != nil {
		return nil, err
	}

	// ** Notebook server handler
	handlerNotebook, err := handlernotebook.NewHandler(handlernotebook.HandlerConfig{
		NotebookService: cfg.NotebookService,
	})
	if err != nil {
		return nil, err
	}

	// ** Agent handler (queue reports, cloud account api keys)
	handlerAgent, err := handleragent.NewHandler(handleragent.HandlerConfig{
		QueueService:        cfg.QueueService,
		CloudAccountService: cfg.CloudAccountService,
	})
	if err != nil {
		return nil, err
	}

	// ** Organization users handler
	handlerUser, err := handleruser.NewHandler(handleruser.HandlerConfig{
		IdentityService: cfg.IdentityService,
	})
	if err != nil {
		return nil, err
	}

	// ** Marketplace subscription handler
	handlerSub, err := handlersub.NewHandler(handlersub.HandlerConfig{
		SubsService: cfg.SubsService,
	})
	if err != nil {
		return nil, err
	}

	// ** GraphQL handler, read-only view over the same services
	gqlSchema, err := graphqlapi.NewSchema(graphqlapi.SchemaConfig{
		ClusterSvc:   cfg.ClusterService,
		CloudAcctSvc: cfg.CloudAccountService,
	})
	if err != nil {
		return nil, err
	}

	handlerGraphQL, err := graphqlapi.NewHandler(graphqlapi.HandlerConfig{
		Schema: gqlSchema,
	})
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	skip := func(r *http.Request) bool {
		switch strings.TrimSpace(path.Clean(r.URL.Path)) {
		case "/swaggerui",
			"/health",
			"/ping":
			return true
		}

		return false
	}

	router.Use(middleware.StripSlashes)

	router.Use(cors.Handler(cors.Options{
		// AllowedOrigins:   []string{"https://foo.com"}, // Use this to allow specific origin hosts
		AllowedOrigins: []string{"https://*", "http://*"},
		// AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	router.Use(func(next http.Handler) http.Handler {
		return tracer.Middleware(tracer.MiddlewareConfig{
			TracerName:     "github.com/vantagecompute/vantage-api",
			ServiceName:    assets.ServiceName,
			SkipFunc:       skip,
			TracerProvider: otel.GetTracerProvider(),    // global tracer provider
			TextPropagator: otel.GetTextMapPropagator(), // use global text map propagator
		}, next)
	})

	// add trace id and also log request response
	router.Use(func(next http.Handler) http.Handler {
		return requestLogger(skip, next)
	})

	// the embed FS root already carries the swaggerui/ prefix, serve as-is
	router.Mount("/", http.FileServer(http.FS(assets.SwaggerUI)))

	// Resource: clusters and everything scoped under one cluster
	router.Route("/api/v1/clusters", func(r chi.Router) {
		r.Post("/", handlerCluster.CreateCluster())
		r.Get("/", handlerCluster.ListClusters())
		r.Get("/sort-fields", handlerCluster.SortFields())
		r.Get("/{cluster_name}", handlerCluster.GetCluster())
		r.Put("/{cluster_name}/status", handlerCluster.UpdateClusterStatus())
		r.Delete("/{cluster_name}", handlerCluster.DelCluster())

		// notebook servers scheduled on the cluster
		r.Post("/{cluster_name}/notebooks", handlerNotebook.CreateNotebook())
		r.Get("/{cluster_name}/notebooks", handlerNotebook.ListNotebooks())
		r.Put("/{cluster_name}/notebooks/{notebook_name}/status", handlerNotebook.UpdateNotebookStatus())
		r.Delete("/{cluster_name}/notebooks/{notebook_name}", handlerNotebook.DelNotebook())

		// agent queue reports
		r.Put("/{cluster_name}/agent/queues", handlerAgent.PutQueueReport())
		r.Get("/{cluster_name}/agent/queues", handlerAgent.GetQueues())
	})

	// Resource: cloud account api keys
	router.Route("/api/v1/cloud-accounts", func(r chi.Router) {
		r.Post("/{cloud_account_id}/api-key", handlerAgent.CreateAPIKey())
		r.Get("/{cloud_account_id}/api-key", handlerAgent.GetAPIKey())
		r.Delete("/{cloud_account_id}/api-key", handlerAgent.DelAPIKey())
	})

	// Resource: organization members (identity provider facade)
	router.Route("/api/v1/organizations", func(r chi.Router) {
		r.Get("/{tenant}/users", handlerUser.ListUsers())
		r.Get("/{tenant}/users/count", handlerUser.CountUsers())
	})
	router.Get("/api/v1/identity/default-client", handlerUser.GetDefaultClient())

	// Resource: marketplace subscriptions
	router.Route("/api/v1/subscriptions", func(r chi.Router) {
		r.Post("/resolve", handlerSub.ResolveSubscription())
		r.Get("/entitlements", handlerSub.CheckEntitlements())
	})

	// GraphQL, single POST endpoint
	router.Post("/api/v1/graphql", handlerGraphQL.Query())

	instance := &DefaultHTTP{
		router: router,
	}

	return instance, nil
}

// Server .
func (a *DefaultHTTP) Server() http.Handler {
	return a.router
}
