package identitysvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/identitysvc"
)

func newKeycloak(t *testing.T, handler http.Handler) *identitysvc.KeycloakService {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := identitysvc.NewKeycloak(identitysvc.KeycloakServiceConfig{
		HTTP: resty.New().SetBaseURL(srv.URL),
	})
	require.NoError(t, err)
	return svc
}

func TestNewKeycloak(t *testing.T) {
	t.Run("missing http client", func(t *testing.T) {
		svc, err := identitysvc.NewKeycloak(identitysvc.KeycloakServiceConfig{})
		assert.Nil(t, svc)
		assert.Error(t, err)
	})
}

func TestKeycloak_ListUsers(t *testing.T) {
	t.Run("filters service accounts and mounts derived fields", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/admin/realms/vantage/organizations/acme/members", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"id":        "u1",
					"username":  "alice",
					"email":     "alice@example.com",
					"firstName": "Alice ",
					"lastName":  " Smith",
					"picture":   "https://idp/claim.png",
					"attributes": map[string][]string{
						"picture": {"https://idp/attr.png"},
					},
				},
				{
					"id":       "u2",
					"username": "service-account-default",
				},
				{
					"id":       "u3",
					"username": "bob",
					"email":    "bob@example.com",
				},
			})
		}))

		out, err := svc.ListUsers(context.Background(), identitysvc.InputListUsers{Tenant: "acme"})
		require.NoError(t, err)
		require.Len(t, out.Users, 2)

		alice := out.Users[0]
		assert.Equal(t, "Alice Smith", alice.Name)
		// attribute picture wins over the claim
		assert.Equal(t, "https://idp/attr.png", alice.AvatarURL)

		bob := out.Users[1]
		assert.Equal(t, "", bob.Name)
		assert.Equal(t, "", bob.AvatarURL)
	})

	t.Run("upstream error status", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := svc.ListUsers(context.Background(), identitysvc.InputListUsers{Tenant: "acme"})
		assert.Error(t, err)
	})

	t.Run("missing tenant", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		_, err := svc.ListUsers(context.Background(), identitysvc.InputListUsers{})
		assert.Error(t, err)
	})
}

func TestKeycloak_GetDefaultClient(t *testing.T) {
	t.Run("exactly one match", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/admin/realms/vantage/clients", r.URL.Path)
			assert.Equal(t, "default", r.URL.Query().Get("clientId"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": "c1", "clientId": "default", "name": "Default", "enabled": true},
			})
		}))

		out, err := svc.GetDefaultClient(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "c1", out.Client.ID)
		assert.Equal(t, "default", out.Client.ClientID)
		assert.True(t, out.Client.Enabled)
	})

	t.Run("zero matches is an upstream fault", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
		}))

		_, err := svc.GetDefaultClient(context.Background())
		assert.Error(t, err)
	})

	t.Run("multiple matches is an upstream fault", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": "c1", "clientId": "default"},
				{"id": "c2", "clientId": "default"},
			})
		}))

		_, err := svc.GetDefaultClient(context.Background())
		assert.Error(t, err)
	})
}

func TestKeycloak_CountUsers(t *testing.T) {
	t.Run("members minus clients", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/admin/realms/vantage/organizations/acme/members/count":
				_, _ = w.Write([]byte("5"))
			case "/admin/realms/vantage/clients":
				assert.Equal(t, "acme", r.URL.Query().Get("clientId"))
				assert.Equal(t, "true", r.URL.Query().Get("search"))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode([]map[string]interface{}{
					{"id": "c1", "clientId": "acme-agent"},
					{"id": "c2", "clientId": "acme-cli"},
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))

		out, err := svc.CountUsers(context.Background(), identitysvc.InputCountUsers{Tenant: "acme"})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Total)
	})

	t.Run("count is not a number", func(t *testing.T) {
		svc := newKeycloak(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not-a-number"))
		}))

		_, err := svc.CountUsers(context.Background(), identitysvc.InputCountUsers{Tenant: "acme"})
		assert.Error(t, err)
	})
}
