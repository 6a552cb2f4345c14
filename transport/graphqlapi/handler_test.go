package graphqlapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/pkg/respbuilder"
	"github.com/vantagecompute/vantage-api/transport/graphqlapi"
)

func newHandler(t *testing.T) http.HandlerFunc {
	schema := newSchema(t, &fakeCloudAcctSvc{keys: map[string]cloudacctsvc.APIKey{
		"acct-1": {ID: "11111111-1111-1111-1111-111111111111", CloudAccountID: "acct-1"},
	}})

	h, err := graphqlapi.NewHandler(graphqlapi.HandlerConfig{Schema: schema})
	require.NoError(t, err)
	return h.Query()
}

func doQuery(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/graphql", strings.NewReader(body))
	req = req.WithContext(respbuilder.Inject(req.Context(), respbuilder.Tracer{AppTraceID: "test-trace"}))

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandlerQuery(t *testing.T) {
	handler := newHandler(t)

	t.Run("invalid json", func(t *testing.T) {
		rec := doQuery(t, handler, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty query", func(t *testing.T) {
		rec := doQuery(t, handler, `{"query": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("absent relation errors removed from payload", func(t *testing.T) {
		rec := doQuery(t, handler, `{"query": "{ cluster(name: \"hpc1\") { name cloudAccount { cloudAccountId } } }"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data   map[string]interface{} `json:"data"`
			Errors []interface{}          `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Errors)

		cluster, ok := resp.Data["cluster"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "hpc1", cluster["name"])
		assert.Nil(t, cluster["cloudAccount"])
	})

	t.Run("variables are passed through", func(t *testing.T) {
		rec := doQuery(t, handler, `{"query": "query ($n: String!) { cluster(name: $n) { clientId } }", "variables": {"n": "hpc2"}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		cluster, ok := resp.Data["cluster"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "hpc2client", cluster["clientId"])
	})
}
