package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	srv, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// post sends body to path and decodes the envelope. Data is left raw so
// each test can decode the payload it expects.
func post(t *testing.T, ts *httptest.Server, path string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

func TestParse(t *testing.T) {
	ts := newTestServer(t)

	status, env := post(t, ts, "/parse", QueryRequest{Query: "SELECT event FROM events"})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "true", string(env["success"]))

	var data struct {
		Statements []json.RawMessage `json:"statements"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &data))
	assert.Len(t, data.Statements, 1)
}

func TestParseScriptReportsEveryError(t *testing.T) {
	ts := newTestServer(t)

	status, env := post(t, ts, "/parse", QueryRequest{Query: "SELECT 1; SELECT 1 +; SELECT 2"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.JSONEq(t, "false", string(env["success"]))

	var diags []struct {
		Kind     string `json:"kind"`
		Position struct {
			Line   int `json:"line"`
			Column int `json:"column"`
		} `json:"position"`
	}
	require.NoError(t, json.Unmarshal(env["diagnostics"], &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, "ParseError", diags[0].Kind)
	assert.Equal(t, 0, diags[0].Position.Line)
	assert.Equal(t, 20, diags[0].Position.Column)

	var data struct {
		Statements []json.RawMessage `json:"statements"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &data))
	assert.Len(t, data.Statements, 2)
}

func TestFormat(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		req  QueryRequest
		want string
	}{
		{QueryRequest{Query: "select a from t where x = 1"}, "SELECT a FROM t WHERE (x = 1);"},
		{QueryRequest{Query: "a + b * c", Kind: KindExpr}, "(a + (b * c))"},
		{QueryRequest{Query: "SELECT 1 UNION ALL SELECT 2", Kind: KindSelect}, "SELECT 1 UNION ALL SELECT 2;"},
	}
	for _, tt := range tests {
		t.Run(tt.req.Query, func(t *testing.T) {
			status, env := post(t, ts, "/format", tt.req)
			require.Equal(t, http.StatusOK, status)

			var data FormatResponse
			require.NoError(t, json.Unmarshal(env["data"], &data))
			assert.Equal(t, tt.want, data.Formatted)
		})
	}
}

func TestExplain(t *testing.T) {
	ts := newTestServer(t)

	status, env := post(t, ts, "/explain", QueryRequest{Query: "x IS NULL", Kind: KindExpr})
	require.Equal(t, http.StatusOK, status)

	var data ExplainResponse
	require.NoError(t, json.Unmarshal(env["data"], &data))
	assert.Equal(t, "IsNull (children 1)\n Field x\n", data.Explain)
}

func TestFingerprint(t *testing.T) {
	ts := newTestServer(t)

	status, env := post(t, ts, "/fingerprint", QueryRequest{Query: "select * from t where id in (1, 2)"})
	require.Equal(t, http.StatusOK, status)

	var data FingerprintResponse
	require.NoError(t, json.Unmarshal(env["data"], &data))
	assert.Equal(t, "SELECT * FROM t WHERE id IN (?)", data.Fingerprint)
	assert.Len(t, data.Hash, 16)

	status, env = post(t, ts, "/fingerprint", QueryRequest{Query: "SELECT 'open"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env["diagnostics"]), "LexError")
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty query", QueryRequest{}},
		{"unknown kind", QueryRequest{Query: "SELECT 1", Kind: "table"}},
		{"not an object", []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := post(t, ts, "/parse", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, env["error"])
		})
	}
}
