package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skovmand/advent-of-code-2017/internal/api"
	"github.com/skovmand/advent-of-code-2017/internal/config"
	"github.com/skovmand/advent-of-code-2017/internal/engine"
)

const canonical = `pbga (66)
xhth (57)
ebii (61)
havc (66)
ktlj (57)
fwft (72) -> ktlj, cntj, xhth
qoyq (66)
padx (45) -> pbga, havc, qoyq
tknk (41) -> ugml, padx, fwft
jptl (61)
ugml (68) -> gyxo, ebii, jptl
gyxo (61)
cntj (57)`

type fixture struct {
	srv     *httptest.Server
	eng     *engine.Engine
	cfgPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1\nserver:\n  max_body_bytes: 4096\n"), 0o644))

	loader, err := config.NewLoader(path)
	require.NoError(t, err)
	cfg := loader.Config()

	eng := engine.New(context.Background(), cfg.Engine, cfg.Diagnostic, zap.NewNop())
	srv := httptest.NewServer(api.New(eng, loader, zap.NewNop()))
	t.Cleanup(func() {
		srv.Close()
		eng.Shutdown()
	})
	return &fixture{srv: srv, eng: eng, cfgPath: path}
}

func (f *fixture) post(t *testing.T, path, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestDiagnose_PlainText(t *testing.T) {
	f := newFixture(t)
	resp := f.post(t, "/v1/diagnose", "text/plain", canonical)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.NotEmpty(t, resp.Header.Get("X-Diagnostic-Id"))
	body := decode(t, resp)
	assert.Equal(t, "tknk", body["root"])
	assert.Equal(t, "ugml", body["target"])
	assert.Equal(t, float64(60), body["corrected_weight"])
}

func TestDiagnose_JSONBody(t *testing.T) {
	f := newFixture(t)
	payload, err := json.Marshal(map[string]string{"input": canonical, "source": "unit"})
	require.NoError(t, err)

	resp := f.post(t, "/v1/diagnose", "application/json", string(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ugml", decode(t, resp)["target"])
}

func TestDiagnose_TextFormat(t *testing.T) {
	f := newFixture(t)
	resp := f.post(t, "/v1/diagnose?format=text", "text/plain", canonical)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	var sb bytes.Buffer
	_, err := sb.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "corrected weight: 60")
}

func TestDiagnose_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		status int
		kind   string
	}{
		{"parse error", "foo 12", http.StatusBadRequest, "parse_error"},
		{"multiple roots", "a (1)\nb (2)", http.StatusBadRequest, "multiple_roots"},
		{"balanced", "r (1) -> a, b\na (1)\nb (1)", http.StatusUnprocessableEntity, "no_imbalance"},
		{"tie", "r (1) -> a, b, c, d\na (1)\nb (1)\nc (2)\nd (2)", http.StatusUnprocessableEntity, "undiagnosable"},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.post(t, "/v1/diagnose", "text/plain", tt.input)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.kind, decode(t, resp)["kind"])
		})
	}
}

func TestDiagnose_UnknownFormat(t *testing.T) {
	f := newFixture(t)
	resp := f.post(t, "/v1/diagnose?format=xml", "text/plain", canonical)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", decode(t, resp)["kind"])
}

func TestDiagnose_BodyTooLarge(t *testing.T) {
	f := newFixture(t)
	resp := f.post(t, "/v1/diagnose", "text/plain", strings.Repeat("a", 5000))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestDiagnoseBatch(t *testing.T) {
	f := newFixture(t)
	payload, err := json.Marshal([]map[string]string{
		{"input": canonical},
		{"input": "foo 12"},
	})
	require.NoError(t, err)

	resp := f.post(t, "/v1/diagnose/batch", "application/json", string(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Total   int `json:"total"`
		OK      int `json:"ok"`
		Failed  int `json:"failed"`
		Results []struct {
			Source  string `json:"source"`
			Outcome string `json:"outcome"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.OK)
	assert.Equal(t, 1, body.Failed)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "ok", body.Results[0].Outcome)
	assert.Equal(t, "parse_error", body.Results[1].Outcome)
	assert.Equal(t, "batch[1]", body.Results[1].Source)
}

func TestDiagnoseBatch_Rejects(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.post(t, "/v1/diagnose/batch", "application/json", "[]").StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.post(t, "/v1/diagnose/batch", "application/json", "{").StatusCode)

	many := make([]map[string]string, 101)
	for i := range many {
		many[i] = map[string]string{"input": "a (1)"}
	}
	payload, err := json.Marshal(many)
	require.NoError(t, err)
	// 101 tiny inputs stay under the body limit
	require.Less(t, len(payload), 4096)
	assert.Equal(t, http.StatusBadRequest, f.post(t, "/v1/diagnose/batch", "application/json", string(payload)).StatusCode)
}

func TestWeights(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/v1/weights", "text/plain", canonical)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all struct {
		Root  string `json:"root"`
		Nodes []struct {
			Name        string `json:"name"`
			TotalWeight int64  `json:"total_weight"`
		} `json:"nodes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Equal(t, "tknk", all.Root)
	assert.Len(t, all.Nodes, 13)

	resp = f.post(t, "/v1/weights?node=ugml", "text/plain", canonical)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	nodes := decode(t, resp)["nodes"].([]interface{})
	require.Len(t, nodes, 1)
	assert.Equal(t, float64(251), nodes[0].(map[string]interface{})["total_weight"])

	resp = f.post(t, "/v1/weights?node=nope", "text/plain", canonical)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "unknown_node", decode(t, resp)["kind"])
}

func TestWeights_Overflow(t *testing.T) {
	const input = "r (1) -> a, b, c\na (9223372036854775807) -> x\nx (9223372036854775807)\nb (5)\nc (5)"
	f := newFixture(t)

	for _, path := range []string{"/v1/weights", "/v1/weights?node=a", "/v1/diagnose"} {
		resp := f.post(t, path, "text/plain", input)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "weight_overflow", decode(t, resp)["kind"], path)
	}
}

func TestConfigReload(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, os.WriteFile(f.cfgPath, []byte("version: v1\ndiagnostic:\n  max_depth: 1\n"), 0o644))
	resp := f.post(t, "/v1/config/reload", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.eng.Options().MaxDepth)

	resp = f.post(t, "/v1/diagnose", "text/plain", canonical)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "depth_exceeded", decode(t, resp)["kind"])

	require.NoError(t, os.WriteFile(f.cfgPath, []byte("server: {}\n"), 0o644))
	resp = f.post(t, "/v1/config/reload", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 1, f.eng.Options().MaxDepth)
}

func TestShowConfig(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/v1/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, f.cfgPath, body["path"])
	assert.Equal(t, "v1", body["config"].(map[string]interface{})["version"])
}

func TestProbes(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(f.srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRequestID_Preserved(t *testing.T) {
	f := newFixture(t)
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
}
