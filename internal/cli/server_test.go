package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := defaultConfig()
	cfg.Cache.Backend = backendNone
	svc, err := newService(context.Background(), cfg, false, newLogger(io.Discard, log.InfoLevel))
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	srv := httptest.NewServer(newRouter(svc))
	t.Cleanup(func() {
		srv.Close()
		svc.Close()
	})
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServerHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(headerRequestID) == "" {
		t.Error("response should carry a request id")
	}
}

func TestServerRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(headerRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want caller's id", got)
	}
}

func TestServerLayout(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/layout", `{"latex": "$x^2$", "font_size": 12}`)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var res struct {
		Latex   string          `json:"latex"`
		Mode    string          `json:"mode"`
		Display json.RawMessage `json:"display"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Mode != "inline" {
		t.Errorf("mode = %q, want inline", res.Mode)
	}
	if len(res.Display) == 0 || string(res.Display) == "null" {
		t.Error("display missing")
	}
}

func TestServerParseError(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/layout", `{"latex": "\\frac{1}{"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code == "" || body.Offset == nil || body.Message == "" {
		t.Errorf("error body = %+v", body)
	}
}

func TestServerBadRequest(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"latex":`},
		{"unknown field", `{"latex": "x", "colour": "red"}`},
		{"empty latex", `{"latex": "  "}`},
		{"bad mode", `{"latex": "x", "mode": "block"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/layout", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestServerRender(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/render", `{"latex": "\\sqrt{x}"}`)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestServerSerialize(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/serialize", `{"latex": "\\frac12"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out serializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Latex != `\frac{1}{2}` {
		t.Errorf("latex = %q", out.Latex)
	}
}
