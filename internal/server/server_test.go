package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/arbor-viz/arbor/pkg/errors"
	"github.com/arbor-viz/arbor/pkg/pipeline"
	"github.com/arbor-viz/arbor/pkg/state"
	"github.com/arbor-viz/arbor/pkg/store"
	"github.com/arbor-viz/arbor/pkg/tree"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(store.NewMemoryStore(), state.NewMemoryStore(), pipeline.NewRunner(nil, nil, logger), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sampleTreeJSON() string {
	return `{
		"name": "demo",
		"root": {
			"text": "A",
			"children": [
				{"text": "B"},
				{"text": "C", "children": [{"text": "D"}, {"text": "E"}]}
			]
		}
	}`
}

func createTree(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/trees", "application/json", strings.NewReader(sampleTreeJSON()))
	if err != nil {
		t.Fatalf("POST /api/trees: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/trees status = %d, want 201", resp.StatusCode)
	}
	var doc store.TreeDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	return doc.ID
}

func createSession(t *testing.T, ts *httptest.Server, treeID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"tree_id": %q}`, treeID)
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/sessions: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/sessions status = %d, want 201", resp.StatusCode)
	}
	var sess state.Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess.ID
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTreeLifecycle(t *testing.T) {
	ts := newTestServer(t)
	treeID := createTree(t, ts)

	resp, err := http.Get(ts.URL + "/api/trees/" + treeID)
	if err != nil {
		t.Fatalf("GET tree: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET tree status = %d, want 200", resp.StatusCode)
	}
	var doc store.TreeDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if doc.Name != "demo" {
		t.Errorf("Name = %q, want %q", doc.Name, "demo")
	}
	if got := tree.Count(doc.Root); got != 5 {
		t.Errorf("node count = %d, want 5", got)
	}

	listResp, err := http.Get(ts.URL + "/api/trees")
	if err != nil {
		t.Fatalf("GET trees: %v", err)
	}
	defer listResp.Body.Close()
	var docs []store.TreeDoc
	if err := json.NewDecoder(listResp.Body).Decode(&docs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("list length = %d, want 1", len(docs))
	}
}

func TestCreateTreeWithoutRoot(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/trees", "application/json",
		strings.NewReader(`{"name": "empty"}`))
	if err != nil {
		t.Fatalf("POST /api/trees: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var doc store.TreeDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if doc.Root.Text != tree.Placeholder().Text {
		t.Errorf("Root.Text = %q, want placeholder", doc.Root.Text)
	}
}

func TestGetMissingTree(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/trees/absent")
	if err != nil {
		t.Fatalf("GET tree: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != errors.ErrCodeTreeNotFound {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeTreeNotFound)
	}
}

func TestCreateSessionForMissingTree(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json",
		strings.NewReader(`{"tree_id": "absent"}`))
	if err != nil {
		t.Fatalf("POST session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)
	sessionID := createSession(t, ts, createTree(t, ts))

	resp, err := http.Get(ts.URL + "/api/sessions/" + sessionID + "/layout")
	if err != nil {
		t.Fatalf("GET layout: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body layoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(body.Layout.Nodes) != 5 || len(body.Layout.Edges) != 4 {
		t.Errorf("layout = (%d nodes, %d edges), want (5, 4)",
			len(body.Layout.Nodes), len(body.Layout.Edges))
	}
	root, ok := body.Layout.Node("n0")
	if !ok {
		t.Fatal("root missing from layout")
	}
	if root.Y != 90 {
		t.Errorf("root y = %v, want 90", root.Y)
	}
}

func TestToggleEndpoint(t *testing.T) {
	ts := newTestServer(t)
	sessionID := createSession(t, ts, createTree(t, ts))

	toggle := func() layoutResponse {
		resp, err := http.Post(ts.URL+"/api/sessions/"+sessionID+"/toggle/n0-1", "application/json", nil)
		if err != nil {
			t.Fatalf("POST toggle: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle status = %d, want 200", resp.StatusCode)
		}
		var body layoutResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode toggle response: %v", err)
		}
		return body
	}

	collapsed := toggle()
	if len(collapsed.Session.Collapsed) != 1 || collapsed.Session.Collapsed[0] != "n0-1" {
		t.Errorf("Collapsed = %v, want [n0-1]", collapsed.Session.Collapsed)
	}
	if len(collapsed.Layout.Nodes) != 3 {
		t.Errorf("collapsed layout has %d nodes, want 3", len(collapsed.Layout.Nodes))
	}
	root, _ := collapsed.Layout.Node("n0")
	if root.Y != 60 {
		t.Errorf("collapsed root y = %v, want 60", root.Y)
	}

	expanded := toggle()
	if len(expanded.Session.Collapsed) != 0 {
		t.Errorf("Collapsed = %v after second toggle, want empty", expanded.Session.Collapsed)
	}
	if len(expanded.Layout.Nodes) != 5 {
		t.Errorf("expanded layout has %d nodes, want 5", len(expanded.Layout.Nodes))
	}
}

func TestToggleUnknownNode(t *testing.T) {
	ts := newTestServer(t)
	sessionID := createSession(t, ts, createTree(t, ts))

	resp, err := http.Post(ts.URL+"/api/sessions/"+sessionID+"/toggle/n0-9", "application/json", nil)
	if err != nil {
		t.Fatalf("POST toggle: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != errors.ErrCodeNodeNotFound {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeNodeNotFound)
	}
}

func TestExportSVG(t *testing.T) {
	ts := newTestServer(t)
	sessionID := createSession(t, ts, createTree(t, ts))

	resp, err := http.Get(ts.URL + "/api/sessions/" + sessionID + "/export?format=svg")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("export body is not SVG")
	}
}

func TestExportBadFormat(t *testing.T) {
	ts := newTestServer(t)
	sessionID := createSession(t, ts, createTree(t, ts))

	resp, err := http.Get(ts.URL + "/api/sessions/" + sessionID + "/export?format=tiff")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestGetMissingSession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/absent")
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeSessionNotFound)
	}
}
