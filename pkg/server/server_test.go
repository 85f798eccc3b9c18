package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/server"
	"github.com/goliatone/go-urlform/pkg/testsupport"
)

const widgetDefaultsURL = "https://widgets.example.test/embed?t=Hello+world&limit=5&theme=false&accent=%23ff8800&r=8"

type payload struct {
	SessionID  string `json:"sessionId"`
	StatusText string `json:"statusText"`
	CountText  string `json:"countText"`
	Frame      struct {
		Op             string `json:"op"`
		BaseURL        string `json:"baseUrl"`
		Error          string `json:"error"`
		PreviewURL     string `json:"previewUrl"`
		PreviewUpdated bool   `json:"previewUpdated"`
		LivePreview    bool   `json:"livePreview"`
		Result         struct {
			URL        string `json:"url"`
			Status     string `json:"status"`
			ParamCount int    `json:"paramCount"`
		} `json:"result"`
	} `json:"frame"`
}

func newServer(t *testing.T, opts ...server.Option) *server.Server {
	t.Helper()
	srv, err := server.New(testsupport.MustLoadSchema(t, "widget.json"), opts...)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *server.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func createSession(t *testing.T, srv *server.Server) payload {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", rec.Code, rec.Body.String())
	}
	return decode[payload](t, rec)
}

func TestNew_RequiresSchema(t *testing.T) {
	if _, err := server.New(nil); !errors.Is(err, server.ErrNoSchema) {
		t.Fatalf("expected ErrNoSchema, got %v", err)
	}
}

func TestNew_RejectsUnknownTheme(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")
	if _, err := server.New(sch, server.WithThemes(nil, "missing", "")); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestIndex_RendersFreshSession(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("content type = %q", got)
	}
	body := rec.Body.String()
	match := regexp.MustCompile(`data-session="([0-9a-f-]{36})"`).FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("expected a session id in page\n%s", body)
	}
	if !strings.Contains(body, `data-api="/api/sessions/`+match[1]+`"`) {
		t.Fatalf("expected api path for session")
	}
	if !strings.Contains(body, strings.ReplaceAll(widgetDefaultsURL, "&", "&amp;")) {
		t.Fatalf("expected compiled default URL in page")
	}

	rec = do(t, srv, http.MethodGet, "/api/sessions/"+match[1], "")
	if rec.Code != http.StatusOK {
		t.Fatalf("session lookup status %d", rec.Code)
	}

	second := regexp.MustCompile(`data-session="([0-9a-f-]{36})"`).FindStringSubmatch(do(t, srv, http.MethodGet, "/", "").Body.String())
	if second == nil || second[1] == match[1] {
		t.Fatalf("expected every page load to open a new session")
	}
}

func TestIndex_JSONFormatNegotiatesLocale(t *testing.T) {
	srv := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/?format=json", nil)
	req.Header.Set("Accept-Language", "fr-FR, es-AR;q=0.8, en;q=0.5")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	got := decode[payload](t, rec)
	if got.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if got.StatusText != "Listo" || got.CountText != "5 parametros" {
		t.Fatalf("expected spanish strings, got %q %q", got.StatusText, got.CountText)
	}
}

func TestIndex_UnknownFormat(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/?format=pdf", "")
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSessionAPI_EditFlow(t *testing.T) {
	srv := newServer(t)
	created := createSession(t, srv)
	api := "/api/sessions/" + created.SessionID

	if created.Frame.Result.URL != widgetDefaultsURL {
		t.Fatalf("initial url = %q", created.Frame.Result.URL)
	}
	if created.Frame.Result.Status != "ready" || created.Frame.Result.ParamCount != 5 {
		t.Fatalf("unexpected initial result %+v", created.Frame.Result)
	}

	rec := do(t, srv, http.MethodPut, api+"/fields/dark", `{"value": true}`)
	got := decode[payload](t, rec)
	if !strings.Contains(got.Frame.Result.URL, "theme=true") {
		t.Fatalf("switch edit not compiled: %q", got.Frame.Result.URL)
	}

	rec = do(t, srv, http.MethodPut, api+"/fields/radius", `{"value": "13"}`)
	got = decode[payload](t, rec)
	if !strings.HasSuffix(got.Frame.Result.URL, "&r=14") {
		t.Fatalf("range edit not snapped: %q", got.Frame.Result.URL)
	}
	if !got.Frame.PreviewUpdated || got.Frame.PreviewURL != got.Frame.Result.URL+"&preview=true" {
		t.Fatalf("expected live preview, got %q", got.Frame.PreviewURL)
	}

	rec = do(t, srv, http.MethodPut, api+"/fields/limit", `{"value": "lots"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rejected edit status %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPut, api+"/fields/missing", `{"value": "1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown field status %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPut, api+"/fields/limit", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing value status %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPut, api+"/base", `{"value": "   "}`)
	got = decode[payload](t, rec)
	if got.Frame.Result.Status != "missing_base" || got.Frame.Result.URL != "" {
		t.Fatalf("expected missing base, got %+v", got.Frame.Result)
	}
	if got.StatusText != "Missing base URL" {
		t.Fatalf("status text = %q", got.StatusText)
	}

	// Reset restores field values only; the base text is kept.
	rec = do(t, srv, http.MethodPost, api+"/reset", "")
	got = decode[payload](t, rec)
	if got.Frame.Op != "reset" || got.Frame.Result.Status != "missing_base" {
		t.Fatalf("reset with blank base: %+v", got.Frame)
	}

	do(t, srv, http.MethodPut, api+"/base", `{"value": "https://widgets.example.test/embed"}`)
	rec = do(t, srv, http.MethodPost, api+"/reset", "")
	got = decode[payload](t, rec)
	if got.Frame.Result.URL != widgetDefaultsURL || got.Frame.Op != "reset" {
		t.Fatalf("reset mismatch: %+v", got.Frame)
	}
}

func TestSessionAPI_LiveToggle(t *testing.T) {
	srv := newServer(t)
	api := "/api/sessions/" + createSession(t, srv).SessionID

	got := decode[payload](t, do(t, srv, http.MethodPut, api+"/live", `{"enabled": false}`))
	if got.Frame.LivePreview || got.Frame.PreviewUpdated {
		t.Fatalf("expected live preview off without update, got %+v", got.Frame)
	}

	got = decode[payload](t, do(t, srv, http.MethodPut, api+"/fields/title", `{"value": "Changed"}`))
	if got.Frame.PreviewUpdated || strings.Contains(got.Frame.PreviewURL, "Changed") {
		t.Fatalf("preview should stay stale, got %q", got.Frame.PreviewURL)
	}

	got = decode[payload](t, do(t, srv, http.MethodPost, api+"/preview", ""))
	if !got.Frame.PreviewUpdated || !strings.Contains(got.Frame.PreviewURL, "t=Changed") {
		t.Fatalf("refresh should force the preview, got %+v", got.Frame)
	}

	rec := do(t, srv, http.MethodPut, api+"/live", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing enabled status %d", rec.Code)
	}
}

func TestSessionAPI_UnknownAndDeletedSessions(t *testing.T) {
	srv := newServer(t)
	if rec := do(t, srv, http.MethodGet, "/api/sessions/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session status %d", rec.Code)
	}
	api := "/api/sessions/" + createSession(t, srv).SessionID
	if rec := do(t, srv, http.MethodDelete, api, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, api, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted session status %d", rec.Code)
	}
}

func TestSessionAPI_CapEvictsOldest(t *testing.T) {
	srv := newServer(t, server.WithMaxSessions(2))
	first := createSession(t, srv).SessionID
	time.Sleep(time.Millisecond)
	second := createSession(t, srv).SessionID
	time.Sleep(time.Millisecond)
	createSession(t, srv)

	if rec := do(t, srv, http.MethodGet, "/api/sessions/"+first, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected oldest session evicted, got %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/sessions/"+second, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected newer session kept, got %d", rec.Code)
	}
}

func TestCompileEndpoint(t *testing.T) {
	srv := newServer(t)

	type compileBody struct {
		URL        string `json:"url"`
		Status     string `json:"status"`
		ParamCount int    `json:"paramCount"`
		StatusText string `json:"statusText"`
		PreviewURL string `json:"previewUrl"`
		Error      string `json:"error"`
	}

	got := decode[compileBody](t, do(t, srv, http.MethodGet, "/api/compile?dark=on&radius=13&preview=1", ""))
	want := compileBody{
		URL:        "https://widgets.example.test/embed?t=Hello+world&limit=5&theme=true&accent=%23ff8800&r=14",
		Status:     "ready",
		ParamCount: 5,
		StatusText: "Ready",
		PreviewURL: "https://widgets.example.test/embed?t=Hello+world&limit=5&theme=true&accent=%23ff8800&r=14&preview=true",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("compile mismatch (-want +got):\n%s", diff)
	}

	got = decode[compileBody](t, do(t, srv, http.MethodGet, "/api/compile?base=/local/path?x=1", ""))
	if got.URL != "http://example.com/local/path?x=1&t=Hello+world&limit=5&theme=false&accent=%23ff8800&r=8" {
		t.Fatalf("relative base not resolved against request: %q", got.URL)
	}

	got = decode[compileBody](t, do(t, srv, http.MethodGet, "/api/compile?base=http://%5B::1", ""))
	if got.Status != "invalid_base" || got.URL != "" || got.Error == "" {
		t.Fatalf("expected invalid base, got %+v", got)
	}

	if rec := do(t, srv, http.MethodGet, "/api/compile?limit=many", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad override status %d", rec.Code)
	}
}

func TestCompileEndpoint_QueryKeys(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/compile?nope=1&dark=on", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown key status %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `unknown field \"nope\"`) {
		t.Fatalf("unknown key not named: %s", body)
	}

	sch := testsupport.MustSchema(t, "https://x.test/",
		schema.Field{ID: "base", Type: schema.FieldText, Param: "b", Default: schema.String("kept")},
	)
	srv, err := server.New(sch)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	type compileBody struct {
		URL string `json:"url"`
	}
	got := decode[compileBody](t, do(t, srv, http.MethodGet, "/api/compile?base=https://y.test/", ""))
	if got.URL != "https://y.test/?b=kept" {
		t.Fatalf("reserved key overrode a field: %q", got.URL)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/schema", "")
	var body struct {
		App struct {
			Title string `json:"title"`
		} `json:"app"`
		Sections []struct {
			Title  string `json:"title"`
			Fields []struct {
				ID      string `json:"id"`
				Default any    `json:"default"`
			} `json:"fields"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.App.Title != "Widget configurator" || len(body.Sections) != 2 {
		t.Fatalf("unexpected schema body %s", rec.Body.String())
	}
	if got := body.Sections[1].Fields[2].Default; got != float64(8) {
		t.Fatalf("radius default = %v", got)
	}
}

func TestHealthAndAssets(t *testing.T) {
	srv := newServer(t)
	if rec := do(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
	rec := do(t, srv, http.MethodGet, "/assets/app.js", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "EventSource") {
		t.Fatalf("asset: %d", rec.Code)
	}
}

func TestEvents_StreamSchemaReload(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}

	reader := bufio.NewReader(resp.Body)
	if line, _ := reader.ReadString('\n'); !strings.HasPrefix(line, ": connected") {
		t.Fatalf("unexpected greeting %q", line)
	}

	replacement, err := schema.New(schema.AppInfo{Title: "Replaced"}, schema.BaseConfig{Default: "https://x.test/"}, []schema.Section{{
		Title:  "Only",
		Fields: []schema.Field{{ID: "q", Type: schema.FieldText, Param: "q"}},
	}})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	srv.SetSchema(replacement)

	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	want := []string{"event: schema", `data: {"fields":1,"title":"Replaced"}`}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
	if got := createSession(t, srv).Frame.Result.URL; got != "https://x.test/?q=" {
		t.Fatalf("new sessions should use the reloaded schema, got %q", got)
	}
}

func TestWatch_ReloadsSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	raw, err := os.ReadFile(testsupport.FixturePath("widget.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	srv := newServer(t)
	load := func(context.Context) (*schema.Schema, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return schema.ParseBytes(data, path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Watch(ctx, path, load) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch: %v", err)
		}
	}()

	waitFor(t, func() bool {
		return strings.Contains(do(t, srv, http.MethodGet, "/healthz", "").Body.String(), `"watching":true`)
	})

	updated := strings.Replace(string(raw), "Widget configurator", "Widget studio", 1)
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	waitFor(t, func() bool { return srv.Schema().Title() == "Widget studio" })

	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("break: %v", err)
	}
	time.Sleep(3 * server.ReloadDebounce)
	if got := srv.Schema().Title(); got != "Widget studio" {
		t.Fatalf("failed reload should keep the previous schema, got %q", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
