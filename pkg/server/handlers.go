package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/compiler"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/renderers/jsonframe"
	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/state"
)

// Query keys /api/compile reads itself. Fields with these ids cannot be
// overridden there.
const (
	queryBase    = "base"
	queryPreview = "preview"
	queryLang    = "lang"
	queryFormat  = "format"
	queryTheme   = "theme"
	queryVariant = "variant"
)

type sessionKey struct{}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
		"watching": s.watching.Load(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderer, err := s.renderers.Lookup(r.URL.Query().Get(queryFormat))
	if err != nil {
		writeError(w, http.StatusNotAcceptable, err)
		return
	}
	sess, err := s.openSession(r, requestAddress(r, s.pageAddress))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	page := render.NewPage(sess.ctrl.Schema(), sess.ctrl.Frame(), sess.id)
	page.Events = s.watching.Load()
	body, err := renderer.Render(r.Context(), page, sess.opts)
	if err != nil {
		s.logger.Error("render page", "renderer", renderer.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	address := requestAddress(r, s.pageAddress)
	if ref, err := url.Parse(r.Referer()); err == nil && ref.IsAbs() {
		address = ref.String()
	}
	sess, err := s.openSession(r, address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeFrame(w, http.StatusCreated, sess, sess.ctrl.Frame())
}

// openSession starts a controller from the current schema.
func (s *Server) openSession(r *http.Request, pageAddress string) (*session, error) {
	ctrl, err := controller.New(s.Schema(),
		controller.WithPageAddress(pageAddress),
		controller.WithLivePreview(s.livePreview),
		controller.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	sess, evicted := s.sessions.add(ctrl, s.renderOptions(r))
	if evicted != "" {
		s.logger.Debug("session evicted", "session", evicted)
	}
	s.logger.Debug("session opened", "session", sess.id, "locale", sess.opts.Locale)
	return sess, nil
}

func (s *Server) renderOptions(r *http.Request) render.RenderOptions {
	q := r.URL.Query()
	opts := render.RenderOptions{
		Locale:      negotiateLocale(q.Get(queryLang), r.Header.Get("Accept-Language"), s.locale, s.locales()),
		Translator:  s.translator,
		AssetPrefix: AssetsPath,
	}

	name, variant := s.themeName, s.themeVariant
	if requested := strings.TrimSpace(q.Get(queryTheme)); requested != "" {
		name, variant = requested, ""
	}
	if requested := strings.TrimSpace(q.Get(queryVariant)); requested != "" {
		variant = requested
	}
	selection, err := s.themes.Select(name, variant)
	if err != nil {
		s.logger.Debug("theme fallback", "theme", name, "variant", variant, "error", err)
		selection, _ = s.themes.Select(s.themeName, s.themeVariant)
	}
	opts.Theme = render.RendererConfig(selection)
	return opts
}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sid")
		sess, ok := s.sessions.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("server: unknown session %q", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session {
	sess, _ := r.Context().Value(sessionKey{}).(*session)
	return sess
}

func (s *Server) writeFrame(w http.ResponseWriter, status int, sess *session, frame controller.Frame) {
	page := render.Page{Frame: frame, SessionID: sess.id}
	writeJSON(w, status, jsonframe.NewPayload(page, sess.opts))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.writeFrame(w, http.StatusOK, sess, sess.ctrl.Frame())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.remove(sessionFrom(r).id)
	w.WriteHeader(http.StatusNoContent)
}

type valueRequest struct {
	Value json.RawMessage `json:"value"`
}

type liveRequest struct {
	Enabled *bool `json:"enabled"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("server: invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleEditField(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var body valueRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body.Value) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("server: value is required"))
		return
	}
	var raw any
	if err := json.Unmarshal(body.Value, &raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("server: invalid value: %w", err))
		return
	}

	frame, err := sess.ctrl.EditFieldValue(chi.URLParam(r, "id"), raw)
	switch {
	case errors.Is(err, state.ErrUnknownField):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.writeFrame(w, http.StatusOK, sess, frame)
	}
}

func (s *Server) handleEditBase(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var body valueRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var text string
	if len(body.Value) > 0 {
		if err := json.Unmarshal(body.Value, &text); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("server: base must be a string: %w", err))
			return
		}
	}
	s.writeFrame(w, http.StatusOK, sess, sess.ctrl.EditBaseURL(text))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var body liveRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Enabled == nil {
		writeError(w, http.StatusBadRequest, errors.New("server: enabled is required"))
		return
	}
	s.writeFrame(w, http.StatusOK, sess, sess.ctrl.SetLivePreview(*body.Enabled))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.writeFrame(w, http.StatusOK, sess, sess.ctrl.Reset())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.writeFrame(w, http.StatusOK, sess, sess.ctrl.RefreshPreview())
}

type schemaResponse struct {
	*schema.Schema
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	sch := s.Schema()
	resp := schemaResponse{Schema: sch}
	for _, warning := range sch.Lint() {
		resp.Warnings = append(resp.Warnings, warning.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

type compileResponse struct {
	compiler.Result
	StatusText string `json:"statusText"`
	CountText  string `json:"countText"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Error      string `json:"error,omitempty"`
}

// handleCompile compiles statelessly: schema defaults, overridden by query
// keys named after field ids. Keys that are neither reserved nor field ids
// are rejected.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	sch := s.Schema()
	q := r.URL.Query()
	overrides := make(map[string]string, len(q))
	for key, raw := range q {
		if len(raw) > 0 {
			overrides[key] = raw[0]
		}
	}
	values, err := state.FromOverrides(sch, overrides, reservedQueryKey)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("server: %w", err))
		return
	}

	base := sch.Base.Default
	if raw, ok := q[queryBase]; ok && len(raw) > 0 {
		base = raw[0]
	}
	result := compiler.Compile(base, sch, values,
		compiler.WithPageAddress(requestAddress(r, s.pageAddress)))

	opts := s.renderOptions(r)
	frame := controller.Frame{Result: result}
	resp := compileResponse{
		Result:     result,
		StatusText: opts.StatusText(frame),
		CountText:  opts.CountText(frame),
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	if flag := q.Get(queryPreview); flag != "" {
		if on, err := codec.ParseBool(flag); err == nil && on {
			resp.PreviewURL = compiler.PreviewURL(result)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func reservedQueryKey(key string) bool {
	switch key {
	case queryBase, queryPreview, queryLang, queryFormat, queryTheme, queryVariant:
		return true
	default:
		return false
	}
}

// requestAddress is the address the browser used to reach the page, so
// relative base URLs resolve the way the page itself would resolve them.
func requestAddress(r *http.Request, fallback string) string {
	host := r.Host
	if host == "" {
		return fallback
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	return (&url.URL{Scheme: scheme, Host: host, Path: path}).String()
}
