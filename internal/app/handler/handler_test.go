package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"admin/internal/app/apiclient"
	"admin/internal/app/apitest"
	"admin/internal/app/asset"
	"admin/internal/app/console"
	"admin/internal/app/ds"
	"admin/internal/app/form"
	"admin/internal/app/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

type shell struct {
	t      *testing.T
	router *gin.Engine
	api    *apitest.Server
	token  string
}

func newShell(t *testing.T, opts ...func(*Handler)) *shell {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := apitest.NewServer()
	srv.Token = "tok-123"
	t.Cleanup(srv.Close)

	sess := session.New()
	client := apiclient.New(apiclient.Options{BaseURL: srv.BaseURL(), Tokens: sess})
	c := console.New(client, form.Assets{Encoder: asset.NewEncoder(0), Origin: "https://cms.example.com"})

	h := NewHandler(c, session.NewManager(sess, client, nil))
	for _, opt := range opts {
		opt(h)
	}
	router := gin.New()
	h.RegisterMiddleware(router)
	h.RegisterAPIRoutes(router)

	return &shell{t: t, router: router, api: srv}
}

type reply struct {
	Code int
	Body map[string]interface{}
}

func (r reply) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (s *shell) do(method, path string, body interface{}, headers ...string) reply {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return s.serve(req)
}

func (s *shell) upload(path, name string, data []byte) reply {
	s.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(s.t, err)
	_, err = part.Write(data)
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.serve(req)
}

func (s *shell) serve(req *http.Request) reply {
	if s.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return s.serveRaw(req)
}

func (s *shell) serveRaw(req *http.Request) reply {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	out := reply{Code: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out.Body))
	}
	return out
}

func (s *shell) login() {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    apitest.AdminEmail,
		"password": apitest.AdminPassword,
	})
	require.Equal(s.t, http.StatusOK, resp.Code, resp.Body)

	token, _ := resp.data()["token"].(string)
	require.NotEmpty(s.t, token)
	s.token = token
}

func TestShell_RequiresLogin(t *testing.T) {
	s := newShell(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/services", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/dashboard", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", nil).Code)
}

func TestShell_OtherCallersNeedTheToken(t *testing.T) {
	s := newShell(t)
	s.api.Seed("services", ds.Service{Meta: ds.Meta{ID: "s-1"}, Title: "Cloud"})
	s.login()
	assert.Equal(t, "tok-123", s.token)

	req := httptest.NewRequest(http.MethodDelete, "/api/services/s-1", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	req.Header.Set("X-Confirm", "yes")
	resp := s.serveRaw(req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "invalid session token", resp.Body["message"])

	req = httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.Header.Set("Authorization", "Bearer guessed")
	assert.Equal(t, http.StatusUnauthorized, s.serveRaw(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, s.serveRaw(req).Code)

	assert.Len(t, s.api.Docs("services"), 1)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/services", nil).Code)
}

func TestShell_ResourcesNeedAdminRole(t *testing.T) {
	s := newShell(t, func(h *Handler) { h.AdminRoles = []string{"owner"} })
	s.login()

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", nil).Code)
	resp := s.do(http.MethodGet, "/api/services", nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "insufficient role", resp.Body["message"])
}

func TestShell_LoginLogout(t *testing.T) {
	s := newShell(t)

	resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": apitest.AdminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Credenciales inválidas", resp.Body["message"])

	s.login()
	resp = s.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	user := resp.data()["user"].(map[string]interface{})
	assert.Equal(t, apitest.AdminEmail, user["email"])

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/services", nil).Code)
}

func TestShell_CreatePlanThroughModal(t *testing.T) {
	s := newShell(t)
	s.login()

	resp := s.do(http.MethodPost, "/api/corporate-plans/modal", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Open", resp.data()["state"])
	assert.Equal(t, "create", resp.data()["mode"])

	values := resp.data()["values"].(map[string]interface{})
	assert.Equal(t, "USD", values["currency"])
	assert.Equal(t, []interface{}{""}, values["features"])

	values["name"] = "Pyme"
	values["description"] = "Small teams"
	values["price"] = 49
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/corporate-plans/modal/form", values).Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/corporate-plans/modal/lists/features/0", map[string]string{"value": "A"}).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/corporate-plans/modal/lists/features", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/corporate-plans/modal/lists/features", nil).Code)
	resp = s.do(http.MethodPut, "/api/corporate-plans/modal/lists/features/2", map[string]string{"value": " "})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []interface{}{"A", "", " "}, resp.data()["values"].(map[string]interface{})["features"])

	resp = s.do(http.MethodPost, "/api/corporate-plans/modal/submit", nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)

	posts := s.api.Requests(http.MethodPost, "/api/corporate-plans")
	require.Len(t, posts, 1)
	assert.Equal(t, []interface{}{"A"}, posts[0].Body["features"])

	assert.Equal(t, "Closed", s.do(http.MethodGet, "/api/corporate-plans/modal", nil).data()["state"])

	list := s.do(http.MethodGet, "/api/corporate-plans", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, list.data()["items"], 1)
	assert.Equal(t, false, list.data()["isLoading"])
}

func TestShell_SubmitValidation(t *testing.T) {
	s := newShell(t)
	s.login()

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/services/modal", nil).Code)

	resp := s.do(http.MethodPost, "/api/services/modal/submit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, s.api.Requests(http.MethodPost, "/api/services"))

	modalState := s.do(http.MethodGet, "/api/services/modal", nil)
	assert.Equal(t, "Open", modalState.data()["state"])

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/projects/modal", nil).Code)
	project := map[string]interface{}{"title": "Portal", "description": "Intranet", "category": "Otro"}
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/projects/modal/form", project).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/projects/modal/submit", nil).Code)

	project["category"] = ds.CategoryMobileApp
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/projects/modal/form", project).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/projects/modal/submit", nil).Code)
}

func TestShell_ServerRejectionKeepsModalOpen(t *testing.T) {
	s := newShell(t)
	s.login()
	s.api.Fail(http.MethodPost, "services", http.StatusBadRequest, "Duplicate title")

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/services/modal", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/services/modal/form", map[string]interface{}{
		"title": "Cloud", "description": "Hosting", "features": []string{"24/7"},
	}).Code)

	resp := s.do(http.MethodPost, "/api/services/modal/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "Duplicate title", resp.Body["message"])

	modalState := s.do(http.MethodGet, "/api/services/modal", nil).data()
	assert.Equal(t, "Open", modalState["state"])
	assert.Equal(t, "Duplicate title", modalState["error"])
	assert.Equal(t, "Cloud", modalState["values"].(map[string]interface{})["title"])
}

func TestShell_ClientNeedsLogoOnCreate(t *testing.T) {
	s := newShell(t)
	s.login()

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/clients/modal", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/clients/modal/form", map[string]interface{}{
		"name": "ACME", "isActive": true, "order": 1,
	}).Code)

	resp := s.do(http.MethodPost, "/api/clients/modal/submit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "logo is required", resp.Body["message"])

	resp = s.upload("/api/clients/modal/asset", "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = s.upload("/api/clients/modal/asset", "acme.png", pngPixel)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.data()["preview"], "data:image/png;base64,")

	resp = s.do(http.MethodPost, "/api/clients/modal/submit", nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)
	assert.Equal(t, "/uploads/clients/acme.png", resp.data()["logo"])

	posts := s.api.Requests(http.MethodPost, "/api/clients")
	require.Len(t, posts, 1)
	assert.Equal(t, "acme.png", posts[0].FileName)
}

func TestShell_ListOperationErrors(t *testing.T) {
	s := newShell(t)
	s.login()

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/projects/modal/lists/images", nil).Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/projects/modal", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/projects/modal", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/projects/modal/lists/tags", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/projects/modal/lists/images/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/projects/modal/lists/images/x", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.upload("/api/projects/modal/asset", "a.png", pngPixel).Code)

	resp := s.do(http.MethodDelete, "/api/projects/modal/lists/images/0", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []interface{}{""}, resp.data()["values"].(map[string]interface{})["images"])

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/projects/modal", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, "/api/projects/modal", nil).Code)
}

func TestShell_EditAndDelete(t *testing.T) {
	s := newShell(t)
	s.api.Seed("blog", ds.BlogPost{Meta: ds.Meta{ID: "post-1"}, Title: "Old", Excerpt: "e", Content: "c", Category: ds.CategoryTechnology})
	s.login()

	resp := s.do(http.MethodPost, "/api/blog/modal/post-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "edit", resp.data()["mode"])
	assert.Equal(t, "post-1", resp.data()["targetId"])
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/blog/modal", nil).Code)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/blog/modal/missing", nil).Code)

	resp = s.do(http.MethodDelete, "/api/blog/post-1", nil)
	assert.Equal(t, http.StatusPreconditionRequired, resp.Code)
	assert.Equal(t, "Are you sure you want to delete this article?", resp.Body["message"])
	assert.Len(t, s.api.Docs("blog"), 1)

	resp = s.do(http.MethodDelete, "/api/blog/post-1", nil, "X-Confirm", "yes")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.data()["items"])
	assert.Empty(t, s.api.Docs("blog"))
}

func TestShell_Dashboard(t *testing.T) {
	s := newShell(t)
	s.api.Seed("services", ds.Service{Title: "a"})
	s.api.Seed("clients", ds.Client{Name: "a"}, ds.Client{Name: "b"})
	s.login()

	resp := s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(1), resp.data()["services"])
	assert.Equal(t, float64(2), resp.data()["clients"])
	assert.Equal(t, float64(0), resp.data()["plans"])

	s.api.Fail(http.MethodGet, "projects", http.StatusInternalServerError, "down")
	assert.Equal(t, http.StatusBadGateway, s.do(http.MethodGet, "/api/dashboard", nil).Code)
}
