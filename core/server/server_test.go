package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"event-checkin/core/config"
	"event-checkin/core/constants"
	"event-checkin/core/server"
)

type envelope struct {
	Status  any             `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t     *testing.T
	app   *server.App
	token string
}

func newApp(t *testing.T) *client {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "event-checkin", Port: 7070, Timezone: constants.DefaultTimezone},
		Database: config.DatabaseConfig{
			Driver: constants.DatabaseDriverSQLite,
			DSN:    filepath.Join(t.TempDir(), "server.db"),
		},
		Admin: config.AdminConfig{
			PIN:              "2025",
			JWTSecret:        "server-test-secret",
			TokenTTL:         time.Hour,
			MaxLoginAttempts: 5,
			BlockDuration:    time.Minute,
		},
		Import: config.ImportConfig{MinEmailLength: 4, MaxUploadBytes: 1 << 20},
		Asset:  config.AssetConfig{Backend: "database", MaxUploadBytes: 1 << 20},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config invalid: %v", err)
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(app.Close)
	return &client{t: t, app: app}
}

func (c *client) do(method, path string, body []byte, contentType string) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (c *client) json(method, path string, payload any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	return c.do(method, path, body, "application/json")
}

func (c *client) login() {
	c.t.Helper()
	rec, env := c.json(http.MethodPost, "/api/v1/admin/login", map[string]string{"pin": "2025"})
	if rec.Code != http.StatusOK {
		c.t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(env.Data, &data)
	c.token = data.AccessToken
}

type stats struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checked_in"`
	Remaining int `json:"remaining"`
	Winners   int `json:"winners"`
}

func (c *client) stats() stats {
	c.t.Helper()
	rec, env := c.json(http.MethodGet, "/api/v1/admin/stats", nil)
	if rec.Code != http.StatusOK {
		c.t.Fatalf("stats status = %d: %s", rec.Code, rec.Body.String())
	}
	var s stats
	_ = json.Unmarshal(env.Data, &s)
	return s
}

func TestAdminRoutesRequireToken(t *testing.T) {
	c := newApp(t)
	rec, _ := c.json(http.MethodGet, "/api/v1/admin/stats", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	rec, _ = c.json(http.MethodPost, "/api/v1/admin/login", map[string]string{"pin": "0000"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong pin status = %d, want 401", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	c := newApp(t)
	rec, _ := c.json(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSwaggerDocument(t *testing.T) {
	c := newApp(t)
	rec, _ := c.json(http.MethodGet, "/swagger/doc.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}
	if doc.BasePath != "/api/v1" {
		t.Errorf("basePath = %q", doc.BasePath)
	}
	for _, path := range []string{"/checkins", "/guests/lookup", "/admin/draws", "/admin/guests/import", "/assets/{slot}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("doc.json missing %s", path)
		}
	}
}

func TestCheckInFlow(t *testing.T) {
	c := newApp(t)
	c.login()

	rec, env := c.json(http.MethodPost, "/api/v1/admin/guests/import", map[string]any{
		"rows": []map[string]any{
			{"Email": " A@X.com ", "Nama": "Ali", "No_Meja": "t 5"},
			{"Email": "b@x.com", "Nama": "Bea", "No_Meja": "T5", "Gelaran": "Dr"},
			{"Email": "a@x.com", "Nama": "Ali", "No_Meja": "T6"},
			{"Email": "x@y", "Nama": "Short", "No_Meja": "T1"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Imported   int `json:"imported"`
		Dropped    int `json:"dropped"`
		Duplicates int `json:"duplicates"`
	}
	_ = json.Unmarshal(env.Data, &report)
	if report.Imported != 2 || report.Dropped != 1 || report.Duplicates != 1 {
		t.Errorf("report = %+v", report)
	}

	rec, env = c.json(http.MethodGet, "/api/v1/guests/lookup?email=A@X.COM", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup status = %d", rec.Code)
	}
	var guest struct {
		TableID   string `json:"table_id"`
		CheckedIn bool   `json:"checked_in"`
	}
	_ = json.Unmarshal(env.Data, &guest)
	if guest.TableID != "T6" || guest.CheckedIn {
		t.Errorf("guest = %+v", guest)
	}

	if rec, _ := c.json(http.MethodGet, "/api/v1/guests/lookup?email=ghost@x.com", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown lookup status = %d, want 404", rec.Code)
	}

	if rec, _ := c.json(http.MethodPost, "/api/v1/checkins", map[string]string{"email": "a@x.com"}); rec.Code != http.StatusOK {
		t.Fatalf("checkin status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec, _ := c.json(http.MethodPost, "/api/v1/checkins", map[string]string{"email": "ghost@x.com"}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown checkin status = %d, want 404", rec.Code)
	}

	if s := c.stats(); s.Total != 2 || s.CheckedIn != 1 || s.Remaining != 1 {
		t.Errorf("stats = %+v", s)
	}

	rec, env = c.json(http.MethodPost, "/api/v1/admin/draws", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("draw status = %d: %s", rec.Code, rec.Body.String())
	}
	var drawn struct {
		Winner struct {
			Email string `json:"email"`
		} `json:"winner"`
	}
	_ = json.Unmarshal(env.Data, &drawn)
	if drawn.Winner.Email != "a@x.com" {
		t.Errorf("winner = %q", drawn.Winner.Email)
	}

	rec, env = c.json(http.MethodPost, "/api/v1/admin/draws", nil)
	if rec.Code != http.StatusConflict || env.Code != "NO_ELIGIBLE_CANDIDATES" {
		t.Errorf("exhausted draw = %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = c.json(http.MethodDelete, "/api/v1/admin/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d: %s", rec.Code, rec.Body.String())
	}
	if s := c.stats(); s != (stats{}) {
		t.Errorf("stats after reset = %+v", s)
	}
}

func TestAssetUploadAndDownload(t *testing.T) {
	c := newApp(t)
	c.login()

	png := append([]byte("\x89PNG\r\n\x1a\n"), []byte("layout")...)
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, _ := w.CreateFormFile("file", "Dewan Layout.png")
	_, _ = part.Write(png)
	_ = w.Close()

	rec, _ := c.do(http.MethodPut, "/api/v1/admin/assets/layout", body.Bytes(), w.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}

	c.token = ""
	rec, _ = c.do(http.MethodGet, "/api/v1/assets/layout", nil, "")
	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), png) {
		t.Fatalf("download status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}

	rec, _ = c.do(http.MethodGet, "/api/v1/assets/poster", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty slot status = %d, want 404", rec.Code)
	}
}
