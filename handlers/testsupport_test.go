package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	supa "github.com/supabase-community/supabase-go"

	"omrhub/admin-api/config"
	"omrhub/admin-api/middleware"
)

const testAdminID = "6f1e1c1a-9f1d-4c57-a8a1-5b1a2c3d4e5f"

// recordedRequest captures one request the stub backend received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// supabaseStub is an httptest server standing in for the Supabase REST and
// storage APIs, so handlers execute their real query chains end to end.
type supabaseStub struct {
	mux    *http.ServeMux
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newSupabaseStub(t *testing.T) *supabaseStub {
	t.Helper()
	s := &supabaseStub{mux: http.NewServeMux()}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
		s.mu.Unlock()
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *supabaseStub) handle(pattern string, fn http.HandlerFunc) {
	s.mux.HandleFunc(pattern, fn)
}

func (s *supabaseStub) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// calls returns the recorded requests matching a method and path prefix.
func (s *supabaseStub) calls(method, pathPrefix string) []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, req := range s.requests {
		if req.Method == method && strings.HasPrefix(req.Path, pathPrefix) {
			out = append(out, req)
		}
	}
	return out
}

func (s *supabaseStub) storageCalls() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, req := range s.requests {
		if strings.HasPrefix(req.Path, "/storage/v1/") {
			out = append(out, req)
		}
	}
	return out
}

func newTestHandler(t *testing.T, stub *supabaseStub) *ApplicationHandler {
	t.Helper()
	cfg := &config.Config{
		ListenAddr:         ":0",
		SupabaseURL:        stub.server.URL,
		SupabaseServiceKey: "test-key",
		JWTSecret:          "test-secret",
		MediaBuckets:       []string{"omr-media", "media", "uploads"},
		MaxImageBytes:      5 << 20,
		MaxVideoBytes:      100 << 20,
		AppStoreID:         "1234567890",
		AppStoreURL:        "https://apps.apple.com/app/omr-hub/id1234567890",
		AppBundleID:        "TEAMID.com.omrhub.app",
	}

	db, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewApplicationHandler(db, logger, cfg)
}

// newAuthedApp returns a Fiber app with a resolved admin identity already in
// locals, mirroring what RequireAdmin does in production.
func newAuthedApp(h *ApplicationHandler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetAdmin(c, &middleware.AdminIdentity{
			ID:    testAdminID,
			Email: "admin@omrhub.test",
			Role:  "admin",
		})
		return c.Next()
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// newMultipartRequest builds a multipart form with a single file part plus
// optional extra fields.
func newMultipartRequest(t *testing.T, target, filename, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	for key, val := range fields {
		require.NoError(t, writer.WriteField(key, val))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

// writeRows responds with a PostgREST representation body and an exact count
// header for n affected rows.
func writeRows(w http.ResponseWriter, n int, rows interface{}) {
	if n == 0 {
		w.Header().Set("Content-Range", "*/0")
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", n-1, n))
	}
	w.Header().Set("Content-Type", "application/json")
	if rows == nil {
		fmt.Fprint(w, "[]")
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(r.Body)
}

func today() string {
	return time.Now().Format("2006-01-02")
}
