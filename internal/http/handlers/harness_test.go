package handlers_test

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/geocoder89/filehub/internal/blob"
	"github.com/geocoder89/filehub/internal/fileops"
	"github.com/geocoder89/filehub/internal/http/handlers"
	"github.com/geocoder89/filehub/internal/http/middlewares"
	"github.com/geocoder89/filehub/internal/identity"
	"github.com/geocoder89/filehub/internal/queue"
	"github.com/geocoder89/filehub/internal/repo/memory"
	"github.com/geocoder89/filehub/internal/security"
	"github.com/geocoder89/filehub/internal/session"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires the full handler stack against in-memory backends, with
// the same routes and middleware layout the real router uses.
type testEnv struct {
	router   *gin.Engine
	users    *memory.UsersRepo
	files    *memory.FilesRepo
	sessions *session.MemoryStore
	thumbs   *queue.MemoryQueue
	welcome  *queue.MemoryQueue
	blobs    *blob.FSStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUsersRepo()
	files := memory.NewFilesRepo()
	sessions := session.NewMemoryStore()
	thumbs := queue.NewMemoryQueue(16)
	welcome := queue.NewMemoryQueue(16)

	blobs, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore error: %v", err)
	}

	log := slog.Default()

	identitySvc := identity.New(users, security.NewBcryptHasher(), welcome, log)
	filesSvc := fileops.New(files, blobs, thumbs, log)

	auth := middlewares.NewAuthMiddleware(sessions, identitySvc)

	usersHandler := handlers.NewUsersHandler(identitySvc)
	authHandler := handlers.NewAuthHandler(identitySvc, sessions, session.DefaultTTL)
	filesHandler := handlers.NewFilesHandler(filesSvc)

	r := gin.New()

	r.POST("/users", usersHandler.PostNew)
	r.GET("/connect", authHandler.GetConnect)
	r.GET("/disconnect", auth.RequireToken(), authHandler.GetDisconnect)
	r.GET("/users/me", auth.RequireToken(), usersHandler.GetMe)

	r.POST("/files", auth.RequireToken(), filesHandler.PostUpload)
	r.GET("/files", auth.RequireToken(), filesHandler.GetIndex)
	r.GET("/files/:id", auth.RequireToken(), filesHandler.GetShow)
	r.PUT("/files/:id/publish", auth.RequireToken(), filesHandler.PutPublish)
	r.PUT("/files/:id/unpublish", auth.RequireToken(), filesHandler.PutUnpublish)
	r.GET("/files/:id/data", auth.OptionalToken(), filesHandler.GetContent)

	return &testEnv{
		router:   r,
		users:    users,
		files:    files,
		sessions: sessions,
		thumbs:   thumbs,
		welcome:  welcome,
		blobs:    blobs,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

func (e *testEnv) register(t *testing.T, email, password string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/users", `{"email":"`+email+`","password":"`+password+`"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body %s", email, w.Code, w.Body.String())
	}

	return decodeBody(t, w)["id"].(string)
}

func (e *testEnv) connect(t *testing.T, email, password string) string {
	t.Helper()

	basic := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))

	w := e.do(t, http.MethodGet, "/connect", "", map[string]string{
		"Authorization": "Basic " + basic,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("connect %s: status = %d, body %s", email, w.Code, w.Body.String())
	}

	token, ok := decodeBody(t, w)["token"].(string)
	if !ok || token == "" {
		t.Fatalf("connect %s: no token in body %s", email, w.Body.String())
	}

	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}

	return body
}

func mustDecodeList(t *testing.T, w *httptest.ResponseRecorder, out *[]map[string]any) {
	t.Helper()

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode list %q: %v", w.Body.String(), err)
	}
}

func mustParseID(t *testing.T, raw string) int64 {
	t.Helper()

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		t.Fatalf("parse id %q: %v", raw, err)
	}

	return id
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}

	if got := decodeBody(t, w)["error"]; got != message {
		t.Fatalf("error = %v, want %q", got, message)
	}
}
