package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"filesmanager/internal/database"
	"filesmanager/internal/middleware"
	"filesmanager/internal/modules/auth"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"
	"filesmanager/internal/session"
	"filesmanager/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testEnv struct {
	router      *gin.Engine
	authService *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	sessions, err := session.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	content := storage.NewDisk(t.TempDir())
	jobs := queue.NewMemory(8)
	t.Cleanup(jobs.Close)

	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)

	authService := auth.NewService(userRepo, sessions, 0)
	fileHandler := NewHandler(NewService(fileRepo, content, jobs))

	r := gin.New()
	v1 := r.Group("/api/v1")

	download := v1.Group("/")
	download.Use(middleware.OptionalTokenAuth(authService))
	fileHandler.RegisterPublicRoutes(download)

	protected := v1.Group("/")
	protected.Use(middleware.TokenAuth(authService))
	fileHandler.RegisterProtectedRoutes(protected)

	return &testEnv{router: r, authService: authService}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	var env envelope
	if resp.Body.Len() > 0 {
		_ = json.Unmarshal(resp.Body.Bytes(), &env)
	}
	return resp, env
}

// signUp provisions a user directly through the service and returns a live token.
func (e *testEnv) signUp(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()

	_, err := e.authService.Register(ctx, email, "pw1")
	require.NoError(t, err)

	token, err := e.authService.Login(ctx, email, "pw1")
	require.NoError(t, err)
	return token
}

func (e *testEnv) createNode(t *testing.T, token string, body gin.H) NodeResponse {
	t.Helper()
	resp, env := e.request(t, http.MethodPost, "/api/v1/files", token, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var node NodeResponse
	require.NoError(t, json.Unmarshal(env.Data, &node))
	return node
}

func TestCreateFolderAndGet(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	folder := e.createNode(t, token, gin.H{"name": "docs", "type": "folder"})
	assert.Equal(t, "docs", folder.Name)
	assert.Equal(t, "folder", folder.Type)
	assert.Equal(t, "0", folder.ParentID)
	assert.False(t, folder.IsPublic)

	resp, env := e.request(t, http.MethodGet, "/api/v1/files/"+folder.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var got NodeResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, folder.ID, got.ID)
}

func TestCreateValidationErrors(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	cases := []struct {
		name string
		body gin.H
		code string
	}{
		{"missing name", gin.H{"type": "folder"}, "MISSING_NAME"},
		{"bad type", gin.H{"name": "x", "type": "archive"}, "MISSING_TYPE"},
		{"missing data", gin.H{"name": "x", "type": "file"}, "MISSING_DATA"},
		{"bad base64", gin.H{"name": "x", "type": "file", "data": "%%%"}, "INVALID_DATA"},
		{"unknown parent", gin.H{"name": "x", "type": "folder", "parentId": "nope"}, "PARENT_NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := e.request(t, http.MethodPost, "/api/v1/files", token, tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestCreateUnderFileParent(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	data := base64.StdEncoding.EncodeToString([]byte("hello"))
	file := e.createNode(t, token, gin.H{"name": "note.txt", "type": "file", "data": data})

	resp, env := e.request(t, http.MethodPost, "/api/v1/files", token, gin.H{
		"name": "child", "type": "folder", "parentId": file.ID,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PARENT_NOT_FOLDER", env.Error.Code)
}

func TestListPagination(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	folder := e.createNode(t, token, gin.H{"name": "docs", "type": "folder"})
	for i := 0; i < 25; i++ {
		e.createNode(t, token, gin.H{
			"name": fmt.Sprintf("sub-%02d", i), "type": "folder", "parentId": folder.ID,
		})
	}

	listPage := func(page int) []NodeResponse {
		path := fmt.Sprintf("/api/v1/files?parentId=%s&page=%d", folder.ID, page)
		resp, env := e.request(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		var nodes []NodeResponse
		require.NoError(t, json.Unmarshal(env.Data, &nodes))
		return nodes
	}

	page0 := listPage(0)
	page1 := listPage(1)
	page2 := listPage(2)

	require.Len(t, page0, 20)
	require.Len(t, page1, 5)
	require.Empty(t, page2)

	seen := make(map[string]bool)
	for _, n := range append(page0, page1...) {
		assert.False(t, seen[n.ID], "node %s appeared on two pages", n.ID)
		seen[n.ID] = true
	}
}

func TestListRootDefault(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	e.createNode(t, token, gin.H{"name": "top", "type": "folder"})
	folder := e.createNode(t, token, gin.H{"name": "docs", "type": "folder"})
	e.createNode(t, token, gin.H{"name": "nested", "type": "folder", "parentId": folder.ID})

	resp, env := e.request(t, http.MethodGet, "/api/v1/files", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var nodes []NodeResponse
	require.NoError(t, json.Unmarshal(env.Data, &nodes))
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.Equal(t, "0", n.ParentID)
	}
}

func TestPublishUnpublishIdempotent(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	node := e.createNode(t, token, gin.H{"name": "docs", "type": "folder"})

	for i := 0; i < 2; i++ {
		resp, env := e.request(t, http.MethodPut, "/api/v1/files/"+node.ID+"/publish", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		var got NodeResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, got.IsPublic)
	}

	resp, env := e.request(t, http.MethodPut, "/api/v1/files/"+node.ID+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var got NodeResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.False(t, got.IsPublic)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signUp(t, "owner@x.com")
	other := e.signUp(t, "other@x.com")

	node := e.createNode(t, owner, gin.H{"name": "docs", "type": "folder"})

	resp, env := e.request(t, http.MethodGet, "/api/v1/files/"+node.ID, other, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, _ = e.request(t, http.MethodPut, "/api/v1/files/"+node.ID+"/publish", other, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDownloadVisibilityRules(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signUp(t, "owner@x.com")
	other := e.signUp(t, "other@x.com")

	data := base64.StdEncoding.EncodeToString([]byte("secret body"))
	node := e.createNode(t, owner, gin.H{"name": "note.txt", "type": "file", "data": data})
	path := "/api/v1/files/" + node.ID + "/data"

	// private: anonymous and non-owner get the same answer as for a missing node
	resp, _ := e.request(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp, _ = e.request(t, http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp, _ = e.request(t, http.MethodGet, path, owner, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "secret body", resp.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))

	_, env := e.request(t, http.MethodPut, "/api/v1/files/"+node.ID+"/publish", owner, nil)
	require.True(t, env.Success)

	resp, _ = e.request(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "secret body", resp.Body.String())
}

func TestDownloadFolderHasNoContent(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	node := e.createNode(t, token, gin.H{"name": "docs", "type": "folder"})
	e.request(t, http.MethodPut, "/api/v1/files/"+node.ID+"/publish", token, nil)

	resp, env := e.request(t, http.MethodGet, "/api/v1/files/"+node.ID+"/data", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FOLDER_NO_CONTENT", env.Error.Code)
}

func TestDownloadMissingVariant(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp(t, "a@x.com")

	// no worker runs in this environment, so variants never exist
	data := base64.StdEncoding.EncodeToString([]byte("raw bytes"))
	node := e.createNode(t, token, gin.H{"name": "pic.png", "type": "image", "data": data})

	resp, _ := e.request(t, http.MethodGet, "/api/v1/files/"+node.ID+"/data?size=100", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp, _ = e.request(t, http.MethodGet, "/api/v1/files/"+node.ID+"/data", token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.request(t, http.MethodGet, "/api/v1/files", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp, _ = e.request(t, http.MethodPost, "/api/v1/files", "bogus", gin.H{"name": "x", "type": "folder"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
