package todo

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logs.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newRouter(t *testing.T) *gin.Engine {
	h := NewHandler(testutil.SQLite(t, &Post{}))
	r := gin.New()
	r.GET("/posts", h.List)
	r.POST("/posts", h.Create)
	r.GET("/posts/:id", h.Retrieve)
	r.PUT("/posts/:id", h.Update)
	r.PATCH("/posts/:id", h.Update)
	r.DELETE("/posts/:id", h.Destroy)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodePost(t *testing.T, w *httptest.ResponseRecorder) Post {
	t.Helper()
	var resp struct {
		Post Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Post
}

func TestTodoLifecycle(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/posts", `{"title":"groceries","body":"milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	first := decodePost(t, w)

	w = do(r, http.MethodPost, "/posts", `{"title":"laundry","body":"whites"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	second := decodePost(t, w)

	w = do(r, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Posts []Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Posts, 2)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, []string{list.Posts[0].ID, list.Posts[1].ID})

	// Pas de contrôle d'auteur : n'importe qui peut modifier.
	w = do(r, http.MethodPatch, "/posts/"+first.ID, `{"body":"oat milk"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "oat milk", decodePost(t, w).Body)
	assert.Equal(t, "groceries", decodePost(t, w).Title)

	w = do(r, http.MethodPut, "/posts/"+first.ID, `{"title":"shopping","body":"bread"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shopping", decodePost(t, w).Title)

	w = do(r, http.MethodDelete, "/posts/"+first.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/posts/"+first.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoErrors(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/posts", `{"title":"no body"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/posts/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/posts/nope", `{"title":"a","body":"b"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/posts/nope", "").Code)
}

func TestTodoPatchCannotBlankFields(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/posts", `{"title":"groceries","body":"milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	p := decodePost(t, w)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/posts/"+p.ID, `{"title":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/posts/"+p.ID, `{"body":""}`).Code)

	w = do(r, http.MethodGet, "/posts/"+p.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "groceries", decodePost(t, w).Title)
	assert.Equal(t, "milk", decodePost(t, w).Body)
}
