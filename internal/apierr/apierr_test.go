package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugeniogarcia/django/internal/permission"
	"github.com/eugeniogarcia/django/internal/store"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("lecture: %w", store.ErrNotFound), http.StatusNotFound},
		{permission.ErrDenied, http.StatusForbidden},
		{permission.ErrNotAuthenticated, http.StatusUnauthorized},
		{Field("title", "ce champ est obligatoire"), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

type payload struct {
	Title   string `json:"title" binding:"required"`
	Comment string `json:"comment" binding:"max=5"`
}

func TestFromBindingUsesJSONNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	UseJSONFieldNames()

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var in payload
		if err := c.ShouldBindJSON(&in); err != nil {
			Respond(c, FromBinding(err))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"comment":"too long"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "title")
	assert.Contains(t, body.Fields, "comment")
}

func TestFromBindingEmptyBody(t *testing.T) {
	var verr *ValidationError
	require.ErrorAs(t, FromBinding(errors.New("EOF")), &verr)
	assert.Contains(t, verr.Fields, NonFieldErrors)
}
