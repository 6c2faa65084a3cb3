package permission

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct{ author string }

func (r record) AuthorKey() string { return r.author }

func TestIsAuthorOrReadOnly(t *testing.T) {
	post := record{author: "alice"}

	tests := []struct {
		name   string
		method string
		user   string
		want   bool
	}{
		{"GET by stranger", http.MethodGet, "bob", true},
		{"HEAD anonymous", http.MethodHead, "", true},
		{"OPTIONS anonymous", http.MethodOptions, "", true},
		{"PUT by author", http.MethodPut, "alice", true},
		{"PATCH by author", http.MethodPatch, "alice", true},
		{"DELETE by author", http.MethodDelete, "alice", true},
		{"PUT by stranger", http.MethodPut, "bob", false},
		{"PATCH by stranger", http.MethodPatch, "bob", false},
		{"DELETE by stranger", http.MethodDelete, "bob", false},
		{"DELETE anonymous", http.MethodDelete, "", false},
		{"POST by stranger", http.MethodPost, "bob", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthorOrReadOnly(tt.method, tt.user, post))
		})
	}
}

func TestAnonymousNeverMatchesEmptyAuthor(t *testing.T) {
	assert.False(t, IsAuthorOrReadOnly(http.MethodDelete, "", record{}))
}

func TestCheckAuthorOrReadOnly(t *testing.T) {
	post := record{author: "alice"}

	assert.NoError(t, CheckAuthorOrReadOnly(http.MethodGet, "", post))
	assert.NoError(t, CheckAuthorOrReadOnly(http.MethodPut, "alice", post))
	assert.ErrorIs(t, CheckAuthorOrReadOnly(http.MethodPut, "bob", post), ErrDenied)
	assert.ErrorIs(t, CheckAuthorOrReadOnly(http.MethodDelete, "", post), ErrNotAuthenticated)
}
