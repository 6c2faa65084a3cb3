package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/testutil"
)

type note struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Text      string
}

func (n *note) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New[note](testutil.SQLite(t, &note{}))

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := &note{Text: "first"}
	second := &note{Text: "second"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEmpty(t, first.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, []string{all[0].ID, all[1].ID})

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	got.Text = "edited"
	require.NoError(t, repo.Save(ctx, got))
	got, err = repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Delete(ctx, got))
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetNotFound(t *testing.T) {
	db, mock := testutil.Postgres(t)
	repo := New[note](db)

	tests := []struct {
		name     string
		mockRows *sqlmock.Rows
		wantErr  error
	}{
		{
			name:     "Note exists",
			mockRows: sqlmock.NewRows([]string{"id", "created_at", "text"}).AddRow("n1", time.Now(), "hello"),
			wantErr:  nil,
		},
		{
			name:     "Note missing",
			mockRows: sqlmock.NewRows([]string{"id", "created_at", "text"}),
			wantErr:  ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery(`SELECT`).WillReturnRows(tt.mockRows)

			got, err := repo.Get(context.Background(), "n1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "hello", got.Text)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
