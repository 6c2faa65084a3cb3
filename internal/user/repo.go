package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/store"
)

// ErrDuplicate signale une violation d'unicité (username déjà pris).
var ErrDuplicate = errors.New("utilisateur déjà existant")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("création utilisateur: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *Repository) findOne(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("lecture utilisateur: %w", err)
	}
	return &u, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) bool {
	var count int64
	r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) bool {
	var count int64
	r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}
