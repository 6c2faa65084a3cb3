// Package store fournit un dépôt gorm générique pour les ressources CRUD.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("enregistrement introuvable")

// Record est implémenté (sur le pointeur) par chaque modèle persistant.
type Record interface {
	PrimaryKey() string
	SetPrimaryKey(id string)
}

type Repository[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithTx renvoie un dépôt lié à la transaction tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx}
}

func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// List renvoie toute la collection, dans l'ordre d'insertion.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("liste: %w", err)
	}
	return items, nil
}

func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture %s: %w", id, err)
	}
	return &item, nil
}

func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("création: %w", err)
	}
	return nil
}

func (r *Repository[T]) Save(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return fmt.Errorf("mise à jour: %w", err)
	}
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("suppression: %w", err)
	}
	return nil
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("comptage: %w", err)
	}
	return count, nil
}
