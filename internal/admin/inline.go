package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/store"
)

// Inline édite les enfants d'un modèle depuis le formulaire du parent.
type Inline interface {
	Name() string
	Load(ctx context.Context, db *gorm.DB, parentID string) (any, error)
	Apply(ctx context.Context, tx *gorm.DB, parentID string, rows json.RawMessage) error
	DeleteAll(ctx context.Context, tx *gorm.DB, parentID string) error
}

type childPtr[C any] interface {
	*C
	store.Record
	SetParentKey(id string)
}

// inlineRow porte les clés de contrôle d'une ligne inline.
type inlineRow struct {
	ID     string `json:"id"`
	Delete bool   `json:"DELETE"`
}

// TabularInline gère des lignes enfants reliées par la colonne fk.
// Une ligne avec "id" est modifiée, sans "id" elle est créée, et
// "DELETE": true supprime la ligne existante.
type TabularInline[C any, PC childPtr[C]] struct {
	name string
	fk   string
}

func NewTabularInline[C any, PC childPtr[C]](name, fkColumn string) *TabularInline[C, PC] {
	return &TabularInline[C, PC]{name: name, fk: fkColumn}
}

func (in *TabularInline[C, PC]) Name() string { return in.name }

func (in *TabularInline[C, PC]) Load(ctx context.Context, db *gorm.DB, parentID string) (any, error) {
	rows := []C{}
	if err := db.WithContext(ctx).Where(in.fk+" = ?", parentID).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("chargement %s: %w", in.name, err)
	}
	return rows, nil
}

func (in *TabularInline[C, PC]) Apply(ctx context.Context, tx *gorm.DB, parentID string, rows json.RawMessage) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(rows, &raws); err != nil {
		return apierr.Field(in.name, "liste de lignes attendue")
	}

	tx = tx.WithContext(ctx)
	for i, raw := range raws {
		prefix := fmt.Sprintf("%s[%d]", in.name, i)

		var ctl inlineRow
		if err := json.Unmarshal(raw, &ctl); err != nil {
			return apierr.Field(prefix, "objet attendu")
		}

		if ctl.ID == "" {
			if ctl.Delete {
				continue
			}
			child := PC(new(C))
			if err := in.save(tx, child, raw, "", parentID, prefix); err != nil {
				return err
			}
			continue
		}

		child := PC(new(C))
		err := tx.Where("id = ? AND "+in.fk+" = ?", ctl.ID, parentID).First(child).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.Field(prefix+".id", "ligne inconnue pour ce parent")
		}
		if err != nil {
			return err
		}

		if ctl.Delete {
			if err := tx.Delete(child).Error; err != nil {
				return fmt.Errorf("suppression %s: %w", prefix, err)
			}
			continue
		}
		if err := in.save(tx, child, raw, ctl.ID, parentID, prefix); err != nil {
			return err
		}
	}
	return nil
}

func (in *TabularInline[C, PC]) save(tx *gorm.DB, child PC, raw json.RawMessage, id, parentID, prefix string) error {
	if err := json.Unmarshal(raw, child); err != nil {
		return prefixed(apierr.FromBinding(err), prefix)
	}
	// La clé et le parent viennent de l'URL, jamais de la ligne.
	child.SetPrimaryKey(id)
	child.SetParentKey(parentID)

	if err := binding.Validator.ValidateStruct(child); err != nil {
		return prefixed(apierr.FromBinding(err), prefix)
	}
	if err := clean(tx, child); err != nil {
		return prefixed(err, prefix)
	}

	q := tx.Omit(clause.Associations)
	if id == "" {
		return q.Create(child).Error
	}
	return q.Save(child).Error
}

func (in *TabularInline[C, PC]) DeleteAll(ctx context.Context, tx *gorm.DB, parentID string) error {
	if err := tx.WithContext(ctx).Where(in.fk+" = ?", parentID).Delete(new(C)).Error; err != nil {
		return fmt.Errorf("suppression %s: %w", in.name, err)
	}
	return nil
}
