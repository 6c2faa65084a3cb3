package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/store"
)

// Cleaner est implémenté par les modèles qui valident leurs références
// avant d'être enregistrés.
type Cleaner interface {
	Clean(tx *gorm.DB) error
}

type recordPtr[T any] interface {
	*T
	store.Record
}

// changeForm est le corps accepté en création et en modification.
type changeForm struct {
	Object  json.RawMessage            `json:"object"`
	Inlines map[string]json.RawMessage `json:"inlines"`
}

// Model est l'administration par défaut d'un modèle gorm.
type Model[T any, PT recordPtr[T]] struct {
	slug    string
	db      *gorm.DB
	inlines []Inline
}

func NewModel[T any, PT recordPtr[T]](db *gorm.DB, slug string, inlines ...Inline) *Model[T, PT] {
	return &Model[T, PT]{slug: slug, db: db, inlines: inlines}
}

func (m *Model[T, PT]) Slug() string { return m.slug }

func (m *Model[T, PT]) InlineNames() []string {
	names := make([]string, 0, len(m.inlines))
	for _, in := range m.inlines {
		names = append(names, in.Name())
	}
	return names
}

// Count compte les lignes, depuis since si non nul.
func (m *Model[T, PT]) Count(ctx context.Context, since time.Time) (int64, error) {
	if since.IsZero() {
		return store.New[T](m.db).Count(ctx)
	}
	var count int64
	err := m.db.WithContext(ctx).Model(new(T)).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (m *Model[T, PT]) Mount(g *gin.RouterGroup) {
	g.GET("", m.list)
	g.POST("", m.create)
	g.GET("/:id", m.retrieve)
	g.PUT("/:id", m.update)
	g.DELETE("/:id", m.destroy)
}

func (m *Model[T, PT]) list(c *gin.Context) {
	items, err := store.New[T](m.db).List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": items, "count": len(items)})
}

func (m *Model[T, PT]) retrieve(c *gin.Context) {
	ctx := c.Request.Context()
	obj, err := store.New[T](m.db).Get(ctx, c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	body := gin.H{"object": obj}
	if len(m.inlines) > 0 {
		inlines := gin.H{}
		for _, in := range m.inlines {
			rows, err := in.Load(ctx, m.db, PT(obj).PrimaryKey())
			if err != nil {
				apierr.Respond(c, err)
				return
			}
			inlines[in.Name()] = rows
		}
		body["inlines"] = inlines
	}
	c.JSON(http.StatusOK, body)
}

func (m *Model[T, PT]) create(c *gin.Context) {
	form, ok := m.bindForm(c)
	if !ok {
		return
	}
	if len(form.Object) == 0 {
		apierr.Respond(c, apierr.Field("object", "ce champ est obligatoire"))
		return
	}

	obj := PT(new(T))
	if err := decodeInto(form.Object, obj); err != nil {
		apierr.Respond(c, err)
		return
	}
	obj.SetPrimaryKey("")

	ctx := c.Request.Context()
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clean(tx, obj); err != nil {
			return err
		}
		if err := store.New[T](tx).Create(ctx, (*T)(obj)); err != nil {
			return err
		}
		return m.applyInlines(ctx, tx, obj.PrimaryKey(), form.Inlines)
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"object": obj})
	m.log(c, "Admin object created", obj.PrimaryKey())
}

func (m *Model[T, PT]) update(c *gin.Context) {
	ctx := c.Request.Context()
	existing, err := store.New[T](m.db).Get(ctx, c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	obj := PT(existing)
	id := obj.PrimaryKey()

	form, ok := m.bindForm(c)
	if !ok {
		return
	}
	if len(form.Object) > 0 {
		if err := decodeInto(form.Object, obj); err != nil {
			apierr.Respond(c, err)
			return
		}
	}
	obj.SetPrimaryKey(id)

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clean(tx, obj); err != nil {
			return err
		}
		if err := store.New[T](tx).Save(ctx, (*T)(obj)); err != nil {
			return err
		}
		return m.applyInlines(ctx, tx, id, form.Inlines)
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"object": obj})
	m.log(c, "Admin object updated", id)
}

func (m *Model[T, PT]) destroy(c *gin.Context) {
	ctx := c.Request.Context()
	obj, err := store.New[T](m.db).Get(ctx, c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	id := PT(obj).PrimaryKey()

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range m.inlines {
			if err := in.DeleteAll(ctx, tx, id); err != nil {
				return err
			}
		}
		return store.New[T](tx).Delete(ctx, obj)
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
	m.log(c, "Admin object deleted", id)
}

func (m *Model[T, PT]) bindForm(c *gin.Context) (*changeForm, bool) {
	var form changeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return nil, false
	}
	for name := range form.Inlines {
		if !m.hasInline(name) {
			apierr.Respond(c, apierr.Field("inlines", fmt.Sprintf("inline inconnu: %s", name)))
			return nil, false
		}
	}
	return &form, true
}

func (m *Model[T, PT]) hasInline(name string) bool {
	for _, in := range m.inlines {
		if in.Name() == name {
			return true
		}
	}
	return false
}

func (m *Model[T, PT]) applyInlines(ctx context.Context, tx *gorm.DB, parentID string, rows map[string]json.RawMessage) error {
	for _, in := range m.inlines {
		raw, ok := rows[in.Name()]
		if !ok {
			continue
		}
		if err := in.Apply(ctx, tx, parentID, raw); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model[T, PT]) log(c *gin.Context, message, id string) {
	logs.LogJSON("INFO", message, map[string]interface{}{
		"model":    m.slug,
		"objectID": id,
		"route":    c.FullPath(),
		"userID":   c.GetString("user_id"),
	})
}

// decodeInto applique raw sur obj puis valide les tags binding.
func decodeInto(raw json.RawMessage, obj any) error {
	if err := json.Unmarshal(raw, obj); err != nil {
		return apierr.FromBinding(err)
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return apierr.FromBinding(err)
	}
	return nil
}

func clean(tx *gorm.DB, obj any) error {
	if cl, ok := obj.(Cleaner); ok {
		return cl.Clean(tx)
	}
	return nil
}

// prefixed préfixe les champs d'une ValidationError (ex. "comments[0].").
func prefixed(err error, prefix string) error {
	var verr *apierr.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make(map[string][]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[prefix+"."+k] = v
	}
	return &apierr.ValidationError{Fields: fields}
}
