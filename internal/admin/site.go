// Package admin expose un panneau d'administration JSON : chaque modèle
// enregistré obtient ses routes CRUD, avec ses éventuelles lignes inline.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eugeniogarcia/django/internal/logs"
)

var ErrAlreadyRegistered = errors.New("modèle déjà enregistré")

// ModelAdmin est la vue d'administration d'un modèle.
type ModelAdmin interface {
	Slug() string
	InlineNames() []string
	Count(ctx context.Context, since time.Time) (int64, error)
	Mount(g *gin.RouterGroup)
}

type Site struct {
	models []ModelAdmin
	bySlug map[string]ModelAdmin
}

func NewSite() *Site {
	return &Site{bySlug: map[string]ModelAdmin{}}
}

func (s *Site) Register(m ModelAdmin) error {
	if _, ok := s.bySlug[m.Slug()]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, m.Slug())
	}
	s.bySlug[m.Slug()] = m
	s.models = append(s.models, m)
	return nil
}

func (s *Site) IsRegistered(slug string) bool {
	_, ok := s.bySlug[slug]
	return ok
}

// Mount branche l'index et les routes de chaque modèle sous g.
func (s *Site) Mount(g *gin.RouterGroup) {
	g.GET("", s.Index)
	for _, m := range s.models {
		m.Mount(g.Group("/" + m.Slug()))
	}
}

// Index GET /admin
func (s *Site) Index(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	startDate := time.Now().AddDate(0, 0, -30) // 30 jours par défaut
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		parsed, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour start_date"})
			return
		}
		startDate = parsed
	}

	ctx := c.Request.Context()
	models := make([]gin.H, 0, len(s.models))
	for _, m := range s.models {
		total, err := m.Count(ctx, time.Time{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du comptage"})
			logs.LogJSON("ERROR", "Admin count failed", map[string]interface{}{
				"error":  err.Error(),
				"model":  m.Slug(),
				"route":  route,
				"userID": userID,
			})
			return
		}
		recent, err := m.Count(ctx, startDate)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du comptage"})
			return
		}

		models = append(models, gin.H{
			"name":    m.Slug(),
			"count":   total,
			"recent":  recent,
			"inlines": m.InlineNames(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"models":     models,
		"start_date": startDate.Format("2006-01-02"),
	})
	logs.LogJSON("INFO", "Admin index retrieved successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
	})
}
