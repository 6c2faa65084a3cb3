package article

import (
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/admin"
)

// RegisterAdmin enregistre Article, avec ses commentaires en inline,
// puis Comment seul.
func RegisterAdmin(site *admin.Site, db *gorm.DB) error {
	comments := admin.NewTabularInline[Comment]("comments", "article_id")
	if err := site.Register(admin.NewModel[Article](db, "articles", comments)); err != nil {
		return err
	}
	return site.Register(admin.NewModel[Comment](db, "comments"))
}
