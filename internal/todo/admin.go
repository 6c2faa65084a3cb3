package todo

import (
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/admin"
)

func RegisterAdmin(site *admin.Site, db *gorm.DB) error {
	return site.Register(admin.NewModel[Post](db, "todos"))
}
