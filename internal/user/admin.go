package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/admin"
)

// IsAdmin vérifie si un utilisateur est admin à partir de son ID
func (r *Repository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	if err := r.db.WithContext(ctx).Model(&User{}).Select("is_admin").Where("id = ?", userID).Scan(&isAdmin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil // utilisateur introuvable, donc pas admin
		}
		return false, err
	}
	return isAdmin, nil
}

func RegisterAdmin(site *admin.Site, db *gorm.DB) error {
	return site.Register(admin.NewModel[User](db, "users"))
}
