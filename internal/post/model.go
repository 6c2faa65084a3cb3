package post

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/user"
)

// Post est un billet de blog rattaché à son auteur.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	AuthorID  string    `json:"author" gorm:"index;not null" binding:"required"`
	Author    user.User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" binding:"-"`
	Title     string    `json:"title" gorm:"size:50" binding:"required,max=50"`
	Body      string    `json:"body" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "blog_posts"
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Post) PrimaryKey() string      { return p.ID }
func (p *Post) SetPrimaryKey(id string) { p.ID = id }

func (p *Post) AuthorKey() string { return p.AuthorID }

// Clean vérifie que l'auteur référencé existe.
func (p *Post) Clean(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&user.User{}).Where("id = ?", p.AuthorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apierr.Field("author", "utilisateur inconnu")
	}
	return nil
}
