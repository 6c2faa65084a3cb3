package article

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/user"
)

type Article struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255" binding:"required,max=255"`
	Body      string    `json:"body" binding:"required"`
	AuthorID  string    `json:"author" gorm:"index;not null" binding:"required"`
	Author    user.User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" binding:"-"`
	Comments  []Comment `json:"-" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" binding:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment appartient à un seul article et disparaît avec lui.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ArticleID string    `json:"article" gorm:"index;not null" binding:"required"`
	Comment   string    `json:"comment" gorm:"size:140" binding:"required,max=140"`
	AuthorID  string    `json:"author" gorm:"index;not null" binding:"required"`
	Author    user.User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" binding:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Article) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Article) PrimaryKey() string      { return a.ID }
func (a *Article) SetPrimaryKey(id string) { a.ID = id }
func (a *Article) AuthorKey() string       { return a.AuthorID }

func (a *Article) Clean(tx *gorm.DB) error {
	return authorExists(tx, a.AuthorID)
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Comment) PrimaryKey() string      { return c.ID }
func (c *Comment) SetPrimaryKey(id string) { c.ID = id }
func (c *Comment) SetParentKey(id string)  { c.ArticleID = id }
func (c *Comment) AuthorKey() string       { return c.AuthorID }

// Clean vérifie que l'article et l'auteur référencés existent.
func (c *Comment) Clean(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&Article{}).Where("id = ?", c.ArticleID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apierr.Field("article", "article inconnu")
	}
	return authorExists(tx, c.AuthorID)
}

func authorExists(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&user.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apierr.Field("author", "utilisateur inconnu")
	}
	return nil
}
