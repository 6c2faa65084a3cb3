package todo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post est une entrée de la todo-list. Pas d'auteur, pas de contrôle d'accès.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:200" binding:"required,max=200"`
	Body      string    `json:"body" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "todo_posts"
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Post) PrimaryKey() string      { return p.ID }
func (p *Post) SetPrimaryKey(id string) { p.ID = id }
