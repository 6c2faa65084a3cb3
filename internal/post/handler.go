package post

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/permission"
	"github.com/eugeniogarcia/django/internal/store"
)

type Handler struct {
	posts *store.Repository[Post]
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{posts: store.New[Post](db)}
}

type postInput struct {
	Author string `json:"author"`
	Title  string `json:"title" binding:"required,max=50"`
	Body   string `json:"body" binding:"required"`
}

type postPatch struct {
	Title *string `json:"title" binding:"omitnil,min=1,max=50"`
	Body  *string `json:"body" binding:"omitnil,min=1"`
}

// List GET /api/blog/posts
func (h *Handler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Create POST /api/blog/posts
func (h *Handler) Create(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	// Le token prime : un utilisateur connecté ne publie qu'en son nom.
	author := userID
	if author == "" {
		author = input.Author
	}
	if author == "" {
		apierr.Respond(c, apierr.Field("author", "ce champ est obligatoire"))
		return
	}

	newPost := Post{
		AuthorID: author,
		Title:    input.Title,
		Body:     input.Body,
	}
	ctx := c.Request.Context()
	if err := newPost.Clean(h.posts.DB().WithContext(ctx)); err != nil {
		apierr.Respond(c, err)
		return
	}
	if err := h.posts.Create(ctx, &newPost); err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post créé avec succès",
		"post":    newPost,
	})
	logs.LogJSON("INFO", "Post created", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"postID": newPost.ID,
	})
}

// object résout le post de l'URL puis applique IsAuthorOrReadOnly.
func (h *Handler) object(c *gin.Context) (*Post, bool) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return nil, false
	}

	if err := permission.CheckAuthorOrReadOnly(c.Request.Method, c.GetString("user_id"), p); err != nil {
		logs.LogJSON("WARN", "Post permission denied", map[string]interface{}{
			"route":  c.FullPath(),
			"method": c.Request.Method,
			"userID": c.GetString("user_id"),
			"postID": p.ID,
		})
		apierr.Respond(c, err)
		return nil, false
	}
	return p, true
}

// Retrieve GET /api/blog/posts/:id
func (h *Handler) Retrieve(c *gin.Context) {
	p, ok := h.object(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

// Update PUT|PATCH /api/blog/posts/:id
func (h *Handler) Update(c *gin.Context) {
	p, ok := h.object(c)
	if !ok {
		return
	}

	if c.Request.Method == http.MethodPatch {
		var patch postPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			apierr.Respond(c, apierr.FromBinding(err))
			return
		}
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Body != nil {
			p.Body = *patch.Body
		}
	} else {
		var input postInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.FromBinding(err))
			return
		}
		p.Title = input.Title
		p.Body = input.Body
	}

	if err := h.posts.Save(c.Request.Context(), p); err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": p})
	logs.LogJSON("INFO", "Post updated", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": c.GetString("user_id"),
		"postID": p.ID,
	})
}

// Destroy DELETE /api/blog/posts/:id
func (h *Handler) Destroy(c *gin.Context) {
	p, ok := h.object(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), p); err != nil {
		apierr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
	logs.LogJSON("INFO", "Post deleted", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": c.GetString("user_id"),
		"postID": p.ID,
	})
}
