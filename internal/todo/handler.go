package todo

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/store"
)

type Handler struct {
	posts *store.Repository[Post]
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{posts: store.New[Post](db)}
}

type postInput struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required"`
}

type postPatch struct {
	Title *string `json:"title" binding:"omitnil,min=1,max=200"`
	Body  *string `json:"body" binding:"omitnil,min=1"`
}

// List GET /api/todo/posts
func (h *Handler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Create POST /api/todo/posts
func (h *Handler) Create(c *gin.Context) {
	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	newPost := Post{Title: input.Title, Body: input.Body}
	if err := h.posts.Create(c.Request.Context(), &newPost); err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Todo créé avec succès",
		"post":    newPost,
	})
	logs.LogJSON("INFO", "Todo created", map[string]interface{}{
		"route":  c.FullPath(),
		"postID": newPost.ID,
	})
}

// Retrieve GET /api/todo/posts/:id
func (h *Handler) Retrieve(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

// Update PUT|PATCH /api/todo/posts/:id
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.posts.Get(ctx, c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
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
		p.Title, p.Body = input.Title, input.Body
	}

	if err := h.posts.Save(ctx, p); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

// Destroy DELETE /api/todo/posts/:id
func (h *Handler) Destroy(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.posts.Get(ctx, c.Param("id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if err := h.posts.Delete(ctx, p); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
	logs.LogJSON("INFO", "Todo deleted", map[string]interface{}{
		"route":  c.FullPath(),
		"postID": p.ID,
	})
}
