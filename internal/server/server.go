// Package server assemble le moteur gin : authentification, blog, todo et admin.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eugeniogarcia/django/internal/admin"
	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/article"
	"github.com/eugeniogarcia/django/internal/auth"
	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/middleware"
	"github.com/eugeniogarcia/django/internal/post"
	"github.com/eugeniogarcia/django/internal/todo"
	"github.com/eugeniogarcia/django/internal/user"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte
	TokenTTL  time.Duration
}

// Models liste les modèles à migrer.
func Models() []any {
	return []any{
		&user.User{},
		&post.Post{},
		&todo.Post{},
		&article.Article{},
		&article.Comment{},
	}
}

// resource regroupe les handlers d'une ressource list/create + détail.
type resource interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Retrieve(c *gin.Context)
	Update(c *gin.Context)
	Destroy(c *gin.Context)
}

func New(deps Deps) (*gin.Engine, error) {
	apierr.UseJSONFieldNames()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), logs.RequestLogger())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := user.NewRepository(deps.DB)
	api := r.Group("/api")

	// Inscription & Connexion
	authHandler := auth.NewHandler(users, deps.JWTSecret, deps.TokenTTL)
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthMiddleware(deps.JWTSecret), authHandler.Me)

	blog := api.Group("/blog", middleware.OptionalAuthMiddleware(deps.JWTSecret))
	mountResource(blog, "/posts", "Post", post.NewHandler(deps.DB))

	todos := api.Group("/todo")
	mountResource(todos, "/posts", "Todo", todo.NewHandler(deps.DB))

	site := admin.NewSite()
	for _, register := range []func(*admin.Site, *gorm.DB) error{
		article.RegisterAdmin,
		post.RegisterAdmin,
		todo.RegisterAdmin,
		user.RegisterAdmin,
	} {
		if err := register(site, deps.DB); err != nil {
			return nil, err
		}
	}
	site.Mount(r.Group("/admin",
		middleware.AuthMiddleware(deps.JWTSecret),
		middleware.AdminOnlyMiddleware(users),
	))

	return r, nil
}

func mountResource(g *gin.RouterGroup, path, name string, h resource) {
	detail := path + "/:id"

	g.GET(path, h.List)
	g.HEAD(path, h.List)
	g.POST(path, h.Create)
	g.OPTIONS(path, options(name+" List", http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions))

	g.GET(detail, h.Retrieve)
	g.HEAD(detail, h.Retrieve)
	g.PUT(detail, h.Update)
	g.PATCH(detail, h.Update)
	g.DELETE(detail, h.Destroy)
	g.OPTIONS(detail, options(name+" Detail",
		http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions))
}

func options(name string, methods ...string) gin.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		c.JSON(http.StatusOK, gin.H{
			"name":            name,
			"allowed_methods": methods,
		})
	}
}
