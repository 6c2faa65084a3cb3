package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eugeniogarcia/django/internal/apierr"
	"github.com/eugeniogarcia/django/internal/logs"
	"github.com/eugeniogarcia/django/internal/store"
	"github.com/eugeniogarcia/django/internal/user"
)

type Handler struct {
	users  *user.Repository
	secret []byte
	ttl    time.Duration
}

func NewHandler(users *user.Repository, secret []byte, ttl time.Duration) *Handler {
	return &Handler{users: users, secret: secret, ttl: ttl}
}

type signupInput struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup POST /api/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	route := c.FullPath()

	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	// Vérification que email et username n'existent pas
	if h.users.ExistsByUsername(c.Request.Context(), input.Username) {
		c.JSON(http.StatusConflict, gin.H{"error": "Nom d'utilisateur déjà utilisé"})
		return
	}
	if input.Email != "" && h.users.ExistsByEmail(c.Request.Context(), input.Email) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email déjà utilisé"})
		return
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	newUser := user.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(c.Request.Context(), &newUser); err != nil {
		// Deux inscriptions simultanées passent la vérification ci-dessus
		if errors.Is(err, user.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Nom d'utilisateur déjà utilisé"})
			return
		}
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Utilisateur inscrit",
		"user":    newUser,
	})
	logs.LogJSON("INFO", "User signed up", map[string]interface{}{
		"route":  route,
		"userID": newUser.ID,
	})
}

// Login POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	route := c.FullPath()

	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	u, err := h.users.FindByUsername(c.Request.Context(), input.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		apierr.Respond(c, err)
		return
	}
	if u == nil || !CheckPassword(u.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		logs.LogJSON("WARN", "Login failed", map[string]interface{}{
			"route":    route,
			"username": input.Username,
		})
		return
	}

	token, err := IssueToken(h.secret, u.ID, h.ttl)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(h.ttl.Seconds()),
	})
}

// Me GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users.FindByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
