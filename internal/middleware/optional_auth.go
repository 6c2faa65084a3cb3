package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/eugeniogarcia/django/internal/auth"
)

// OptionalAuthMiddleware renseigne user_id si un token valide est présent,
// sinon la requête continue en anonyme.
func OptionalAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if userID, err := auth.ParseToken(secret, tokenStr); err == nil {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
