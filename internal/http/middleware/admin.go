package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/models"
)

// AdminOnly пропускает только аккаунты с ролью ADMIN.
// Должен стоять после AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "доступ только для администраторов"})
			return
		}
		c.Next()
	}
}

// ModelOnly пропускает только аккаунты с ролью MODEL или ADMIN.
func ModelOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		if role != models.RoleModel && role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "доступ только для моделей"})
			return
		}
		c.Next()
	}
}
