package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// Ключи gin.Context, под которыми лежит действующая личность запроса.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware пускает запрос дальше только с валидным access токеном.
// В контекст кладутся id и роль из claims; свежую копию аккаунта из
// документа хэндлеры при необходимости берут через справочник сессий сами.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "нужен заголовок Authorization: Bearer <токен>"})
			return
		}

		userID, role, err := tokens.ParseAccess(raw)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access токен невалиден или истёк"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// bearerToken извлекает токен из заголовка вида "Bearer <токен>".
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
