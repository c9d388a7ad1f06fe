package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/logger"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
	"github.com/dungeonlive/dungeon-backend/internal/session"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			statusCode, message := mapError(err.Err)

			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"status": statusCode,
				}).Error("Request error")
			}

			c.JSON(statusCode, gin.H{"error": message})
		}
	}
}

// mapError переводит доменную ошибку в HTTP статус и сообщение клиенту.
func mapError(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, appErr.Message
	}

	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, session.ErrIdentityNotFound):
		return http.StatusNotFound, "аккаунт не найден"
	case errors.Is(err, ledger.ErrPerformerNotFound):
		return http.StatusNotFound, "модель не найдена"
	case errors.Is(err, ledger.ErrWithdrawalNotFound):
		return http.StatusNotFound, "заявка на вывод не найдена"
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidChargeKind):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrBelowMinimumBalance),
		errors.Is(err, ledger.ErrBelowMinimumRequest),
		errors.Is(err, ledger.ErrInsufficientEarnings):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrInvalidStateTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ledger.ErrTreasuryMissing):
		return http.StatusInternalServerError, "внутренняя ошибка сервера"
	}

	if msg := err.Error(); msg != "" && !containsInternalKeywords(msg) {
		status := http.StatusBadRequest
		if contains(msg, "не найден") {
			status = http.StatusNotFound
		} else if contains(msg, "нет прав") || contains(msg, "запрещ") {
			status = http.StatusForbidden
		}
		return status, msg
	}

	return http.StatusInternalServerError, "внутренняя ошибка сервера"
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
		"redis",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
