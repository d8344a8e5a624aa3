package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charityfund/faqbot/internal/domain/auth"
	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		token := strings.TrimSpace(parts[1])
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			status := http.StatusForbidden
			code := "invalid_token"
			if !apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			message := apperrors.Message(err)
			if message == "" {
				message = "token validation failed"
			}
			abortWithError(c, NewHTTPError(status, code, message, err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
