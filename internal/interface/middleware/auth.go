package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bug-tracker-api/internal/application"
	repo "github.com/oksasatya/bug-tracker-api/internal/domain/repository"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
	"github.com/oksasatya/bug-tracker-api/pkg/response"
)

const CtxPrincipalKey = "principal"

// Auth validates the Authorization bearer token and resolves the caller into
// a Principal. The role is re-read from the credential store on every request
// rather than trusted from the token, so role changes bite immediately.
// The Principal is set in the Gin context; handlers pull it out once and pass
// it explicitly into service calls.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, helpers.ErrExpiredToken) {
				msg = "token expired"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
				c.Abort()
				return
			}
			response.Error[any](c, http.StatusServiceUnavailable, "service unavailable", nil)
			c.Abort()
			return
		}
		c.Set(CtxPrincipalKey, application.Principal{ID: u.ID, Role: u.Role})
		c.Set("userID", u.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFrom extracts the principal resolved by Auth.
func PrincipalFrom(c *gin.Context) (application.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return application.Principal{}, false
	}
	p, ok := v.(application.Principal)
	return p, ok
}
