package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/domain"
	resp "court-admin/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyUser   = "user"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// BearerToken 取 "Authorization: Bearer xxx" 中的 token
func BearerToken(c *gin.Context) string {
	ah := c.GetHeader("Authorization")
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[7:])
}

// Auth rejects requests without a valid token of an active user and stores
// the user under KeyUser / KeyUserID.
func Auth(a Authenticator, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := a.Authenticate(c.Request.Context(), BearerToken(c))
		if err != nil {
			var de *domain.Error
			if errors.As(err, &de) && de.Kind == domain.KindAuth {
				resp.Abort(c, http.StatusUnauthorized, de.Msg)
				return
			}
			l.Error("auth lookup failed", zap.String("rid", c.GetString(KeyRequestID)), zap.Error(err))
			resp.Internal(c)
			return
		}
		c.Set(KeyUser, u)
		c.Set(KeyUserID, u.ID)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(KeyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
