package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/taskdeck/taskdeck/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUser  = "auth.user"
	ctxKeyToken = "auth.token"
)

// UserLookup loads the user a verified token was issued for.
type UserLookup func(ctx context.Context, id int64) (*store.User, error)

// Middleware authenticates requests with a bearer token. On success the
// resolved user and the raw token are stored on the request context; the
// raw token is kept so the assistant can act against the API as the caller.
func Middleware(svc *Service, lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "Could not validate credentials")
			return
		}

		userID, err := svc.ParseToken(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthorized(c, "Token has expired")
				return
			}
			unauthorized(c, "Could not validate credentials")
			return
		}

		user, err := lookup(c.Request.Context(), userID)
		if err != nil {
			unauthorized(c, "Could not validate credentials")
			return
		}

		c.Set(ctxKeyUser, user)
		c.Set(ctxKeyToken, token)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Middleware.
func CurrentUser(c *gin.Context) *store.User {
	if user, ok := c.Get(ctxKeyUser); ok {
		return user.(*store.User)
	}
	return nil
}

// BearerToken returns the raw access token set by Middleware.
func BearerToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(401, gin.H{"error": detail})
}
