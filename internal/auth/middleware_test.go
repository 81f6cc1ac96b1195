package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/store"

	"github.com/gin-gonic/gin"
)

func newAuthedRouter(svc *Service, lookup UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", Middleware(svc, lookup), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": BearerToken(c)})
	})
	return engine
}

func okLookup(_ context.Context, id int64) (*store.User, error) {
	return &store.User{ID: id, Username: "alice"}, nil
}

func TestMiddlewareAllowsValidToken(t *testing.T) {
	svc := NewService("secret", time.Minute)
	token, err := svc.MintToken(42)
	if err != nil {
		t.Fatalf("MintToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthedRouter(svc, okLookup).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
	}
}

func TestMiddlewareRejections(t *testing.T) {
	svc := NewService("secret", time.Minute)
	expiredSvc := NewService("secret", -time.Minute)

	validToken, err := svc.MintToken(42)
	if err != nil {
		t.Fatalf("MintToken returned error: %v", err)
	}
	expiredToken, err := expiredSvc.MintToken(42)
	if err != nil {
		t.Fatalf("MintToken returned error: %v", err)
	}

	failLookup := func(context.Context, int64) (*store.User, error) {
		return nil, store.ErrNotFound
	}

	cases := map[string]struct {
		header string
		lookup UserLookup
	}{
		"missing header":    {header: "", lookup: okLookup},
		"wrong scheme":      {header: "Basic " + validToken, lookup: okLookup},
		"garbage token":     {header: "Bearer not.a.token", lookup: okLookup},
		"expired token":     {header: "Bearer " + expiredToken, lookup: okLookup},
		"user lookup fails": {header: "Bearer " + validToken, lookup: failLookup},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			newAuthedRouter(svc, tc.lookup).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401", w.Code)
			}
			if w.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}
