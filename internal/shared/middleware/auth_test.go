package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/shared/access"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
)

type stubResolver struct {
	principals map[uuid.UUID]access.Principal
}

func (s *stubResolver) ResolvePrincipal(_ context.Context, id uuid.UUID) (access.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return access.Anonymous, errors.New("not found")
	}
	return p, nil
}

func newIdentityRouter(t *testing.T) (*gin.Engine, *jwt.Manager, cache.Cache, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.NewManager("test-secret", time.Hour, 0)
	mem := cache.NewMemoryCache()
	staffID := uuid.New()
	resolver := &stubResolver{principals: map[uuid.UUID]access.Principal{
		staffID: {UserID: staffID, Username: "staff", Caps: access.CapsFor(true, true, false)},
	}}

	r := gin.New()
	r.Use(Identity(tokens, mem, resolver))
	r.GET("/whoami", func(c *gin.Context) {
		p := access.FromContext(c)
		c.JSON(http.StatusOK, gin.H{"anonymous": p.IsAnonymous(), "username": p.Username})
	})
	r.GET("/staff", RequireStaff(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/super", RequireSuperuser(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, tokens, mem, staffID
}

func whoami(t *testing.T, r *gin.Engine, req *http.Request) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIdentity_ResolvesBearerAndCookie(t *testing.T) {
	r, tokens, _, staffID := newIdentityRouter(t)
	token, err := tokens.GenerateAccessToken(staffID.String(), "staff@example.com", "staff")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, "staff", whoami(t, r, req)["username"])

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	assert.Equal(t, false, whoami(t, r, req)["anonymous"])
}

func TestIdentity_AnonymousCases(t *testing.T) {
	r, tokens, mem, staffID := newIdentityRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	assert.Equal(t, true, whoami(t, r, req)["anonymous"])

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, true, whoami(t, r, req)["anonymous"])

	unknown, err := tokens.GenerateAccessToken(uuid.NewString(), "x@example.com", "x")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+unknown)
	assert.Equal(t, true, whoami(t, r, req)["anonymous"])

	revoked, err := tokens.GenerateAccessToken(staffID.String(), "staff@example.com", "staff")
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(revoked)
	require.NoError(t, err)
	require.NoError(t, mem.Set(context.Background(), jwt.BlacklistKey(claims.ID), true, time.Hour))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+revoked)
	assert.Equal(t, true, whoami(t, r, req)["anonymous"])
}

func TestRequireStaff(t *testing.T) {
	r, tokens, _, staffID := newIdentityRouter(t)
	token, err := tokens.GenerateAccessToken(staffID.String(), "staff@example.com", "staff")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Staff without superuser is softly denied
	req = httptest.NewRequest(http.MethodGet, "/super", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "PERMISSION_DENIED", errBody["code"])
	assert.Equal(t, "/", errBody["details"].(map[string]interface{})["redirect"])

	req = httptest.NewRequest(http.MethodGet, "/super", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "flash=")
}

func TestRequireAuthor_SendsReadersToApply(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		caps     access.Capability
		status   int
		redirect string
	}{
		{"anonymous", 0, http.StatusUnauthorized, ""},
		{"reader", access.CapsFor(false, false, false), http.StatusForbidden, "/apply-to-write/"},
		{"author", access.CapsFor(true, false, false), http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				access.Set(c, access.Principal{UserID: uuid.New(), Caps: tc.caps})
			})
			r.POST("/post/create/", RequireAuthor(), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/post/create/", nil))
			require.Equal(t, tc.status, w.Code)

			if tc.redirect != "" {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
				assert.Equal(t, tc.redirect, details["redirect"])
			}
		})
	}
}
