package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/collabwrite/collabwrite/internal/sessions"
)

type fakeToken struct {
	claims map[string]interface{}
}

func (f *fakeToken) Claims(v interface{}) error {
	m, ok := v.(*map[string]interface{})
	if !ok {
		return errors.New("unexpected claims target")
	}
	*m = f.claims
	return nil
}

type fakeVerifier struct {
	claims map[string]interface{}
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, raw string) (Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeToken{claims: f.claims}, nil
}

func authRouter(ver Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(ver), func(c *gin.Context) {
		u, _ := UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"sub": u.ID, "name": u.Name, "image": u.Image})
	})
	return r
}

func get(r *gin.Engine, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := authRouter(&fakeVerifier{claims: map[string]interface{}{"sub": "1"}})
	require.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	r := authRouter(&fakeVerifier{claims: map[string]interface{}{"sub": "1"}})
	require.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := authRouter(&fakeVerifier{err: errors.New("bad signature")})
	require.Equal(t, http.StatusUnauthorized, get(r, "Bearer whatever").Code)
}

func TestAuthSetsIdentity(t *testing.T) {
	r := authRouter(&fakeVerifier{claims: map[string]interface{}{
		"sub":     "user-1",
		"name":    "Alice",
		"picture": "https://img/a.png", // OIDC uses picture, not image
	}})
	w := get(r, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"sub":"user-1"`)
	require.Contains(t, w.Body.String(), `"name":"Alice"`)
	require.Contains(t, w.Body.String(), `"image":"https://img/a.png"`)
}

func TestAuthRejectsBlacklistedToken(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sessions.SetBlacklistClient(client)
	defer sessions.SetBlacklistClient(nil)

	require.NoError(t, sessions.BlacklistAccessToken(context.Background(), "revoked-token", time.Minute))

	// the verifier would accept it; the blacklist must win
	r := authRouter(&fakeVerifier{claims: map[string]interface{}{"sub": "1"}})
	require.Equal(t, http.StatusUnauthorized, get(r, "Bearer revoked-token").Code)
	require.Equal(t, http.StatusOK, get(r, "Bearer other-token").Code)
}
