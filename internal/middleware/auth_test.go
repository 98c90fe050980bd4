package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieulrl/world-chat-sub000/shared/domain"
	jwt_internal "github.com/mathieulrl/world-chat-sub000/shared/jwt"
)

const secretKey = "test-secret"

func TestNeedAuthCookie(t *testing.T) {
	jwtService := jwt_internal.New(secretKey, time.Hour)
	auth := NewAuth(jwtService)

	var seen domain.Identity
	handler := auth.NeedAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = identity
	}))

	token, err := jwtService.NewToken(domain.Identity{Id: "u1", Address: "0xabc"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Identity{Id: "u1", Address: "0xabc"}, seen)
}

func TestNeedAuthBearerHeader(t *testing.T) {
	jwtService := jwt_internal.New(secretKey, time.Hour)
	auth := NewAuth(jwtService)

	var seen domain.Identity
	handler := auth.NeedAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		seen = identity
	}))

	token, err := jwtService.NewToken(domain.Identity{Id: "u1", Address: "0xabc"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xabc", seen.Address)
}

func TestNeedAuthRejections(t *testing.T) {
	jwtService := jwt_internal.New(secretKey, time.Hour)
	auth := NewAuth(jwtService)
	handler := auth.NeedAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	}))

	otherService := jwt_internal.New("different-secret", time.Hour)
	forged, err := otherService.NewToken(domain.Identity{Id: "u1", Address: "0xabc"})
	require.NoError(t, err)

	expiredService := jwt_internal.New(secretKey, -time.Hour)
	expired, err := expiredService.NewToken(domain.Identity{Id: "u1", Address: "0xabc"})
	require.NoError(t, err)

	noAddrService := jwt_internal.New(secretKey, time.Hour)
	noAddr, err := noAddrService.NewToken(domain.Identity{Id: "u1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
	}{
		{"no token", func(r *http.Request) {}},
		{"garbage token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.token")
		}},
		{"wrong signing key", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+forged)
		}},
		{"expired token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+expired)
		}},
		{"missing wallet address claim", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+noAddr)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(r)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestIdentityFromContextEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(r.Context())
	assert.False(t, ok)
}
