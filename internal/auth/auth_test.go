package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dp-213/insoledger/internal/auth"
)

func newService() *auth.Service {
	return auth.NewService("test-secret", time.Hour, "verwalter", "geheim")
}

func TestService_Login(t *testing.T) {
	svc := newService()

	token, err := svc.Login("verwalter", "geheim")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "verwalter", user)

	_, err = svc.Login("verwalter", "falsch")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login("wer", "geheim")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Verify_RejectsForeignToken(t *testing.T) {
	svc := newService()
	other := auth.NewService("other-secret", time.Hour, "verwalter", "geheim")

	token, err := other.Login("verwalter", "geheim")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_Middleware(t *testing.T) {
	svc := newService()

	var gotUser string
	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes", func(t *testing.T) {
		token, err := svc.Login("verwalter", "geheim")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "verwalter", gotUser)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
