package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/backend/internal/auth"
	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/middleware"
)

const testSecret = "test-jwt-secret"

func protected() (http.Handler, *bool) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	return h, &called
}

func TestAuth(t *testing.T) {
	token, err := auth.GenerateToken(uuid.New(), "user@test.com", domain.UserRoleMember, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusNoContent, wantCalled: true},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "no bearer prefix", header: token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, called := protected()
			handler := middleware.Auth(testSecret)(next)

			req := httptest.NewRequest(http.MethodGet, "/v1/pets", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, *called)
		})
	}
}

func TestAuth_PopulatesIdentity(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, "admin@test.com", domain.UserRoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)

	var got auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		got = id
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	middleware.Auth(testSecret)(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "admin@test.com", got.Email)
	assert.Equal(t, domain.UserRoleAdmin, got.Role)
	assert.True(t, got.IsPrivileged())
}

func TestRequireAdmin(t *testing.T) {
	adminToken, err := auth.GenerateToken(uuid.New(), "admin@test.com", domain.UserRoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	memberToken, err := auth.GenerateToken(uuid.New(), "member@test.com", domain.UserRoleMember, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCalled bool
	}{
		{name: "admin allowed", token: adminToken, wantStatus: http.StatusNoContent, wantCalled: true},
		{name: "member rejected", token: memberToken, wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, called := protected()
			handler := middleware.Auth(testSecret)(middleware.RequireAdmin(next))

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/accounts/x/adjustments", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, *called)
		})
	}
}
