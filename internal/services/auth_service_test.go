package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"backoffice/internal/caching"
	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-0123456789"

func newTestAuth(cache *MockCacheService, users *MockUserRepository) *authService {
	return NewAuthService(cache, users, zap.NewNop(), testSecret, time.Hour, 24*time.Hour).(*authService)
}

func sessionJSON(t *testing.T, userID int64, expires time.Time) string {
	t.Helper()
	b, err := json.Marshal(models.RefreshSession{UserID: userID, ExpiresAt: expires})
	require.NoError(t, err)
	return string(b)
}

func TestAuthService_GenerateAndValidate(t *testing.T) {
	cache := &MockCacheService{}
	svc := newTestAuth(cache, &MockUserRepository{})
	user := &models.User{ID: 42, Username: "alice", IsStaff: true, IsActive: true}

	cache.On("SetString", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > len("refresh_token:") && key[:len("refresh_token:")] == "refresh_token:"
	}), mock.AnythingOfType("string"), 24*time.Hour).Return(nil).Once()

	tokens, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, 3600, tokens.ExpiresIn)
	assert.NotEmpty(t, tokens.Refresh)

	claims, err := svc.ValidateToken(tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	cache.AssertExpectations(t)
}

func TestAuthService_GenerateTokens_CacheFailureStillIssues(t *testing.T) {
	cache := &MockCacheService{}
	svc := newTestAuth(cache, &MockUserRepository{})
	cache.On("SetString", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	tokens, err := svc.GenerateTokens(context.Background(), &models.User{ID: 1, Username: "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	cache := &MockCacheService{}
	cache.On("SetString", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	issuer := NewAuthService(cache, &MockUserRepository{}, zap.NewNop(), "another-secret", time.Hour, time.Hour)
	tokens, err := issuer.GenerateTokens(context.Background(), &models.User{ID: 1})
	require.NoError(t, err)

	svc := newTestAuth(cache, &MockUserRepository{})
	for name, token := range map[string]string{
		"foreign signature": tokens.Access,
		"garbage":           "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, common.ErrUnauthorized)
		})
	}

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { svc.now = time.Now }()
		old, err := svc.GenerateTokens(context.Background(), &models.User{ID: 1})
		require.NoError(t, err)
		svc.now = time.Now
		_, err = svc.ValidateToken(old.Access)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the pair", func(t *testing.T) {
		cache := &MockCacheService{}
		users := &MockUserRepository{}
		svc := newTestAuth(cache, users)

		cache.On("TakeString", ctx, refreshKey("old-refresh")).
			Return(sessionJSON(t, 7, time.Now().Add(time.Hour)), nil).Once()
		users.On("GetByID", ctx, int64(7)).Return(&models.User{ID: 7, Username: "carol", IsActive: true}, nil).Once()
		cache.On("SetString", ctx, mock.Anything, mock.Anything, 24*time.Hour).Return(nil).Once()

		tokens, err := svc.RefreshToken(ctx, "old-refresh")
		require.NoError(t, err)
		assert.NotEqual(t, "old-refresh", tokens.Refresh)
		cache.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		setup   func(t *testing.T, cache *MockCacheService, users *MockUserRepository)
		wantErr error
	}{
		{
			name: "unknown token",
			setup: func(t *testing.T, cache *MockCacheService, users *MockUserRepository) {
				cache.On("TakeString", ctx, refreshKey("tok")).Return("", caching.ErrCacheMiss)
			},
			wantErr: common.ErrUnauthorized,
		},
		{
			name: "store unavailable",
			setup: func(t *testing.T, cache *MockCacheService, users *MockUserRepository) {
				cache.On("TakeString", ctx, refreshKey("tok")).Return("", errors.New("connection refused"))
			},
			wantErr: common.ErrUnavailable,
		},
		{
			name: "expired session",
			setup: func(t *testing.T, cache *MockCacheService, users *MockUserRepository) {
				cache.On("TakeString", ctx, refreshKey("tok")).Return(sessionJSON(t, 7, time.Now().Add(-time.Minute)), nil)
			},
			wantErr: common.ErrUnauthorized,
		},
		{
			name: "inactive user",
			setup: func(t *testing.T, cache *MockCacheService, users *MockUserRepository) {
				cache.On("TakeString", ctx, refreshKey("tok")).Return(sessionJSON(t, 7, time.Now().Add(time.Hour)), nil)
				users.On("GetByID", ctx, int64(7)).Return(&models.User{ID: 7, IsActive: false}, nil)
			},
			wantErr: common.ErrUnauthorized,
		},
		{
			name: "deleted user",
			setup: func(t *testing.T, cache *MockCacheService, users *MockUserRepository) {
				cache.On("TakeString", ctx, refreshKey("tok")).Return(sessionJSON(t, 7, time.Now().Add(time.Hour)), nil)
				users.On("GetByID", ctx, int64(7)).Return(nil, common.NotFound("user"))
			},
			wantErr: common.ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &MockCacheService{}
			users := &MockUserRepository{}
			tt.setup(t, cache, users)

			_, err := newTestAuth(cache, users).RefreshToken(ctx, "tok")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_RevokeToken(t *testing.T) {
	cache := &MockCacheService{}
	cache.On("Delete", mock.Anything, refreshKey("abc")).Return(nil).Once()

	require.NoError(t, newTestAuth(cache, &MockUserRepository{}).RevokeToken(context.Background(), "abc"))
	cache.AssertExpectations(t)
}

func TestRefreshKeyHidesToken(t *testing.T) {
	key := refreshKey("secret-value")
	assert.NotContains(t, key, "secret-value")
	assert.Equal(t, key, refreshKey("secret-value"))
	assert.NotEqual(t, key, refreshKey("secret-value2"))
}
