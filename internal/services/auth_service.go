package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/caching"
	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenIssuer   = "backoffice-auth"
	tokenAudience = "backoffice-api"
)

// AuthService issues and rotates bearer token pairs.
type AuthService interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(token string) (*TokenClaims, error)
	RevokeToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	userRepo   repositories.UserRepository
	logger     *zap.Logger
	jwtSecret  []byte
	tokenTTL   time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

func NewAuthService(cacheSvc caching.CacheService, userRepo repositories.UserRepository, logger *zap.Logger, jwtSecret string, tokenTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		userRepo:   userRepo,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateTokens signs an access token and stores a fresh opaque refresh token.
func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := s.now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprint(user.ID),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refresh, err := generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session, err := json.Marshal(models.RefreshSession{UserID: user.ID, ExpiresAt: now.Add(s.refreshTTL)})
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetString(ctx, refreshKey(refresh), string(session), s.refreshTTL); err != nil {
		// Access token is still usable; only refresh will fail.
		s.logger.Warn("failed to store refresh token", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return &models.TokenResponse{
		Access:    access,
		Refresh:   refresh,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokenTTL.Seconds()),
		IssuedAt:  now,
	}, nil
}

// RefreshToken consumes the refresh token and returns a new pair.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	data, err := s.cacheSvc.TakeString(ctx, refreshKey(refreshToken))
	if err != nil {
		if errors.Is(err, caching.ErrCacheMiss) {
			return nil, fmt.Errorf("token is invalid or expired: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("refresh store: %w", common.ErrUnavailable)
	}

	var session models.RefreshSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("token is invalid or expired: %w", common.ErrUnauthorized)
	}
	if s.now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("token is invalid or expired: %w", common.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user is inactive: %w", common.ErrUnauthorized)
	}

	return s.GenerateTokens(ctx, user)
}

func (s *authService) ValidateToken(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v: %w", err, common.ErrUnauthorized)
	}

	if claims, ok := parsed.Claims.(*TokenClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims: %w", common.ErrUnauthorized)
}

func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshKey(refreshToken))
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// refreshKey stores only a SHA-256 of the token.
func refreshKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "refresh_token:" + hex.EncodeToString(sum[:])
}
