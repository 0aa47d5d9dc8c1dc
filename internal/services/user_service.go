package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// CreateUserInput is the staff-only variant of RegisterInput.
type CreateUserInput struct {
	RegisterInput
	IsActive *bool `json:"is_active"`
	IsStaff  bool  `json:"is_staff"`
}

type UpdateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
	IsStaff  *bool   `json:"is_staff"`
}

type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	Avatar      *Upload
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.TokenResponse, error)
	Me(ctx context.Context, userID int64) (*models.CurrentUser, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*models.CurrentUser, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, username, newPassword, token string) error

	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*models.User, error)
	DeactivateUser(ctx context.Context, id int64) error
}

type userService struct {
	userRepo   repositories.UserRepository
	authSvc    AuthService
	media      *MediaStore
	logger     *zap.Logger
	resetToken string
	bcryptCost int
}

func NewUserService(userRepo repositories.UserRepository, authSvc AuthService, media *MediaStore, logger *zap.Logger, resetToken string) UserService {
	return &userService{
		userRepo:   userRepo,
		authSvc:    authSvc,
		media:      media,
		logger:     logger,
		resetToken: resetToken,
		bcryptCost: bcrypt.DefaultCost,
	}
}

var errBadCredentials = fmt.Errorf("no active account found with the given credentials: %w", common.ErrUnauthorized)

func (s *userService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, true, false)
}

func (s *userService) create(ctx context.Context, in RegisterInput, active, staff bool) (*models.User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     active,
		IsStaff:      staff,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}
	return s.authSvc.GenerateTokens(ctx, user)
}

func (s *userService) Me(ctx context.Context, userID int64) (*models.CurrentUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.AvatarURL = s.media.URL(ctx, profile.Avatar)
	return &models.CurrentUser{User: user, Profile: profile}, nil
}

// UpdateProfile applies only the provided fields; a new avatar replaces the old object.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*models.CurrentUser, error) {
	current, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != current.Email {
		current.Email = *in.Email
		if err := s.userRepo.Update(ctx, current.User); err != nil {
			return nil, err
		}
	}

	oldAvatar := ""
	if in.Avatar != nil {
		key, err := s.media.Save(ctx, "avatars", in.Avatar)
		if err != nil {
			return nil, err
		}
		oldAvatar = current.Profile.Avatar
		current.Profile.Avatar = key
	}
	if in.DisplayName != nil {
		current.Profile.DisplayName = *in.DisplayName
	}
	if in.Avatar != nil || in.DisplayName != nil {
		if err := s.userRepo.UpdateProfile(ctx, current.Profile); err != nil {
			return nil, err
		}
		s.media.Remove(ctx, oldAvatar)
	}

	current.Profile.AvatarURL = s.media.URL(ctx, current.Profile.Avatar)
	return current, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return common.NewValidationError("old_password", "رمز قبلی صحیح نیست")
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// ResetPassword trusts anyone holding the shared reset secret.
func (s *userService) ResetPassword(ctx context.Context, username, newPassword, token string) error {
	if s.resetToken == "" {
		return common.NewValidationError("token", "Password reset is disabled.")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.resetToken)) != 1 {
		return common.NewValidationError("token", "Invalid reset token.")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.logger.Warn("password reset via shared token", zap.String("username", username))
	return nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.create(ctx, in.RegisterInput, active, in.IsStaff)
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsStaff != nil {
		user.IsStaff = *in.IsStaff
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateUser is the admin "delete": accounts are never removed.
func (s *userService) DeactivateUser(ctx context.Context, id int64) error {
	if err := s.userRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("user deactivated", zap.Int64("user_id", id))
	return nil
}
