package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	IsInstructor    bool
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
	Denylist TokenDenylist // 为 nil 时注销只在客户端生效
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, denylist TokenDenylist) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Denylist: denylist,
	}
}

func (in *RegisterInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if !util.ValidUsername(in.Username) {
		return fmt.Errorf("%w: username must be 2-20 letters, digits or underscores", util.ErrInvalidInput)
	}
	if !util.ValidEmail(in.Email) {
		return fmt.Errorf("%w: invalid email address", util.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", util.ErrInvalidInput, MinPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", util.ErrInvalidInput)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	usernameTaken, emailTaken, err := s.UserRepo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, ErrUsernameTaken
	}
	if emailTaken {
		return nil, ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		Password:     string(hashed),
		IsInstructor: in.IsInstructor,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already registered", util.ErrConflict)
		}
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("userID", user.ID),
		zap.String("username", user.Username),
		zap.Bool("instructor", user.IsInstructor),
	)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredential
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredential
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.UserRepo.UpdateLastSeen(ctx, user.ID, time.Now()); err != nil {
		logger.Log.Warn("Failed to update last seen", zap.Uint("userID", user.ID), zap.Error(err))
	}
	return token, user, nil
}

// Logout 将 token 的 jti 加入黑名单直到其过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.Denylist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.Denylist.Revoke(ctx, claims.ID, ttl)
}

// IsRevoked 黑名单不可用时放行，只记录日志
func (s *AuthService) IsRevoked(ctx context.Context, jti string) bool {
	if s.Denylist == nil || jti == "" {
		return false
	}
	revoked, err := s.Denylist.IsRevoked(ctx, jti)
	if err != nil {
		logger.Log.Warn("Token denylist lookup failed", zap.Error(err))
		return false
	}
	return revoked
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}
