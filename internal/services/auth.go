package services

import (
	"context"
	"errors"
	"fmt"

	"assetflow/internal/dto"
	"assetflow/internal/repositories"
	"assetflow/pkg/config"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/service"
	"assetflow/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.AuthResponseDTO, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	profiles  *ProfileService
	jwt       service.JWTService
	logger    *zap.Logger
	cfg       *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	profiles *ProfileService,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		profiles:  profiles,
		jwt:       jwtSvc,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	logger := s.logger.With(zap.String("login", payload.Login))

	user, err := s.userRepo.FindByUsername(ctx, payload.Login)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Ошибка поиска пользователя", zap.Error(err))
		}
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.checkLockout(ctx, user.ID); err != nil {
		logger.Warn("Вход заблокирован после неудачных попыток")
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		logger.Warn("Неверный пароль")
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, user.ID)

	resp, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("Успешный вход", zap.Uint64("userID", user.ID), zap.String("role", resp.Role))
	return resp, nil
}

// RefreshToken выдаёт новую пару токенов. Роль определяется заново: её мог поменять администратор.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	if _, err := s.userRepo.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return s.issueTokens(ctx, claims.UserID)
}

// Me - данные текущего пользователя без новых токенов.
func (s *AuthService) Me(ctx context.Context) (*dto.AuthResponseDTO, error) {
	identity, err := utils.GetIdentityFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return &dto.AuthResponseDTO{
		UserID:      identity.UserID,
		Role:        string(identity.Role),
		EmployeeID:  identity.EmployeeID,
		LandingPage: identity.Role.LandingPage(),
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uint64) (*dto.AuthResponseDTO, error) {
	identity, err := s.profiles.ResolveIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}
	access, refresh, err := s.jwt.GenerateTokens(identity.UserID, identity.Role, identity.EmployeeID)
	if err != nil {
		s.logger.Error("Не удалось сгенерировать токены", zap.Uint64("userID", userID), zap.Error(err))
		return nil, err
	}
	return &dto.AuthResponseDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       identity.UserID,
		Role:         string(identity.Role),
		EmployeeID:   identity.EmployeeID,
		LandingPage:  identity.Role.LandingPage(),
	}, nil
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	lockoutKey := fmt.Sprintf("lockout:%d", userID)

	// Если ключ существует - вход заблокирован
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return apperrors.ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	if attempts == 1 {
		s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%d", userID)
		s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration)
		s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	s.cacheRepo.Del(ctx, attemptsKey, lockoutKey)
}
