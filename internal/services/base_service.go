package services

import (
	"context"
	"encoding/json"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/utils"

	"go.uber.org/zap"
)

// BaseService - общие для сервисов проверка роли и кеш.
type BaseService struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewBaseService(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *BaseService {
	return &BaseService{cache: cache, logger: logger}
}

// Authorize достаёт пользователя из контекста и проверяет, что его роль входит в roles.
func (s *BaseService) Authorize(ctx context.Context, roles ...constants.Role) (dto.Identity, error) {
	identity, err := utils.GetIdentityFromCtx(ctx)
	if err != nil {
		s.logger.Error("Пользователь не авторизован", zap.Error(err))
		return dto.Identity{}, apperrors.ErrUnauthorized
	}
	if !identity.HasRole(roles...) {
		s.logger.Warn("Отказано в доступе",
			zap.Uint64("userID", identity.UserID),
			zap.String("role", string(identity.Role)),
		)
		return identity, apperrors.ErrForbidden
	}
	return identity, nil
}

// CacheGet возвращает true, если значение найдено и разобрано. Ошибки кеша не фатальны.
func (s *BaseService) CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		s.logger.Warn("Повреждённое значение в кеше", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *BaseService) CacheSet(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, serialized, ttl); err != nil {
		s.logger.Warn("Не удалось записать в кеш", zap.String("key", key), zap.Error(err))
	}
}

func (s *BaseService) CacheDel(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("Не удалось очистить кеш", zap.Strings("keys", keys), zap.Error(err))
	}
}
