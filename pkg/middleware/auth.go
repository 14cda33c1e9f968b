package middleware

import (
	"strings"

	"assetflow/internal/dto"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/service"
	"assetflow/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет access-токен и кладёт dto.Identity в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		identity, err := m.identityFromToken(parts[1])
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := utils.WithIdentity(c.Request().Context(), identity)
		c.SetRequest(c.Request().WithContext(ctx))

		m.logger.Debug("AuthMiddleware: Пользователь аутентифицирован",
			zap.Uint64("userID", identity.UserID),
			zap.String("role", string(identity.Role)),
		)
		return next(c)
	}
}

// AuthFromQuery используется там, где заголовок не передать (websocket).
func (m *AuthMiddleware) AuthFromQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}
		identity, err := m.identityFromToken(token)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		c.SetRequest(c.Request().WithContext(utils.WithIdentity(c.Request().Context(), identity)))
		return next(c)
	}
}

func (m *AuthMiddleware) identityFromToken(token string) (dto.Identity, error) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
		return dto.Identity{}, err
	}
	if claims.IsRefreshToken {
		m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
		return dto.Identity{}, apperrors.ErrTokenIsNotAccess
	}
	return dto.Identity{
		UserID:     claims.UserID,
		Role:       claims.Role,
		EmployeeID: claims.EmployeeID,
	}, nil
}

// RequireRoles пропускает запрос только для перечисленных ролей.
func (m *AuthMiddleware) RequireRoles(roles ...constants.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := utils.GetIdentityFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !identity.HasRole(roles...) {
				m.logger.Warn("Доступ запрещён",
					zap.Uint64("userID", identity.UserID),
					zap.String("role", string(identity.Role)),
					zap.String("path", c.Path()),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}
