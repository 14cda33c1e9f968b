// pkg/utils/context.go

package utils

import (
	"context"

	"assetflow/internal/dto"
	"assetflow/pkg/contextkeys"
	apperrors "assetflow/pkg/errors"
)

func WithIdentity(ctx context.Context, identity dto.Identity) context.Context {
	return context.WithValue(ctx, contextkeys.IdentityKey, identity)
}

func GetIdentityFromCtx(ctx context.Context) (dto.Identity, error) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(dto.Identity)
	if !ok || identity.UserID == 0 {
		return dto.Identity{}, apperrors.ErrIdentityNotFoundInContext
	}
	return identity, nil
}
