package auth

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

// Logout revokes a refresh token.
type Logout struct {
	tokenStore ports.TokenStore
}

func NewLogout(tokenStore ports.TokenStore) *Logout {
	return &Logout{tokenStore: tokenStore}
}

func (uc *Logout) Execute(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domerrors.ErrInvalidToken
	}
	return uc.tokenStore.RevokeRefreshToken(ctx, hashForStorage(refreshToken))
}
