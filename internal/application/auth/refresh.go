package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type Refresh struct {
	users      ports.UserRepository
	issuer     ports.TokenIssuer
	tokenStore ports.TokenStore
	accessExp  int64
	refreshExp int64
}

func NewRefresh(users ports.UserRepository, issuer ports.TokenIssuer, tokenStore ports.TokenStore, accessExp, refreshExp int64) *Refresh {
	if accessExp <= 0 {
		accessExp = DefaultAccessTokenExpiry
	}
	if refreshExp <= 0 {
		refreshExp = DefaultRefreshTokenExpiry
	}
	return &Refresh{
		users:      users,
		issuer:     issuer,
		tokenStore: tokenStore,
		accessExp:  accessExp,
		refreshExp: refreshExp,
	}
}

// Execute rotates the refresh token: the presented token is revoked and
// replaced in the same call.
func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	if input.RefreshToken == "" {
		return nil, domerrors.ErrInvalidToken
	}
	tokenHash := hashForStorage(input.RefreshToken)
	userID, err := uc.tokenStore.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, domerrors.ErrInvalidToken
	}
	if err := uc.tokenStore.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return nil, err
	}
	accessToken, err := uc.issuer.IssueAccessToken(user.ID.String(), user.Code.String(), uc.accessExp)
	if err != nil {
		return nil, err
	}
	newRefreshRaw := make([]byte, 32)
	if _, err := rand.Read(newRefreshRaw); err != nil {
		return nil, err
	}
	newRefresh := hex.EncodeToString(newRefreshRaw)
	expiresAt := time.Now().Add(time.Duration(uc.refreshExp) * time.Second).Unix()
	if err := uc.tokenStore.StoreRefreshToken(ctx, user.ID, hashForStorage(newRefresh), expiresAt); err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    uc.accessExp,
	}, nil
}
