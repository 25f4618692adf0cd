package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

type memUserRepo struct {
	byEmail map[string]*domain.User
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.byEmail[email], nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return nil, nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }
func (plainHasher) Verify(password, hash string) bool    { return "h:"+password == hash }

type memTokenStore struct {
	byHash map[string]domain.UserID
}

func (s *memTokenStore) StoreRefreshToken(ctx context.Context, userID domain.UserID, tokenHash string, expiresAt int64) error {
	s.byHash[tokenHash] = userID
	return nil
}

func (s *memTokenStore) GetRefreshToken(ctx context.Context, tokenHash string) (domain.UserID, error) {
	userID, ok := s.byHash[tokenHash]
	if !ok {
		return domain.UserID{}, domerrors.ErrInvalidToken
	}
	return userID, nil
}

func (s *memTokenStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	delete(s.byHash, tokenHash)
	return nil
}

type fakeIssuer struct{ n int }

func (f *fakeIssuer) IssueAccessToken(userID, roleCode string, expiresInSeconds int64) (string, error) {
	f.n++
	return fmt.Sprintf("token-%s-%s-%d", userID, roleCode, f.n), nil
}

func (f *fakeIssuer) ValidateAccessToken(token string) (string, string, error) {
	return "", "", domerrors.ErrInvalidToken
}

func TestLoginRefreshRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := &memUserRepo{byEmail: map[string]*domain.User{}}
	tokens := &memTokenStore{byHash: map[string]domain.UserID{}}
	issuer := &fakeIssuer{}
	hasher := plainHasher{}

	registerUC := NewRegisterUser(users, hasher)
	loginUC := NewLogin(users, hasher, issuer, tokens, 900, 604800)
	refreshUC := NewRefresh(users, issuer, tokens, 900, 604800)
	logoutUC := NewLogout(tokens)

	_, err := registerUC.Execute(ctx, RegisterUserInput{
		Email:    "teo@example.com",
		FullName: "Teo Nguyen",
		Password: "s3cret!!",
	})
	require.NoError(t, err)

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := loginUC.Execute(ctx, LoginInput{Email: "teo@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
	})

	res, err := loginUC.Execute(ctx, LoginInput{Email: "teo@example.com", Password: "s3cret!!"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, int64(900), res.ExpiresIn)

	t.Run("refresh rotates the token", func(t *testing.T) {
		rotated, err := refreshUC.Execute(ctx, RefreshInput{RefreshToken: res.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, res.RefreshToken, rotated.RefreshToken)

		// The presented token is revoked; a replay fails.
		_, err = refreshUC.Execute(ctx, RefreshInput{RefreshToken: res.RefreshToken})
		assert.ErrorIs(t, err, domerrors.ErrInvalidToken)

		// The rotated token works once more.
		_, err = refreshUC.Execute(ctx, RefreshInput{RefreshToken: rotated.RefreshToken})
		require.NoError(t, err)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		res, err := loginUC.Execute(ctx, LoginInput{Email: "teo@example.com", Password: "s3cret!!"})
		require.NoError(t, err)
		require.NoError(t, logoutUC.Execute(ctx, res.RefreshToken))
		_, err = refreshUC.Execute(ctx, RefreshInput{RefreshToken: res.RefreshToken})
		assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
	})

	t.Run("duplicate registration rejected", func(t *testing.T) {
		_, err := registerUC.Execute(ctx, RegisterUserInput{
			Email:    "teo@example.com",
			FullName: "Teo Nguyen",
			Password: "another",
		})
		assert.ErrorIs(t, err, domerrors.ErrUserExists)
	})

	t.Run("deleted user cannot log in", func(t *testing.T) {
		deleted := &domain.User{
			ID:           domain.NewUserID(uuid.New()),
			Email:        "gone@example.com",
			PasswordHash: "h:pw",
			Code:         domain.RoleUser,
			IsDeleted:    true,
		}
		users.byEmail[deleted.Email] = deleted
		_, err := loginUC.Execute(ctx, LoginInput{Email: "gone@example.com", Password: "pw"})
		assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
	})
}
