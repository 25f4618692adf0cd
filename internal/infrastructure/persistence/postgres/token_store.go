package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

const (
	storeRefreshTokenSQL = `INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	getRefreshTokenSQL = `SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = $1`

	revokeRefreshTokenSQL = `DELETE FROM refresh_tokens WHERE token_hash = $1`
)

// TokenStore persists hashed refresh tokens.
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) StoreRefreshToken(ctx context.Context, userID domain.UserID, tokenHash string, expiresAt int64) error {
	_, err := s.pool.Exec(ctx, storeRefreshTokenSQL,
		tokenHash, userID.UUID, time.Unix(expiresAt, 0), time.Now())
	return err
}

func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenHash string) (domain.UserID, error) {
	var id uuid.UUID
	var expiresAt time.Time
	err := s.pool.QueryRow(ctx, getRefreshTokenSQL, tokenHash).Scan(&id, &expiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.UserID{}, domerrors.ErrInvalidToken
		}
		return domain.UserID{}, err
	}
	if time.Now().After(expiresAt) {
		return domain.UserID{}, domerrors.ErrInvalidToken
	}
	return domain.NewUserID(id), nil
}

func (s *TokenStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := s.pool.Exec(ctx, revokeRefreshTokenSQL, tokenHash)
	return err
}

var _ ports.TokenStore = (*TokenStore)(nil)
