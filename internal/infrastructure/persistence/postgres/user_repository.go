package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

const (
	createUserSQL = `INSERT INTO users
		(user_id, email, full_name, password_hash, code, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getUserByEmailSQL = `SELECT user_id, email, full_name, password_hash, code, is_deleted, created_at, updated_at
		FROM users WHERE email = $1`

	getUserByIDSQL = `SELECT user_id, email, full_name, password_hash, code, is_deleted, created_at, updated_at
		FROM users WHERE user_id = $1`

	listUsersSQL = `SELECT user_id, email, full_name, password_hash, code, is_deleted, created_at, updated_at
		FROM users WHERE NOT is_deleted ORDER BY created_at DESC LIMIT $1 OFFSET $2`
)

// UserRepository persists user accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		user.ID.UUID, user.Email, user.FullName, user.PasswordHash,
		string(user.Code), user.IsDeleted, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, email)
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	return r.getOne(ctx, getUserByIDSQL, userID.UUID)
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanUser(rows)
}

func scanUser(rows pgx.Rows) (*domain.User, error) {
	var u domain.User
	var id uuid.UUID
	var code string
	if err := rows.Scan(&id, &u.Email, &u.FullName, &u.PasswordHash, &code, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = domain.NewUserID(id)
	u.Code = domain.OrgRole(code)
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
