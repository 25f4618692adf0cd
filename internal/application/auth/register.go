package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type RegisterUserInput struct {
	Email    string
	FullName string
	Password string
}

type RegisterUserResult struct {
	User *domain.User
}

type RegisterUser struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewRegisterUser(users ports.UserRepository, hasher ports.PasswordHasher) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher}
}

// Execute creates an account with the default USER role code.
func (uc *RegisterUser) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserResult, error) {
	if !emailRegex.MatchString(input.Email) {
		return nil, domerrors.ErrInvalidCredentials
	}
	existing, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hash,
		Code:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &RegisterUserResult{User: user}, nil
}
