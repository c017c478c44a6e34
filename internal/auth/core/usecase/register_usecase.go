package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reporting-service/internal/auth/core/domain"
	"reporting-service/internal/auth/core/ports"
)

var (
	ErrInvalidRegistration = errors.New("name, email and password are required")
	ErrEmailTaken          = ports.ErrEmailTaken
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterUseCase struct {
	store ports.CredentialStorePort
}

func NewRegisterUseCase(store ports.CredentialStorePort) *RegisterUseCase {
	return &RegisterUseCase{store: store}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, in RegisterInput) error {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return ErrInvalidRegistration
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return uc.store.CreateUser(ctx, &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Status:       domain.StatusActive,
	})
}
