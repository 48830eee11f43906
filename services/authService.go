package services

import (
	"context"
	"errors"
	"fmt"

	"cyclesafe-be/models"
)

//go:generate mockgen -source=authService.go -destination=mocks/authService_mock.go -package=mocks
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	clock  Clock
}

func NewAuthService(users UserStore, tokens TokenIssuer, clock Clock) *AuthService {
	return &AuthService{users: users, tokens: tokens, clock: clock}
}

func (s *AuthService) Signup(ctx context.Context, in models.SignupInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user := in.User(s.clock.now())
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return user, nil
}

// Login answers models.ErrUnauthorized for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !user.ComparePassword(in.Password) {
		return nil, models.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.Session{Token: token, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return user, nil
}
