package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/infrastructure/auth"
	"github.com/St1cky1/taskboard/internal/repository"
)

type AuthService struct {
	userRepo        repository.IUserRepository
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

func NewAuthService(
	userRepo repository.IUserRepository,
	passwordManager *auth.PasswordManager,
	jwtManager *auth.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		passwordManager: passwordManager,
		jwtManager:      jwtManager,
	}
}

// SignUp регистрирует нового пользователя и сразу выдает токен
func (s *AuthService) SignUp(ctx context.Context, req *entity.SignUpRequest) (*entity.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, entity.ErrEmailTaken
	}

	passwordHash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, entity.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respond(user)
}

// SignIn логинит пользователя
func (s *AuthService) SignIn(ctx context.Context, req *entity.SignInRequest) (*entity.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !s.passwordManager.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, entity.ErrInvalidCredentials
	}

	return s.respond(user)
}

// Authenticate resolves a bearer token to the caller. The user is reloaded
// so that a deleted account or a changed role takes effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (entity.Principal, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return entity.Principal{}, entity.ErrUnauthenticated
	}

	user, err := s.userRepo.GetById(ctx, claims.UserID)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return entity.Principal{}, entity.ErrUnauthenticated
	}

	return entity.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (s *AuthService) respond(user *entity.User) (*entity.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &entity.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}
