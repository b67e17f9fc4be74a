package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/internal/repository"
	"github.com/medinfo/medinfo-api/pkg/auth"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/security"
)

// AuthService handles registration, login and token validation. The
// resolution engine never sees credentials; it only receives the session
// identity produced here.
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	logger   zerolog.Logger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, apperrors.InvalidInput("username already taken")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown user"))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	token, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{Token: token, Username: user.Username}, nil
}

func (s *Service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

var _ AuthService = (*Service)(nil)
