// Package service implements authentication: credential checks, JWT access
// tokens, and rotating refresh tokens stored hashed at rest.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/auth/password"
	"leadflow_backend/internal/auth/repository"
	"leadflow_backend/internal/auth/token"
	"leadflow_backend/internal/auth/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

const accessTokenType = "access"

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, "unknown email")
		return transport.AuthResponse{}, apperr.Unauthorized(ErrInvalidCredentials.Error())
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, "bad password")
		return transport.AuthResponse{}, apperr.Unauthorized(ErrInvalidCredentials.Error())
	}

	s.log.AuthEvent("sign_in", req.Email, true, "")
	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (transport.AuthResponse, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized(ErrTokenInvalid.Error())
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.AuthResponse{}, apperr.Unauthorized(ErrTokenExpired.Error())
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.AuthResponse{}, apperr.Unauthorized(ErrTokenInvalid.Error())
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return transport.AuthResponse{}, apperr.Persistence("auth.Refresh", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	hash := token.HashSHA256(refreshToken)
	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return apperr.Persistence("auth.SignOut", err)
	}
	return nil
}

// CreateUser provisions an account. Admin-only at the HTTP layer.
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Email, hash, req.FullName, req.Roles)
	if err != nil {
		return transport.UserResponse{}, apperr.Persistence("auth.CreateUser", err)
	}
	return toUserResponse(user), nil
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, apperr.Persistence("auth.GetMe", err)
	}
	return toUserResponse(user), nil
}

func (s *Service) ListUsers(ctx context.Context) (transport.UserListResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return transport.UserListResponse{}, apperr.Persistence("auth.ListUsers", err)
	}

	items := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	return transport.UserListResponse{Items: items}, nil
}

func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	if err := s.repo.SetUserRoles(ctx, userID, roles); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Persistence("auth.SetUserRoles", err)
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return apperr.Unauthorized(ErrInvalidCredentials.Error())
	}
	if err := password.Compare(user.PasswordHash, current); err != nil {
		return apperr.Unauthorized(ErrInvalidCredentials.Error())
	}

	hash, err := password.Hash(next)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Persistence("auth.ChangePassword", err)
	}

	// Force re-login everywhere after a password change.
	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (transport.AuthResponse, error) {
	accessToken, err := s.signJWT(user.ID, user.Roles)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "failed to generate token", err)
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, hash, expiresAt); err != nil {
		return transport.AuthResponse{}, apperr.Persistence("auth.issueTokens", err)
	}

	return transport.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
