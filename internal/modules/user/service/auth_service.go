package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/modules/user/dto"
	"anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)

// SearchTokenIssuer signs per-role search tokens; the Meilisearch service satisfies it.
type SearchTokenIssuer interface {
	GenerateSearchToken(role entity.Role) (string, error)
}

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	secret   string
	tokenTTL time.Duration
	search   SearchTokenIssuer
}

func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration, search SearchTokenIssuer) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &authService{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		search:   search,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(input.Login))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.New(http.StatusForbidden, apperror.ErrInactiveAccount.Error(), apperror.ErrInactiveAccount)
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *authService) buildAuthResponse(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := GenerateToken(s.secret, user, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	var searchToken string
	if s.search != nil {
		st, err := s.search.GenerateSearchToken(user.Role)
		if err != nil {
			log.Printf("Failed to generate search token for user %s (role %s): %v", user.Username, user.Role, err)
		} else {
			searchToken = st
		}
	}

	ids, err := s.repo.InteractionIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        dto.NewUserResponse(user, ids),
		SearchToken: searchToken,
	}, nil
}

// GenerateToken issues an HS256 token whose subject is the user id.
func GenerateToken(secret string, user *entity.User, ttl time.Duration) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
