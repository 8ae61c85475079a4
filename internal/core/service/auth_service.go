package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/core/validation"
)

// Tokens are carried in a header, so anything much longer than a signed
// claim set is rejected before parsing.
const maxTokenLength = 4096

// AuthService implements registration, login and token authentication.
type AuthService struct {
	users     ports.UserRepository
	favorites ports.FavoriteRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	favorites ports.FavoriteRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		favorites: favorites,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
	}
}

// Register validates every field before touching the store, so a request with
// several bad fields reports all of them.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.PublicUser, error) {
	var v validation.Collector
	name, err := validation.Username(username)
	v.Check("username", err)
	_, err = validation.Password(password)
	v.Check("password", err)
	if err := v.Err(); err != nil {
		return domain.PublicUser{}, err
	}

	_, exists, err := s.users.FindByUsername(ctx, name)
	if err != nil {
		return domain.PublicUser{}, err
	}
	if exists {
		return domain.PublicUser{}, domain.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.PublicUser{}, err
	}

	// A concurrent registration can still win between lookup and insert; the
	// store's unique constraint reports it as ErrDuplicateUsername.
	user, err := s.users.Insert(ctx, name, hash)
	if err != nil {
		return domain.PublicUser{}, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user.Public(), nil
}

// Login reports ErrInvalidCredentials for both an unknown username and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	var v validation.Collector
	v.Check("username", validation.Required(username))
	v.Check("password", validation.Required(password))
	if err := v.Err(); err != nil {
		return nil, err
	}

	// Registration stores the trimmed name, so look it up the same way.
	user, found, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !found || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(domain.Claims{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

func (s *AuthService) Authenticate(_ context.Context, token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	if len(token) > maxTokenLength {
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	return s.tokens.Verify(token)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	var v validation.Collector
	v.Check("current_password", validation.Required(currentPassword))
	_, err := validation.Password(newPassword)
	v.Check("new_password", err)
	if err := v.Err(); err != nil {
		return err
	}

	user, found, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUserNotFound
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	updated, err := s.users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrUserNotFound
	}

	s.log.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	user, found, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if !found {
		return domain.Profile{}, domain.ErrUserNotFound
	}

	count, err := s.favorites.CountByUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("count favorites: %w", err)
	}

	return domain.Profile{
		ID:             user.ID,
		Username:       user.Username,
		CreatedAt:      user.CreatedAt,
		FavoritesCount: count,
	}, nil
}
