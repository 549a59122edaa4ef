package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
)

// LoginLimiter abstracts the failed-login throttle (Redis).
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AccountService implements registration, login and admin user management.
type AccountService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	limiter LoginLimiter
	log     zerolog.Logger
	now     func() time.Time

	// decoyHash is compared against when the username does not exist so an
	// unknown user costs the same bcrypt work as a wrong password.
	decoyHash string
}

// NewAccountService wires the account use cases. limiter may be nil to
// disable login throttling.
func NewAccountService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	limiter LoginLimiter,
	log zerolog.Logger,
) *AccountService {
	decoy, err := hasher.Hash("decoy-password")
	if err != nil {
		log.Warn().Err(err).Msg("failed to prepare decoy hash")
	}
	return &AccountService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		log:       log,
		now:       time.Now,
		decoyHash: decoy,
	}
}

// Register creates a user with the default role and returns a fresh token.
func (s *AccountService) Register(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	username = strings.TrimSpace(username)
	if err := domain.CheckPassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	if err := domain.Validate(user); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			s.log.Error().Err(err).Str("username", username).Msg("failed to create user")
		}
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return s.authResult(created)
}

// Login verifies credentials. An unknown username and a wrong password both
// return domain.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, continuing")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		_, _ = s.hasher.Verify(password, s.decoyHash)
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash is unreadable")
		return nil, err
	}
	if !ok {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login limiter")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return s.authResult(user)
}

func (s *AccountService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AccountService) authResult(user *domain.User) (*ports.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser applies an admin change to the target user. Only the role is
// mutable. Tokens already issued keep the role they were minted with.
func (s *AccountService) UpdateUser(ctx context.Context, requester domain.Identity, id string, changes ports.UserChanges) (*domain.User, error) {
	if changes.Role == nil {
		return s.repo.FindByID(ctx, id)
	}

	role := *changes.Role
	if !role.Valid() {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "role",
			Message: "role must be one of: admin user",
		})
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("actor_id", requester.UserID).
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("user role updated")
	return user, nil
}

// DeleteUser hard-deletes the target user.
func (s *AccountService) DeleteUser(ctx context.Context, requester domain.Identity, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("actor_id", requester.UserID).Str("user_id", id).Msg("user deleted")
	return nil
}

// SeedAdmin creates an admin account unless username is already taken.
// created is false when the account already existed.
func (s *AccountService) SeedAdmin(ctx context.Context, username, password string) (created bool, err error) {
	username = strings.TrimSpace(username)
	if err := domain.CheckPassword(password); err != nil {
		return false, err
	}

	_, err = s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	admin := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := domain.Validate(admin); err != nil {
		return false, err
	}

	if _, err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return false, nil
		}
		return false, err
	}

	s.log.Info().Str("username", username).Msg("admin user created")
	return true, nil
}
