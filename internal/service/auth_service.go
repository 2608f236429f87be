package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/clock"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

var (
	// ErrInvalidCredentials is the only error Login reports for a bad
	// identifier, a bad password or an inactive account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailRequired is returned when registration has no email.
	ErrEmailRequired = errors.New("email is required")
)

// timingPassword is hashed once and compared against when the identifier
// is unknown, so unknown identifiers cost the same as wrong passwords.
const timingPassword = "blog-service-unknown-identifier"

// RegisterInput carries registration fields. Username, FirstName and
// LastName are optional.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// AuthService coordinates registration, login and credential changes.
type AuthService struct {
	accounts   repository.CredentialStore
	resolver   *auth.IdentityResolver
	tokens     *auth.TokenService
	hasher     auth.PasswordHasher
	policy     auth.PasswordPolicy
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger

	// dummyHash is compared against when the identifier is unknown.
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Accounts   repository.CredentialStore
	Tokens     *auth.TokenService
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
}

// NewAuthService builds the service. It hashes the timing password up front
// so every unknown-identifier login costs one bcrypt comparison.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Hasher == nil {
		return nil, errors.New("password hasher required")
	}
	dummyHash, err := deps.Hasher.Hash(timingPassword)
	if err != nil {
		return nil, fmt.Errorf("hash timing password: %w", err)
	}
	return &AuthService{
		accounts:   deps.Accounts,
		resolver:   auth.NewIdentityResolver(deps.Accounts),
		tokens:     deps.Tokens,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		clock:      clk,
		logger:     logger,
		dummyHash:  dummyHash,
	}, nil
}

// Register creates a new account. Nothing is persisted unless every check
// passes; a uniqueness violation raised by the store at write time is
// reported exactly like the pre-check conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if err := s.policy.Validate(in.Password); err != nil {
		return nil, err
	}

	taken, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, repository.ErrEmailTaken
	}
	if username != "" {
		taken, err = s.accounts.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, repository.ErrUsernameTaken
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Status:       domain.AccountStatusActive,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) || errors.Is(err, repository.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.logger.Info("account registered", zap.String("account_id", account.ID))
	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: account.ID,
		Payload: events.AccountRegisteredPayload{
			Email:     account.Email,
			Username:  account.Username,
			FirstName: account.FirstName,
		},
	})
	return account, nil
}

// Login resolves the identifier, verifies the password and issues a token
// whose subject is the account email. Every authentication failure returns
// ErrInvalidCredentials; the cause is only logged.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.Token, error) {
	account, err := s.resolver.Resolve(ctx, creds.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			_ = s.hasher.Compare(s.dummyHash, creds.Password)
			s.logger.Info("login rejected", zap.String("reason", "unknown_identifier"))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("resolve identifier: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, creds.Password); err != nil {
		s.logger.Info("login rejected", zap.String("reason", "bad_password"), zap.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive() {
		s.logger.Info("login rejected", zap.String("reason", "inactive"), zap.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.Info("login succeeded", zap.String("account_id", account.ID))
	return token, nil
}

// ChangePassword checks the current password, then applies the policy to the
// new one before replacing the hash. Tokens issued before the change stay
// valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, identity *domain.Identity, currentPassword, newPassword string) error {
	account, err := s.CurrentAccount(ctx, identity)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(account.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return auth.ErrTokenInvalid
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password changed", zap.String("account_id", account.ID))
	s.publish(ctx, events.Event{
		Type:      events.EventAccountPasswordChanged,
		AccountID: account.ID,
		Payload:   events.AccountPasswordChangedPayload{Email: account.Email},
	})
	return nil
}

// CurrentAccount loads the account a verified token refers to. A subject
// that no longer exists is treated as an invalid token.
func (s *AuthService) CurrentAccount(ctx context.Context, identity *domain.Identity) (*domain.Account, error) {
	if identity == nil || identity.Email == "" {
		return nil, auth.ErrTokenInvalid
	}
	account, err := s.accounts.FindByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, auth.ErrTokenInvalid
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

// Tokens exposes the token service for middleware usage.
func (s *AuthService) Tokens() *auth.TokenService {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.clock.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("account_id", event.AccountID),
			zap.Error(err))
	}
}
