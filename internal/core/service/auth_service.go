package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/pkg/password"
)

// TokenManager abstracts the signed token issuer/verifier.
type TokenManager interface {
	Issue(id domain.Identity) (string, error)
	Verify(raw string) (domain.Identity, error)
}

// AuthService implements registration, login and logout.
type AuthService struct {
	accounts   ports.AccountRepository
	sessions   ports.SessionRepository
	tokens     TokenManager
	sessionTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	sessions ports.SessionRepository,
	tokens TokenManager,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &AuthService{
		accounts:   accounts,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log,
		now:        time.Now,
	}
}

// Register hashes the password and stores a new Client account.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, plain string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if firstName == "" || lastName == "" || email == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	acc, err := s.accounts.Create(ctx, firstName, lastName, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("account_id", acc.ID).Msg("account registered")
	return acc, nil
}

// Login checks credentials, persists a new session and issues a token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*ports.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || plain == "" {
		return nil, domain.ErrInvalidCredentials
	}

	creds, err := s.accounts.FindCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Info().Msg("login failed: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := password.Compare(creds.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.log.Info().Int64("account_id", creds.ID).Msg("login failed: wrong password")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	identity := creds.Account.Identity()

	tok, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	now := s.now().UTC()
	sess := domain.Session{
		ID:        uuid.NewString(),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("login: persist session: %w", err)
	}

	s.log.Info().Int64("account_id", identity.AccountID).Str("role", identity.Role.String()).Msg("login succeeded")
	return &ports.LoginResult{Identity: identity, Token: tok, Session: sess}, nil
}

// Logout removes the server-side session record. An empty id is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate verifies a token and returns the identity it carries.
func (s *AuthService) Authenticate(raw string) (domain.Identity, error) {
	return s.tokens.Verify(raw)
}

// IssueToken signs a fresh token for id, used after a self-edit.
func (s *AuthService) IssueToken(id domain.Identity) (string, error) {
	return s.tokens.Issue(id)
}
