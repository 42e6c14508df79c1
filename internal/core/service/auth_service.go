package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

// AuthService composes the account directory and the token issuer into the
// login and register flows.
type AuthService struct {
	accounts ports.AccountDirectory
	tokens   ports.TokenIssuer
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(accounts ports.AccountDirectory, tokens ports.TokenIssuer, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{accounts: accounts, tokens: tokens, tokenTTL: tokenTTL, log: log}
}

// Login verifies the credentials and issues a token for the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	account, err := s.accounts.ValidateCredentials(ctx, email, password)
	if err != nil {
		s.log.Warn().Msg("login rejected")
		return nil, err
	}
	return s.issue(account)
}

// Register creates a standard account and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	account, err := s.accounts.Create(ctx, domain.NewAccountInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      domain.RoleStandard,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

func (s *AuthService) issue(account *domain.Account) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(account.ID, account.Email, account.Role, s.tokenTTL)
	if err != nil {
		// Signing only fails on a broken key setup.
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("token issuance failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenIssuance, err)
	}
	return &ports.AuthResult{Token: token, Account: account}, nil
}

// VerifyToken checks a bearer token locally. Any verification failure is
// reported as domain.ErrUnauthorized.
func (s *AuthService) VerifyToken(token string) (*domain.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidToken) {
			s.log.Error().Err(err).Msg("token verification error")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims, nil
}
