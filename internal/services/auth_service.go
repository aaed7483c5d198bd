package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

const (
	msgPasswordMismatch = "Password fields didn't match."
	msgUsernameTaken    = "A user with that username already exists."
	msgEmailTaken       = "A user with that email already exists."
)

type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type TokenConfig struct {
	Issuer          string
	SigningKey      []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type authServiceImpl struct {
	logger    zerolog.Logger
	clock     clock.Clock
	accounts  AccountRepository
	blacklist TokenBlacklist
	hasher    PasswordHasher
	policy    PasswordPolicy
	tokens    TokenConfig

	dummyHashOnce sync.Once
	dummyHash     string
}

func NewAuthService(
	logger zerolog.Logger,
	clk clock.Clock,
	accounts AccountRepository,
	blacklist TokenBlacklist,
	hasher PasswordHasher,
	policy PasswordPolicy,
	tokens TokenConfig,
) AuthService {
	return &authServiceImpl{
		logger:    logger,
		clock:     clk,
		accounts:  accounts,
		blacklist: blacklist,
		hasher:    hasher,
		policy:    policy,
		tokens:    tokens,
	}
}

type registerInput struct {
	Username  string `json:"username" validate:"required,max=100,username"`
	Email     string `json:"email" validate:"required,max=254,email"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.Account, error) {
	input := registerInput{
		Username:  strings.TrimSpace(params.Username),
		Email:     normalizeEmail(params.Email),
		Password:  params.Password,
		Password2: params.Password2,
		FirstName: strings.TrimSpace(params.FirstName),
		LastName:  strings.TrimSpace(params.LastName),
	}

	verr := &ValidationError{}
	err := check(verr, input)
	if err != nil {
		return nil, err
	}

	if _, bad := verr.Fields["username"]; !bad && input.Username != "" {
		exists, err := s.accounts.UsernameExists(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("username", msgUsernameTaken)
		}
	}
	if _, bad := verr.Fields["email"]; !bad && input.Email != "" {
		exists, err := s.accounts.EmailExists(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("email", msgEmailTaken)
		}
	}
	if input.Password != "" {
		user := UserAttributes{
			Username:  input.Username,
			Email:     input.Email,
			FirstName: input.FirstName,
			LastName:  input.LastName,
		}
		for _, problem := range s.policy.Check(input.Password, user) {
			verr.Add("password", problem)
		}
	}

	// The passwords are compared only once every field is valid on its own.
	if !verr.HasErrors() && input.Password != input.Password2 {
		verr.Add("password", msgPasswordMismatch)
	}
	if verr.HasErrors() {
		s.logger.Info().
			Str("username", input.Username).
			Err(verr).
			Msg("rejected registration")
		return nil, verr
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	now := s.clock.Now()
	account := &models.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		IsActive:     true,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		DateJoined:   now,
		UpdatedAt:    now,
	}
	profile := &models.Profile{ProfilePicture: models.DefaultProfilePicture}

	err = s.accounts.CreateAccountWithProfile(ctx, account, profile)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, newValidationError("username", msgUsernameTaken)
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, newValidationError("email", msgEmailTaken)
		}

		s.logger.Error().
			Err(err).
			Str("username", account.Username).
			Msg("failed to create account")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", account.ID).
		Str("username", account.Username).
		Msg("registered")
	return account, nil
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	input := loginInput{
		Username: strings.TrimSpace(params.Username),
		Password: params.Password,
	}

	verr := &ValidationError{}
	err := check(verr, input)
	if err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	account, err := s.accounts.GetAccountByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same time as a real check so the response time
			// does not reveal whether the username exists.
			_, _ = s.hasher.Compare(params.Password, s.getDummyHash())

			s.logger.Info().
				Str("username", input.Username).
				Msg("user not found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	match, err := s.hasher.Compare(params.Password, account.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Info().
			Int64("user_id", account.ID).
			Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	if !account.IsActive {
		s.logger.Info().
			Int64("user_id", account.ID).
			Msg("user is inactive")
		return nil, ErrUserInactive
	}

	now := s.clock.Now()
	refreshToken, refreshTokenExpiresAt, err := s.generateToken(account, models.TokenTypeRefresh, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	accessToken, accessTokenExpiresAt, err := s.generateToken(account, models.TokenTypeAccess, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", account.ID).
		Msg("logged in")
	return &LoginResult{
		Account:               account,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshTokenExpiresAt,
	}, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.parseToken(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		s.logger.Info().
			Err(err).
			Msg("rejected refresh token")
		return nil, err
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		s.logger.Info().
			Str("token_id", claims.ID).
			Msg("refresh token is blacklisted")
		return nil, ErrTokenRevoked
	}

	account, err := s.accounts.GetAccountByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrInvalidToken)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: user is inactive", ErrInvalidToken)
	}

	accessToken, expiresAt, err := s.generateToken(account, models.TokenTypeAccess, s.clock.Now())
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", account.ID).
		Msg("refreshed access token")
	return &RefreshResult{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		s.logger.Info().
			Err(err).
			Msg("rejected refresh token")
		return err
	}

	err = s.blacklist.Blacklist(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRevoked) {
			s.logger.Info().
				Str("token_id", claims.ID).
				Msg("refresh token already revoked")
			return ErrTokenRevoked
		}

		s.logger.Error().
			Err(err).
			Str("token_id", claims.ID).
			Msg("failed to blacklist refresh token")
		return err
	}

	s.logger.Info().
		Int64("user_id", claims.UserID).
		Str("token_id", claims.ID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) ParseAccessToken(token string) (*models.TokenClaims, error) {
	return s.parseToken(token, models.TokenTypeAccess)
}

func (s *authServiceImpl) parseToken(tokenString, tokenType string) (*models.TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			return s.tokens.SigningKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.tokens.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenType
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}

	result := &models.TokenClaims{
		ID:        claims.ID,
		UserID:    userID,
		Type:      claims.TokenType,
		Username:  claims.Username,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

func (s *authServiceImpl) generateToken(account *models.Account, tokenType string, now time.Time) (string, time.Time, error) {
	tokenUUID, err := uuid.NewV7()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	ttl := s.tokens.AccessTokenTTL
	if tokenType == models.TokenTypeRefresh {
		ttl = s.tokens.RefreshTokenTTL
	}
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.tokens.Issuer,
			Subject:   strconv.FormatInt(account.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TokenType: tokenType,
		Username:  account.Username,
		Email:     account.Email,
	})

	signed, err := token.SignedString(s.tokens.SigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authServiceImpl) getDummyHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hasher.Hash("dummy-password")
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to hash dummy password")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// normalizeEmail lowercases the domain part of an email address.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}
