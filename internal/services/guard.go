package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

type guardImpl struct {
	logger   zerolog.Logger
	auth     AuthService
	accounts AccountRepository
}

func NewGuard(
	logger zerolog.Logger,
	auth AuthService,
	accounts AccountRepository,
) Guard {
	return &guardImpl{
		logger:   logger,
		auth:     auth,
		accounts: accounts,
	}
}

func (g *guardImpl) RequireAuthenticated(ctx context.Context, accessToken string) (*models.Account, error) {
	if accessToken == "" {
		return nil, ErrTokenMissing
	}

	claims, err := g.auth.ParseAccessToken(accessToken)
	if err != nil {
		g.logger.Debug().
			Err(err).
			Msg("rejected access token")
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	account, err := g.accounts.GetAccountByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			g.logger.Info().
				Int64("user_id", claims.UserID).
				Msg("token user not found")
			return nil, fmt.Errorf("%w: user not found", ErrUnauthenticated)
		}
		return nil, err
	}
	if !account.IsActive {
		g.logger.Info().
			Int64("user_id", account.ID).
			Msg("token user is inactive")
		return nil, fmt.Errorf("%w: user is inactive", ErrUnauthenticated)
	}
	return account, nil
}

func (g *guardImpl) RequireOwner(account *models.Account, ownerID int64) error {
	if account == nil {
		return ErrUnauthenticated
	}
	if account.ID != ownerID {
		g.logger.Info().
			Int64("user_id", account.ID).
			Int64("owner_id", ownerID).
			Msg("access to foreign resource denied")
		return ErrForbidden
	}
	return nil
}
