package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

type profileServiceImpl struct {
	logger   zerolog.Logger
	clock    clock.Clock
	guard    Guard
	accounts AccountRepository
}

func NewProfileService(
	logger zerolog.Logger,
	clk clock.Clock,
	guard Guard,
	accounts AccountRepository,
) ProfileService {
	return &profileServiceImpl{
		logger:   logger,
		clock:    clk,
		guard:    guard,
		accounts: accounts,
	}
}

type profileInput struct {
	FirstName   string  `json:"first_name" validate:"max=150"`
	LastName    string  `json:"last_name" validate:"max=150"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, account *models.Account, targetUserID *int64) (*ProfileResult, error) {
	profile, err := s.getOwnProfile(ctx, account, targetUserID)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{
		Account: account,
		Profile: profile,
	}, nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, account *models.Account, targetUserID *int64, params UpdateProfileParams) (*ProfileResult, error) {
	profile, err := s.getOwnProfile(ctx, account, targetUserID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	rejectChange(verr, "username", params.User.Username, account.Username)
	rejectChange(verr, "email", params.User.Email, account.Email)
	rejectChange(verr, "is_active", params.User.IsActive, account.IsActive)

	input := profileInput{
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Address:     profile.Address,
		City:        profile.City,
		Country:     profile.Country,
		PhoneNumber: profile.PhoneNumber,
	}
	mergeString(verr, "first_name", params.User.FirstName, &input.FirstName)
	mergeString(verr, "last_name", params.User.LastName, &input.LastName)
	mergeNullableString(params.Address, &input.Address)
	mergeNullableString(params.City, &input.City)
	mergeNullableString(params.Country, &input.Country)
	mergeNullableString(params.PhoneNumber, &input.PhoneNumber)

	err = check(verr, input)
	if err != nil {
		return nil, err
	}

	dateOfBirth := profile.DateOfBirth
	if params.DateOfBirth.Set {
		dateOfBirth = nil
		if !params.DateOfBirth.Null {
			var ok bool
			dateOfBirth, ok = parseDate(params.DateOfBirth.Value)
			if !ok {
				verr.Add("date_of_birth", msgInvalidDate)
			}
		}
	}
	if verr.HasErrors() {
		s.logger.Info().
			Int64("user_id", account.ID).
			Err(verr).
			Msg("rejected profile update")
		return nil, verr
	}

	updatedAccount := *account
	updatedAccount.FirstName = input.FirstName
	updatedAccount.LastName = input.LastName
	updatedAccount.UpdatedAt = s.clock.Now()

	updatedProfile := *profile
	updatedProfile.Address = input.Address
	updatedProfile.City = input.City
	updatedProfile.Country = input.Country
	updatedProfile.PhoneNumber = input.PhoneNumber
	updatedProfile.DateOfBirth = dateOfBirth

	err = s.accounts.UpdateAccountAndProfile(ctx, &updatedAccount, &updatedProfile)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to update profile")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", account.ID).
		Msg("updated profile")
	return &ProfileResult{
		Account: &updatedAccount,
		Profile: &updatedProfile,
	}, nil
}

func (s *profileServiceImpl) getOwnProfile(ctx context.Context, account *models.Account, targetUserID *int64) (*models.Profile, error) {
	if account == nil {
		return nil, ErrUnauthenticated
	}
	if targetUserID != nil {
		err := s.guard.RequireOwner(account, *targetUserID)
		if err != nil {
			return nil, err
		}
	}

	profile, err := s.accounts.GetProfileByUserID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Int64("user_id", account.ID).
				Msg("profile not found")
			return nil, ErrProfileNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to get profile")
		return nil, err
	}
	return profile, nil
}

// rejectChange accepts an update only if it repeats the current value.
func rejectChange[T comparable](verr *ValidationError, field string, update Optional[T], current T) {
	if update.Set && (update.Null || update.Value != current) {
		verr.Add(field, msgReadOnly)
	}
}

// mergeNullableString applies an update to a field that may be cleared.
// An empty string clears it too.
func mergeNullableString(update Optional[string], dst **string) {
	if !update.Set {
		return
	}
	if update.Null || update.Value == "" {
		*dst = nil
		return
	}
	value := update.Value
	*dst = &value
}
