package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

func (s *Store) CreateAccountWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUserQuery = `
INSERT INTO users (username,
                   email,
                   password,
                   is_active,
                   first_name,
                   last_name,
                   date_joined,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err = tx.QueryRow(
		ctx,
		insertUserQuery,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.IsActive,
		account.FirstName,
		account.LastName,
		account.DateJoined,
		account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		err = uniqueViolation(err)
		s.logger.Error().
			Err(err).
			Str("username", account.Username).
			Msg("failed to insert user")
		return err
	}

	profile.UserID = account.ID
	if profile.ProfilePicture == "" {
		profile.ProfilePicture = models.DefaultProfilePicture
	}

	const insertProfileQuery = `
INSERT INTO profiles (user_id,
                      address,
                      city,
                      country,
                      date_of_birth,
                      profile_picture,
                      phone_number)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err = tx.QueryRow(
		ctx,
		insertProfileQuery,
		profile.UserID,
		profile.Address,
		profile.City,
		profile.Country,
		profile.DateOfBirth,
		profile.ProfilePicture,
		profile.PhoneNumber,
	).Scan(&profile.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to insert profile")
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Debug().
		Int64("user_id", account.ID).
		Int64("profile_id", profile.ID).
		Msg("inserted user with profile")
	return nil
}

const selectUserColumns = `
SELECT id,
       username,
       email,
       password,
       is_active,
       first_name,
       last_name,
       date_joined,
       updated_at
FROM users
`

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.selectAccount(ctx, selectUserColumns+"WHERE id = $1", id)
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.selectAccount(ctx, selectUserColumns+"WHERE username = $1", username)
}

func (s *Store) selectAccount(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.IsActive,
		&account.FirstName,
		&account.LastName,
		&account.DateJoined,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}
	return &account, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (s *Store) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, query, arg).Scan(&exists)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to check user existence")
		return false, err
	}
	return exists, nil
}

func (s *Store) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	const selectProfileQuery = `
SELECT id,
       address,
       city,
       country,
       date_of_birth,
       profile_picture,
       phone_number
FROM profiles
WHERE user_id = $1
`
	profile := models.Profile{UserID: userID}
	err := s.pool.QueryRow(ctx, selectProfileQuery, userID).Scan(
		&profile.ID,
		&profile.Address,
		&profile.City,
		&profile.Country,
		&profile.DateOfBirth,
		&profile.ProfilePicture,
		&profile.PhoneNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select profile")
		return nil, err
	}
	return &profile, nil
}

func (s *Store) UpdateAccountAndProfile(ctx context.Context, account *models.Account, profile *models.Profile) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updateUserQuery = `
UPDATE users
SET first_name = $1,
    last_name = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := tx.Exec(
		ctx,
		updateUserQuery,
		account.FirstName,
		account.LastName,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to update user")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	const updateProfileQuery = `
UPDATE profiles
SET address = $1,
    city = $2,
    country = $3,
    date_of_birth = $4,
    phone_number = $5
WHERE user_id = $6
`
	tag, err = tx.Exec(
		ctx,
		updateProfileQuery,
		profile.Address,
		profile.City,
		profile.Country,
		profile.DateOfBirth,
		profile.PhoneNumber,
		account.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to update profile")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Debug().
		Int64("user_id", account.ID).
		Msg("updated user and profile")
	return nil
}
