package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

func (s *Store) CreateAccountWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const insertUserQuery = `
INSERT INTO users (username,
                   email,
                   password,
                   is_active,
                   first_name,
                   last_name,
                   date_joined,
                   updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`
	err = tx.QueryRowContext(
		ctx,
		insertUserQuery,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.IsActive,
		account.FirstName,
		account.LastName,
		formatTimestamp(account.DateJoined),
		formatTimestamp(account.UpdatedAt),
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
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`
	err = tx.QueryRowContext(
		ctx,
		insertProfileQuery,
		profile.UserID,
		nullableString(profile.Address),
		nullableString(profile.City),
		nullableString(profile.Country),
		formatDate(profile.DateOfBirth),
		profile.ProfilePicture,
		nullableString(profile.PhoneNumber),
	).Scan(&profile.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to insert profile")
		return err
	}

	err = tx.Commit()
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
	return s.selectAccount(ctx, selectUserColumns+"WHERE id = ?", id)
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.selectAccount(ctx, selectUserColumns+"WHERE username = ?", username)
}

func (s *Store) selectAccount(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		account    models.Account
		dateJoined string
		updatedAt  string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.IsActive,
		&account.FirstName,
		&account.LastName,
		&dateJoined,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}

	if account.DateJoined, err = parseTimestamp(dateJoined); err != nil {
		return nil, err
	}
	if account.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, username)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email)
}

func (s *Store) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&exists)
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
WHERE user_id = ?
`
	var (
		profile     = models.Profile{UserID: userID}
		address     sql.NullString
		city        sql.NullString
		country     sql.NullString
		dateOfBirth sql.NullString
		phoneNumber sql.NullString
	)
	err := s.db.QueryRowContext(ctx, selectProfileQuery, userID).Scan(
		&profile.ID,
		&address,
		&city,
		&country,
		&dateOfBirth,
		&profile.ProfilePicture,
		&phoneNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select profile")
		return nil, err
	}

	profile.Address = stringPtr(address)
	profile.City = stringPtr(city)
	profile.Country = stringPtr(country)
	profile.PhoneNumber = stringPtr(phoneNumber)
	if profile.DateOfBirth, err = parseDate(dateOfBirth); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Store) UpdateAccountAndProfile(ctx context.Context, account *models.Account, profile *models.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const updateUserQuery = `
UPDATE users
SET first_name = ?,
    last_name = ?,
    updated_at = ?
WHERE id = ?
`
	res, err := tx.ExecContext(
		ctx,
		updateUserQuery,
		account.FirstName,
		account.LastName,
		formatTimestamp(account.UpdatedAt),
		account.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to update user")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	const updateProfileQuery = `
UPDATE profiles
SET address = ?,
    city = ?,
    country = ?,
    date_of_birth = ?,
    phone_number = ?
WHERE user_id = ?
`
	res, err = tx.ExecContext(
		ctx,
		updateProfileQuery,
		nullableString(profile.Address),
		nullableString(profile.City),
		nullableString(profile.Country),
		formatDate(profile.DateOfBirth),
		nullableString(profile.PhoneNumber),
		account.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to update profile")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	err = tx.Commit()
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
