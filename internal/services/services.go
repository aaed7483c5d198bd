package services

import (
	"context"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

type AuthService interface {
	// Register creates an active account and its empty profile in one
	// transaction. It returns no tokens, the caller has to log in.
	//
	// It returns a *ValidationError if a field is malformed, the passwords
	// differ, the password is too weak, or the username or email is taken.
	Register(ctx context.Context, params RegisterParams) (*models.Account, error)

	// Login checks the username and password and issues a fresh token
	// pair. No session state is stored.
	//
	// It returns an error matching ErrAuthentication if the user doesn't
	// exist, the password doesn't match or the account is inactive.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh issues a new access token for a valid refresh token. The
	// refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)

	// Logout blacklists the refresh token until it expires.
	//
	// It returns an error matching ErrInvalidToken if the token is
	// malformed, expired, not a refresh token or already revoked.
	Logout(ctx context.Context, refreshToken string) error

	// ParseAccessToken verifies the signature, issuer, expiry and type of
	// an access token.
	ParseAccessToken(token string) (*models.TokenClaims, error)
}

// Guard binds the caller's identity to the resource being accessed.
type Guard interface {
	// RequireAuthenticated resolves an access token to an active account.
	RequireAuthenticated(ctx context.Context, accessToken string) (*models.Account, error)

	// RequireOwner returns ErrForbidden unless account owns the resource.
	RequireOwner(account *models.Account, ownerID int64) error
}

type TaskService interface {
	ListTasks(ctx context.Context, account *models.Account) ([]*models.Task, error)
	CreateTask(ctx context.Context, account *models.Account, params CreateTaskParams) (*models.Task, error)
	GetTask(ctx context.Context, account *models.Account, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, account *models.Account, id int64, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, account *models.Account, id int64) error
}

type ProfileService interface {
	// GetProfile returns the caller's profile. A non-nil targetUserID that
	// names anyone else is rejected with ErrForbidden, whether or not that
	// profile exists.
	GetProfile(ctx context.Context, account *models.Account, targetUserID *int64) (*ProfileResult, error)

	// UpdateProfile applies a partial update to the caller's name and
	// profile fields. Username, email and the active flag are read-only.
	UpdateProfile(ctx context.Context, account *models.Account, targetUserID *int64, params UpdateProfileParams) (*ProfileResult, error)
}

type AccountRepository interface {
	CreateAccountWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateAccountAndProfile(ctx context.Context, account *models.Account, profile *models.Profile) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	ListTasksByUserID(ctx context.Context, userID int64) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id, userID int64) error
}

type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
	Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type RegisterParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Account               *models.Account
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshResult struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

// CreateTaskParams has no owner field. The owner is always the caller.
type CreateTaskParams struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

type UpdateTaskParams struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Priority    Optional[string] `json:"priority"`
	Status      Optional[string] `json:"status"`
	DueDate     Optional[string] `json:"due_date"`
}

type UpdateProfileParams struct {
	User        UpdateProfileUserParams `json:"user"`
	Address     Optional[string]        `json:"address"`
	City        Optional[string]        `json:"city"`
	Country     Optional[string]        `json:"country"`
	DateOfBirth Optional[string]        `json:"date_of_birth"`
	PhoneNumber Optional[string]        `json:"phone_number"`
}

type UpdateProfileUserParams struct {
	Username  Optional[string] `json:"username"`
	Email     Optional[string] `json:"email"`
	IsActive  Optional[bool]   `json:"is_active"`
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
}

type ProfileResult struct {
	Account *models.Account
	Profile *models.Profile
}
