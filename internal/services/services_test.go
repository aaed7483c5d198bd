package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository/sqlite"
)

const testPassword = "Pw123!"

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	clock    *clock.FakeClock
	store    *sqlite.Store
	auth     AuthService
	guard    Guard
	tasks    TaskService
	profiles ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvInLocation(t, time.UTC)
}

func newTestEnvInLocation(t *testing.T, location *time.Location) *testEnv {
	t.Helper()
	logger := zerolog.Nop()
	fake := clock.Fake(testNow)

	store, err := sqlite.Open(context.Background(), sqlite.Config{
		Path:   ":memory:",
		Logger: logger,
		Clock:  fake,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	auth := NewAuthService(
		logger,
		fake,
		store,
		store,
		NewBcryptHasher(bcrypt.MinCost),
		PasswordPolicy{MinLength: 6},
		TokenConfig{
			Issuer:          "test",
			SigningKey:      []byte("test-signing-key"),
			AccessTokenTTL:  5 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	)
	guard := NewGuard(logger, auth, store)

	return &testEnv{
		clock:    fake,
		store:    store,
		auth:     auth,
		guard:    guard,
		tasks:    NewTaskService(logger, fake, location, guard, store),
		profiles: NewProfileService(logger, fake, guard, store),
	}
}

func (e *testEnv) register(t *testing.T, username, email string) *models.Account {
	t.Helper()
	account, err := e.auth.Register(context.Background(), RegisterParams{
		Username:  username,
		Email:     email,
		Password:  testPassword,
		Password2: testPassword,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return account
}

func (e *testEnv) login(t *testing.T, username string) *LoginResult {
	t.Helper()
	result, err := e.auth.Login(context.Background(), LoginParams{
		Username: username,
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return result
}

func ptr[T any](v T) *T {
	return &v
}
