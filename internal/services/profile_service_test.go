package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")
	bob := env.register(t, "bob", "b@x.com")

	testCases := []struct {
		name    string
		target  *int64
		wantErr error
	}{
		{name: "own profile", target: nil},
		{name: "own profile by id", target: ptr(alice.ID)},
		{name: "foreign profile", target: ptr(bob.ID), wantErr: ErrForbidden},
		{name: "nonexistent profile", target: ptr(bob.ID + 1000), wantErr: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := env.profiles.GetProfile(ctx, alice, tc.target)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) || result != nil {
					t.Errorf("GetProfile = %v, %v; want nil, %v", result, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetProfile: %v", err)
			}
			if result.Account.ID != alice.ID || result.Profile.UserID != alice.ID {
				t.Errorf("got profile of user %d, want %d", result.Profile.UserID, alice.ID)
			}
			if result.Profile.ProfilePicture != models.DefaultProfilePicture {
				t.Errorf("ProfilePicture = %q", result.Profile.ProfilePicture)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")

	env.clock.Advance(time.Minute)
	result, err := env.profiles.UpdateProfile(ctx, alice, nil, UpdateProfileParams{
		User: UpdateProfileUserParams{
			FirstName: Some("Alice"),
			Username:  Some("alice"),
		},
		City:        Some("Lisbon"),
		DateOfBirth: Some("1990-05-17"),
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if result.Account.FirstName != "Alice" {
		t.Errorf("FirstName = %q, want Alice", result.Account.FirstName)
	}
	if result.Profile.City == nil || *result.Profile.City != "Lisbon" {
		t.Errorf("City = %v, want Lisbon", result.Profile.City)
	}
	if alice.FirstName != "" {
		t.Errorf("caller's account was mutated")
	}

	stored, err := env.profiles.GetProfile(ctx, result.Account, nil)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if stored.Profile.DateOfBirth == nil || stored.Profile.DateOfBirth.Format(time.DateOnly) != "1990-05-17" {
		t.Errorf("DateOfBirth = %v, want 1990-05-17", stored.Profile.DateOfBirth)
	}

	reloaded, err := env.store.GetAccountByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if reloaded.FirstName != "Alice" || !reloaded.UpdatedAt.Equal(testNow.Add(time.Minute)) {
		t.Errorf("stored account = %+v", reloaded)
	}

	result, err = env.profiles.UpdateProfile(ctx, reloaded, nil, UpdateProfileParams{City: Null[string]()})
	if err != nil {
		t.Fatalf("clear city: %v", err)
	}
	if result.Profile.City != nil {
		t.Errorf("City = %v, want nil", *result.Profile.City)
	}
	if result.Profile.DateOfBirth == nil {
		t.Errorf("untouched DateOfBirth was cleared")
	}
}

func TestUpdateProfile_Rejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")
	bob := env.register(t, "bob", "b@x.com")

	testCases := []struct {
		name      string
		target    *int64
		params    UpdateProfileParams
		wantErr   error
		wantField string
	}{
		{
			name:    "foreign profile",
			target:  ptr(bob.ID),
			params:  UpdateProfileParams{City: Some("Paris")},
			wantErr: ErrForbidden,
		},
		{
			name:      "username change",
			params:    UpdateProfileParams{User: UpdateProfileUserParams{Username: Some("mallory")}},
			wantErr:   ErrValidation,
			wantField: "username",
		},
		{
			name:      "email change",
			params:    UpdateProfileParams{User: UpdateProfileUserParams{Email: Some("m@x.com")}},
			wantErr:   ErrValidation,
			wantField: "email",
		},
		{
			name:      "deactivation",
			params:    UpdateProfileParams{User: UpdateProfileUserParams{IsActive: Some(false)}},
			wantErr:   ErrValidation,
			wantField: "is_active",
		},
		{
			name:      "phone number too long",
			params:    UpdateProfileParams{PhoneNumber: Some("+1234567890123456")},
			wantErr:   ErrValidation,
			wantField: "phone_number",
		},
		{
			name:      "malformed date of birth",
			params:    UpdateProfileParams{DateOfBirth: Some("17.05.1990")},
			wantErr:   ErrValidation,
			wantField: "date_of_birth",
		},
		{
			name:      "null first name",
			params:    UpdateProfileParams{User: UpdateProfileUserParams{FirstName: Null[string]()}},
			wantErr:   ErrValidation,
			wantField: "first_name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.profiles.UpdateProfile(ctx, alice, tc.target, tc.params)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantField != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error is not a *ValidationError: %T", err)
				}
				if _, ok := verr.Fields[tc.wantField]; !ok {
					t.Errorf("Fields = %v, want an error for %q", verr.Fields, tc.wantField)
				}
			}
		})
	}

	bobProfile, err := env.profiles.GetProfile(ctx, bob, nil)
	if err != nil {
		t.Fatalf("get bob's profile: %v", err)
	}
	if bobProfile.Profile.City != nil {
		t.Errorf("bob's profile was changed by alice")
	}
}
