package services

import (
	"slices"
	"testing"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	fastArgon2 := &argon2id.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	hashers := map[string]PasswordHasher{
		"argon2id": NewArgon2idHasher(fastArgon2),
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
	}

	hashes := make(map[string]string)
	for name, hasher := range hashers {
		hash, err := hasher.Hash(testPassword)
		if err != nil {
			t.Fatalf("%s: hash: %v", name, err)
		}
		hashes[name] = hash
	}

	// Every hasher verifies hashes made by every algorithm.
	for hasherName, hasher := range hashers {
		for hashName, hash := range hashes {
			t.Run(hasherName+"/"+hashName, func(t *testing.T) {
				match, err := hasher.Compare(testPassword, hash)
				if err != nil || !match {
					t.Errorf("Compare(correct) = %v, %v; want true, nil", match, err)
				}
				match, err = hasher.Compare("wrong", hash)
				if err != nil || match {
					t.Errorf("Compare(wrong) = %v, %v; want false, nil", match, err)
				}
			})
		}
	}

	if _, err := hashers["bcrypt"].Compare(testPassword, "plaintext"); err == nil {
		t.Errorf("expected an error for an unknown hash format")
	}
}

func TestNewPasswordHasher(t *testing.T) {
	for _, algorithm := range []string{HashAlgorithmArgon2id, HashAlgorithmBcrypt} {
		if _, err := NewPasswordHasher(algorithm); err != nil {
			t.Errorf("NewPasswordHasher(%q): %v", algorithm, err)
		}
	}
	if _, err := NewPasswordHasher("md5"); err == nil {
		t.Errorf("NewPasswordHasher(md5) succeeded")
	}
}

func TestPasswordPolicy(t *testing.T) {
	policy := PasswordPolicy{MinLength: 6}
	alice := UserAttributes{Username: "alice", Email: "a@x.com"}

	testCases := []struct {
		name     string
		password string
		user     UserAttributes
		want     []string
	}{
		{name: "strong", password: testPassword, user: alice},
		{name: "short", password: "Ab1!", user: alice, want: []string{
			"This password is too short. It must contain at least 6 characters.",
		}},
		{name: "common any case", password: "QWERTY", user: alice, want: []string{"This password is too common."}},
		{name: "numeric and short", password: "12345", user: alice, want: []string{
			"This password is too short. It must contain at least 6 characters.",
			"This password is too common.",
			"This password is entirely numeric.",
		}},
		{name: "contains username", password: "xxALICExx", user: alice, want: []string{
			"The password is too similar to the username.",
		}},
		{
			name:     "contains email local part",
			password: "wonderland7",
			user:     UserAttributes{Username: "al", Email: "wonderland@x.com"},
			want:     []string{"The password is too similar to the email address."},
		},
		{
			name:     "contains first name",
			password: "Margaret#1",
			user:     UserAttributes{Username: "mh", Email: "m@x.com", FirstName: "Margaret"},
			want:     []string{"The password is too similar to the first name."},
		},
		{
			name:     "contains last name",
			password: "hamilton-1969",
			user:     UserAttributes{Username: "mh", Email: "m@x.com", LastName: "Hamilton"},
			want:     []string{"The password is too similar to the last name."},
		},
		{
			name:     "short attributes ignored",
			password: "al-is-fine",
			user:     UserAttributes{Username: "al", Email: "b@x.com", FirstName: "Al", LastName: "Li"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			problems := policy.Check(tc.password, tc.user)
			if !slices.Equal(problems, tc.want) {
				t.Errorf("Check(%q) = %q, want %q", tc.password, problems, tc.want)
			}
		})
	}
}
