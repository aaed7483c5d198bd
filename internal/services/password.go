package services

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	HashAlgorithmArgon2id = "argon2id"
	HashAlgorithmBcrypt   = "bcrypt"
)

var errUnknownHashFormat = errors.New("unknown password hash format")

type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare reports whether password matches hash. The algorithm is
	// taken from the hash itself, so hashes made by any supported
	// algorithm can be checked.
	Compare(password, hash string) (bool, error)
}

type passwordHasherImpl struct {
	algorithm    string
	argon2Params *argon2id.Params
	bcryptCost   int
}

// NewPasswordHasher returns a hasher with the default cost for algorithm.
func NewPasswordHasher(algorithm string) (PasswordHasher, error) {
	switch algorithm {
	case HashAlgorithmArgon2id:
		return NewArgon2idHasher(argon2id.DefaultParams), nil
	case HashAlgorithmBcrypt:
		return NewBcryptHasher(bcrypt.DefaultCost), nil
	}
	return nil, fmt.Errorf("unknown password hasher: %s", algorithm)
}

func NewArgon2idHasher(params *argon2id.Params) PasswordHasher {
	return &passwordHasherImpl{
		algorithm:    HashAlgorithmArgon2id,
		argon2Params: params,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

func NewBcryptHasher(cost int) PasswordHasher {
	return &passwordHasherImpl{
		algorithm:    HashAlgorithmBcrypt,
		argon2Params: argon2id.DefaultParams,
		bcryptCost:   cost,
	}
}

func (h *passwordHasherImpl) Hash(password string) (string, error) {
	if h.algorithm == HashAlgorithmBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hash), nil
	}

	hash, err := argon2id.CreateHash(password, h.argon2Params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (h *passwordHasherImpl) Compare(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return argon2id.ComparePasswordAndHash(password, hash)
	case strings.HasPrefix(hash, "$2a$"),
		strings.HasPrefix(hash, "$2b$"),
		strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}
	return false, errUnknownHashFormat
}

//go:embed common_passwords.txt
var commonPasswordsFile string

var commonPasswords = loadCommonPasswords(commonPasswordsFile)

func loadCommonPasswords(data string) map[string]struct{} {
	passwords := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			passwords[strings.ToLower(line)] = struct{}{}
		}
	}
	return passwords
}

// minSimilarityLength is the shortest account attribute that a password is
// compared against.
const minSimilarityLength = 3

type PasswordPolicy struct {
	MinLength int
}

// UserAttributes are the account fields a password must not contain.
type UserAttributes struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// Check returns the reasons password is too weak, or nil.
func (p PasswordPolicy) Check(password string, user UserAttributes) []string {
	var problems []string

	lowered := strings.ToLower(password)
	for _, attr := range []struct {
		value string
		name  string
	}{
		{value: user.Username, name: "username"},
		{value: emailLocalPart(user.Email), name: "email address"},
		{value: user.FirstName, name: "first name"},
		{value: user.LastName, name: "last name"},
	} {
		value := strings.ToLower(attr.value)
		if len(value) >= minSimilarityLength && strings.Contains(lowered, value) {
			problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr.name))
			break
		}
	}

	if len([]rune(password)) < p.MinLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", p.MinLength))
	}
	if _, ok := commonPasswords[strings.TrimSpace(lowered)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
