package app

import (
	"testing"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

func TestConfigPasswordHashersAreSupported(t *testing.T) {
	for _, name := range []string{config.PasswordHasherArgon2id, config.PasswordHasherBcrypt} {
		if _, err := services.NewPasswordHasher(name); err != nil {
			t.Errorf("NewPasswordHasher(%q): %v", name, err)
		}
	}
}
