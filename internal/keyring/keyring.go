// Package keyring stores the Discord bot token in the OS keyring so it
// never has to live in the config file.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/objectives/internal/constants"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("bot token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetBotToken retrieves the bot token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func GetBotToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetBotToken stores the bot token in the OS keyring.
func SetBotToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("bot token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store bot token in keyring: %w", err)
	}
	return nil
}

// DeleteBotToken removes the bot token from the OS keyring.
func DeleteBotToken() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete bot token from keyring: %w", err)
	}
	return nil
}

// ResolveBotToken returns envToken when set, otherwise the keyring token.
func ResolveBotToken(envToken string) (string, error) {
	if envToken != "" {
		return envToken, nil
	}
	return GetBotToken()
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
