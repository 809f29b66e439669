package quotes

import (
	"fmt"
	"os"
)

// Credentials supplies secrets to providers that need a login.
type Credentials interface {
	GetCredential(key string) (string, error)
}

// EnvCredentials reads credentials from environment variables.
type EnvCredentials struct{}

func (EnvCredentials) GetCredential(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("credential not found: %s", key)
	}
	return value, nil
}

// StaticCredentials serves fixed values, for tests.
type StaticCredentials map[string]string

func (s StaticCredentials) GetCredential(key string) (string, error) {
	value, ok := s[key]
	if !ok {
		return "", fmt.Errorf("credential not found: %s", key)
	}
	return value, nil
}
