package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// serviceAccountKey covers the fields of a Google service account key file
// the signup system actually depends on. The raw bytes are what the API
// clients consume; this struct only exists to fail fast on a bad file.
type serviceAccountKey struct {
	Type        string `json:"type" validate:"required,eq=service_account"`
	ProjectID   string `json:"project_id" validate:"required"`
	PrivateKey  string `json:"private_key" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required,email"`
}

// LoadServiceAccountWithEnv loads and validates the service account key file
// with an environment suffix. For example, env="prod" will look for
// "serviceAccount.prod.json". The validated raw bytes are returned for the
// Google API clients.
func LoadServiceAccountWithEnv(env string) ([]byte, error) {
	keyPath, err := findServiceAccountFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find service account file: %w", err)
	}

	return LoadServiceAccountFromPath(keyPath)
}

// LoadServiceAccountFromPath loads and validates a service account key file
func LoadServiceAccountFromPath(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account file: %w", err)
	}

	if err := validate.Struct(&key); err != nil {
		return nil, fmt.Errorf("service account validation failed: %w", err)
	}

	return data, nil
}

// findServiceAccountFile searches for serviceAccount.json in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "serviceAccount.prod.json")
func findServiceAccountFile(env string) (string, error) {
	keyFileName := "serviceAccount.json"
	if env != "" {
		keyFileName = "serviceAccount." + env + ".json"
	}

	// Check current directory
	if _, err := os.Stat(keyFileName); err == nil {
		return keyFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeKeyPath := filepath.Join(homeDir, keyFileName)
	if _, err := os.Stat(homeKeyPath); err == nil {
		return homeKeyPath, nil
	}

	return "", fmt.Errorf("service account file %s not found in current directory or home directory", keyFileName)
}
