package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/pwcrypt/internal/config"
	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/keyring"
	"github.com/illarion/pwcrypt/internal/logging"
	"github.com/illarion/pwcrypt/internal/prompt"
	"github.com/illarion/pwcrypt/internal/storage"
	"go.uber.org/zap"
)

// Env carries the configuration and logger shared by all commands
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

// Setup loads configuration and builds the logger, exiting on error
func Setup(configPath string) *Env {
	cfg, err := config.Load(configPath)
	if err != nil {
		HandleError(err)
	}

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
	})
	if err != nil {
		HandleError(err)
	}

	return &Env{Config: cfg, Logger: logger}
}

// Close flushes the logger
func (e *Env) Close() {
	_ = e.Logger.Sync()
}

// GetPassphrase retrieves the encryption passphrase from config, keyring or prompt.
// The caller is responsible for calling crypto.ClearBytes on the returned passphrase
func GetPassphrase(env *Env, promptText string) ([]byte, error) {
	// Config file or PWCRYPT_ENCRYPTION_KEY first
	if env.Config.EncryptionKey != "" {
		return []byte(env.Config.EncryptionKey), nil
	}

	passphrase, err := keyring.GetPassphrase(env.Config.Profile)
	if err == nil {
		env.Logger.Debug("Using passphrase from keyring", zap.String("profile", env.Config.Profile))
		return []byte(passphrase), nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		env.Logger.Warn("Keyring unavailable", zap.Error(err))
	}

	// Prompt user
	result, err := prompt.ReadPassword(promptText)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return result, nil
}

// GetPassphraseOrExit is like GetPassphrase but exits on error
func GetPassphraseOrExit(env *Env, promptText string) []byte {
	passphrase, err := GetPassphrase(env, promptText)
	if err != nil {
		HandleError(err)
	}
	return passphrase
}

// WithForm opens the form database, runs fn and closes the database before
// returning. Callers exit through HandleError only after it returns.
func WithForm(env *Env, path string, fn func(db *storage.Storage) error) error {
	if path == "" {
		path = env.Config.FormPath
	}
	db, err := storage.Open(path)
	if err != nil {
		return err
	}

	err = fn(db)
	if closeErr := db.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return err
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, crypto.ErrUnknownAlgorithm):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Run 'pwcrypt algorithms' to list supported algorithms\n")
	case errors.Is(err, crypto.ErrInvalidPadding):
		fmt.Fprintf(os.Stderr, "Error: wrong passphrase or algorithm\n")
	case errors.Is(err, crypto.ErrInvalidCiphertext):
		fmt.Fprintf(os.Stderr, "Error: value is not a valid encrypted password\n")
	case errors.Is(err, storage.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: form database not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'pwcrypt form init' first\n")
	case errors.Is(err, storage.ErrFieldNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'pwcrypt form ls' to see stored fields\n")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: no passphrase stored in keyring\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// formatSize formats a byte size as human-readable string
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
