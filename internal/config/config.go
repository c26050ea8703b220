package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/logging"
	"github.com/illarion/pwcrypt/internal/validator"
	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "PWCRYPT"
	DefaultFileName = "pwcrypt"

	DerivationSeeded = "seeded"
	DerivationPBKDF2 = "pbkdf2"
)

// Config holds all pwcrypt configuration.
type Config struct {
	// Encryption
	EncryptionKey string
	Algorithm     string
	EmptyPolicy   string
	Derivation    DerivationConfig

	// Keyring profile the passphrase is stored under
	Profile string

	// Form database used by validate and form commands
	FormPath string

	Log LogConfig

	// ConfigFile is the file the values were read from, empty when none
	ConfigFile string
}

// DerivationConfig selects how keys are derived from the passphrase
type DerivationConfig struct {
	Kind       string // seeded or pbkdf2
	Salt       string // base64, pbkdf2 only
	Iterations int
}

// LogConfig is the configuration for the logger
type LogConfig struct {
	Level    string
	Encoding string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("encryption_key", "")
	v.SetDefault("algorithm", "AES")
	v.SetDefault("empty_policy", "absent")
	v.SetDefault("derivation.kind", DerivationSeeded)
	v.SetDefault("derivation.salt", "")
	v.SetDefault("derivation.iterations", crypto.DefaultIters)
	v.SetDefault("profile", "default")
	v.SetDefault("form", "form.db")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")
}

// Load reads configuration from path, or from pwcrypt.{yaml,json,toml} in
// the working directory when path is empty. A missing default file is not
// an error. Environment variables (PWCRYPT_ALGORITHM, PWCRYPT_LOG_LEVEL, ...)
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		EncryptionKey: v.GetString("encryption_key"),
		Algorithm:     v.GetString("algorithm"),
		EmptyPolicy:   v.GetString("empty_policy"),
		Derivation: DerivationConfig{
			Kind:       strings.ToLower(v.GetString("derivation.kind")),
			Salt:       v.GetString("derivation.salt"),
			Iterations: v.GetInt("derivation.iterations"),
		},
		Profile:  v.GetString("profile"),
		FormPath: v.GetString("form"),
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		ConfigFile: v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a fixed set of choices
func (c *Config) Validate() error {
	if _, err := validator.ParseEmptyPolicy(c.EmptyPolicy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Derivation.Kind {
	case DerivationSeeded:
	case DerivationPBKDF2:
		if c.Derivation.Salt == "" {
			return fmt.Errorf("invalid config: pbkdf2 derivation requires a salt")
		}
		if _, err := base64.StdEncoding.DecodeString(c.Derivation.Salt); err != nil {
			return fmt.Errorf("invalid config: pbkdf2 salt is not base64: %w", err)
		}
	default:
		return fmt.Errorf("invalid config: unknown derivation %q", c.Derivation.Kind)
	}
	return nil
}

// KeyDerivation builds the configured key derivation
func (c *Config) KeyDerivation() (crypto.KeyDerivation, error) {
	if c.Derivation.Kind != DerivationPBKDF2 {
		return crypto.SeededDerivation{}, nil
	}
	salt, err := base64.StdEncoding.DecodeString(c.Derivation.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	return &crypto.PBKDF2Derivation{
		Salt:       salt,
		Iterations: c.Derivation.Iterations,
	}, nil
}

// ValidatorOptions returns the validator settings this config describes
func (c *Config) ValidatorOptions() ([]validator.Option, error) {
	policy, err := validator.ParseEmptyPolicy(c.EmptyPolicy)
	if err != nil {
		return nil, err
	}
	kd, err := c.KeyDerivation()
	if err != nil {
		return nil, err
	}
	return []validator.Option{
		validator.WithEmptyPolicy(policy),
		validator.WithDerivation(kd),
	}, nil
}
