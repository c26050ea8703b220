package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pwcrypt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.EncryptionKey)
	assert.Equal(t, "AES", cfg.Algorithm)
	assert.Equal(t, "absent", cfg.EmptyPolicy)
	assert.Equal(t, DerivationSeeded, cfg.Derivation.Kind)
	assert.Equal(t, crypto.DefaultIters, cfg.Derivation.Iterations)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, "form.db", cfg.FormPath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.ConfigFile)

	kd, err := cfg.KeyDerivation()
	require.NoError(t, err)
	assert.IsType(t, crypto.SeededDerivation{}, kd)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
encryption_key: s3cret
algorithm: Blowfish
empty_policy: invalid
derivation:
  kind: pbkdf2
  salt: c2FsdHNhbHRzYWx0
  iterations: 1000
log:
  level: debug
  encoding: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.EncryptionKey)
	assert.Equal(t, "Blowfish", cfg.Algorithm)
	assert.Equal(t, "invalid", cfg.EmptyPolicy)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, path, cfg.ConfigFile)

	kd, err := cfg.KeyDerivation()
	require.NoError(t, err)
	pbkdf, ok := kd.(*crypto.PBKDF2Derivation)
	require.True(t, ok)
	assert.Equal(t, []byte("saltsaltsalt"), pbkdf.Salt)
	assert.Equal(t, 1000, pbkdf.Iterations)

	opts, err := cfg.ValidatorOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "algorithm: DES\n")
	t.Setenv("PWCRYPT_ALGORITHM", "DESede")
	t.Setenv("PWCRYPT_ENCRYPTION_KEY", "from-env")
	t.Setenv("PWCRYPT_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DESede", cfg.Algorithm)
	assert.Equal(t, "from-env", cfg.EncryptionKey)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_EmptyPolicyAttempt(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PWCRYPT_EMPTY_POLICY", "attempt")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "attempt", cfg.EmptyPolicy)

	opts, err := cfg.ValidatorOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty policy", "empty_policy: sometimes\n"},
		{"derivation", "derivation:\n  kind: scrypt\n"},
		{"pbkdf2 without salt", "derivation:\n  kind: pbkdf2\n"},
		{"pbkdf2 bad salt", "derivation:\n  kind: pbkdf2\n  salt: '***'\n"},
		{"log level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
