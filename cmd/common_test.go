package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/illarion/pwcrypt/internal/config"
	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/storage"
	"github.com/illarion/pwcrypt/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEnv(t *testing.T) *Env {
	t.Helper()
	return &Env{
		Config: &config.Config{FormPath: filepath.Join(t.TempDir(), "form.db")},
		Logger: zap.NewNop(),
	}
}

func TestWithForm_ClosesOnError(t *testing.T) {
	env := testEnv(t)
	boom := errors.New("boom")

	err := WithForm(env, "", func(db *storage.Storage) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// bbolt holds an exclusive file lock while open; a second open would time out
	db, err := storage.Open(env.Config.FormPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestWithForm_ExplicitPath(t *testing.T) {
	env := testEnv(t)
	path := filepath.Join(t.TempDir(), "other.db")

	var opened string
	err := WithForm(env, path, func(db *storage.Storage) error {
		opened = db.Path()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, path, opened)
}

func withTestForm(t *testing.T, fn func(db *storage.Storage)) {
	t.Helper()
	env := testEnv(t)
	err := WithForm(env, "", func(db *storage.Storage) error {
		require.NoError(t, db.Initialize())
		fn(db)
		return nil
	})
	require.NoError(t, err)
}

func TestValidateField(t *testing.T) {
	withTestForm(t, func(db *storage.Storage) {
		require.NoError(t, db.SetField("db_password", "hunter2"))
		require.NoError(t, db.SetParams("db_password", map[string]string{
			validator.ParamEncryptionKey: "s3cret",
			validator.ParamAlgorithm:     "AES",
		}))

		encrypted, err := validateField(db, validator.New(), "db_password")
		require.NoError(t, err)
		assert.True(t, encrypted)

		stored, err := db.GetField("db_password")
		require.NoError(t, err)
		plaintext, err := crypto.DecryptString("s3cret", "AES", stored, nil)
		require.NoError(t, err)
		assert.Equal(t, "hunter2", plaintext)
	})
}

func TestValidateField_MissingValue(t *testing.T) {
	withTestForm(t, func(db *storage.Storage) {
		require.NoError(t, db.SetParams("db_password", map[string]string{
			validator.ParamEncryptionKey: "s3cret",
			validator.ParamAlgorithm:     "AES",
		}))

		encrypted, err := validateField(db, validator.New(), "db_password")
		assert.ErrorIs(t, err, storage.ErrFieldNotFound)
		assert.False(t, encrypted)

		_, err = db.GetField("db_password")
		assert.ErrorIs(t, err, storage.ErrFieldNotFound)
	})
}

func TestValidateField_Fails(t *testing.T) {
	withTestForm(t, func(db *storage.Storage) {
		require.NoError(t, db.SetField("db_password", "hunter2"))
		require.NoError(t, db.SetParams("db_password", map[string]string{
			validator.ParamEncryptionKey: "s3cret",
			validator.ParamAlgorithm:     "Enigma",
		}))

		_, err := validateField(db, validator.New(), "db_password")
		assert.ErrorIs(t, err, errValidationFailed)

		stored, err := db.GetField("db_password")
		require.NoError(t, err)
		assert.Equal(t, "hunter2", stored)
	})
}

func TestValidateField_NotInitialized(t *testing.T) {
	env := testEnv(t)
	err := WithForm(env, "", func(db *storage.Storage) error {
		_, err := validateField(db, validator.New(), "db_password")
		return err
	})
	assert.ErrorIs(t, err, storage.ErrNotInitialized)
}
