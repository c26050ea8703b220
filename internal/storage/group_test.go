package storage

import (
	"errors"
	"testing"

	"github.com/illarion/pwcrypt/internal/crypto"
	"github.com/illarion/pwcrypt/internal/validator"
	bolt "go.etcd.io/bbolt"
)

func TestFieldGroup(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}

	group, err := db.Group("db.password")
	if err != nil {
		t.Fatalf("Failed to load group: %v", err)
	}
	if group.ValidatorParams() != nil {
		t.Error("Missing params should be nil")
	}
	if got := group.FieldContents(0); got != "hunter2" {
		t.Errorf("FieldContents(0) = %q, want hunter2", got)
	}
	if got := group.FieldContents(1); got != "" {
		t.Errorf("FieldContents(1) = %q, want empty", got)
	}

	if err := group.SetModifiedPassword("changed"); err != nil {
		t.Fatalf("SetModifiedPassword failed: %v", err)
	}
	if value, _ := db.GetField("db.password"); value != "changed" {
		t.Errorf("Stored value = %q, want changed", value)
	}
	if got := group.FieldContents(0); got != "changed" {
		t.Errorf("FieldContents(0) after write = %q, want changed", got)
	}
}

func TestFieldGroup_MissingField(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	// Params without a value must not be validated as an empty password
	if err := db.SetParams("db.password", map[string]string{
		validator.ParamEncryptionKey: "s3cret",
		validator.ParamAlgorithm:     "AES",
	}); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	_, err := db.Group("db.password")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound, got %v", err)
	}
	if _, err := db.GetField("db.password"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Field should not have been created, got %v", err)
	}
}

func TestFieldGroup_CorruptParams(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	err := db.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ParamsBucket).Put([]byte("db.password"), []byte(`{"encryptionKey":"s3cret","algorithm":`))
	})
	if err != nil {
		t.Fatalf("Failed to write params: %v", err)
	}

	if _, err := db.Group("db.password"); err == nil {
		t.Fatal("Expected an error for undecodable params")
	}
	if value, _ := db.GetField("db.password"); value != "hunter2" {
		t.Errorf("Stored value = %q, want hunter2", value)
	}
}

func TestFieldGroup_ClosedDatabase(t *testing.T) {
	db, _ := openTestDB(t)
	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	db.Close()

	if _, err := db.Group("db.password"); err == nil {
		t.Fatal("Expected an error from a closed database")
	}
}

func TestValidateStoredField(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	if err := db.SetParams("db.password", map[string]string{
		validator.ParamEncryptionKey: "s3cret",
		validator.ParamAlgorithm:     "AES",
	}); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	group, err := db.Group("db.password")
	if err != nil {
		t.Fatalf("Failed to load group: %v", err)
	}
	if !validator.New().Validate(group) {
		t.Fatal("Validation failed")
	}

	stored, err := db.GetField("db.password")
	if err != nil {
		t.Fatalf("Failed to get field: %v", err)
	}
	want, err := crypto.EncryptString("s3cret", "AES", "hunter2", nil)
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}
	if stored != want {
		t.Errorf("Stored value = %q, want %q", stored, want)
	}
}

func TestValidateStoredField_Unconfigured(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}

	group, err := db.Group("db.password")
	if err != nil {
		t.Fatalf("Failed to load group: %v", err)
	}
	if !validator.New().Validate(group) {
		t.Fatal("Unconfigured field should pass")
	}
	if value, _ := db.GetField("db.password"); value != "hunter2" {
		t.Errorf("Unconfigured field changed to %q", value)
	}
}

func TestValidateStoredField_BadAlgorithm(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	if err := db.SetParams("db.password", map[string]string{
		validator.ParamEncryptionKey: "s3cret",
		validator.ParamAlgorithm:     "Enigma",
	}); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	group, err := db.Group("db.password")
	if err != nil {
		t.Fatalf("Failed to load group: %v", err)
	}
	if validator.New().Validate(group) {
		t.Fatal("Unsupported algorithm should fail")
	}
	if value, _ := db.GetField("db.password"); value != "hunter2" {
		t.Errorf("Failed validation changed the field to %q", value)
	}
}
