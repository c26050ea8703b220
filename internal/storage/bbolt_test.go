package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) (*Storage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "form.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		t.Fatalf("Failed to initialize: %v", err)
	}
	return db, dbPath
}

func TestOpenAndInitialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "form.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if initialized {
		t.Error("Fresh database should not be initialized")
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	initialized, err = db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}

	// Second call keeps data
	if err := db.SetField("db.password", "secret"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to re-initialize: %v", err)
	}
	if value, err := db.GetField("db.password"); err != nil || value != "secret" {
		t.Errorf("Field lost after re-initialize: %q, %v", value, err)
	}
}

func TestUninitializedDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "form.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.SetField("a", "b"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if _, err := db.GetParams("a"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestFieldOperations(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("db.password", "hunter2"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}

	value, err := db.GetField("db.password")
	if err != nil {
		t.Fatalf("Failed to get field: %v", err)
	}
	if value != "hunter2" {
		t.Errorf("Value mismatch: got %s, want hunter2", value)
	}

	// Empty values are stored, not treated as missing
	if err := db.SetField("empty", ""); err != nil {
		t.Fatalf("Failed to set empty field: %v", err)
	}
	if value, err := db.GetField("empty"); err != nil || value != "" {
		t.Errorf("Empty field: got %q, %v", value, err)
	}

	if _, err := db.GetField("missing"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound, got %v", err)
	}

	if err := db.DeleteField("db.password"); err != nil {
		t.Fatalf("Failed to delete field: %v", err)
	}
	if _, err := db.GetField("db.password"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound after delete, got %v", err)
	}
	if err := db.DeleteField("db.password"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound for second delete, got %v", err)
	}
}

func TestParamsOperations(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	params, err := db.GetParams("db.password")
	if err != nil {
		t.Fatalf("Failed to get params: %v", err)
	}
	if params != nil {
		t.Errorf("Expected nil params, got %v", params)
	}

	want := map[string]string{"encryptionKey": "s3cret", "algorithm": "AES"}
	if err := db.SetParams("db.password", want); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	params, err = db.GetParams("db.password")
	if err != nil {
		t.Fatalf("Failed to get params: %v", err)
	}
	if len(params) != 2 || params["encryptionKey"] != "s3cret" || params["algorithm"] != "AES" {
		t.Errorf("Params mismatch: got %v, want %v", params, want)
	}

	// Deleting the field removes its params too
	if err := db.DeleteField("db.password"); err != nil {
		t.Fatalf("Failed to delete field: %v", err)
	}
	params, err = db.GetParams("db.password")
	if err != nil {
		t.Fatalf("Failed to get params: %v", err)
	}
	if params != nil {
		t.Errorf("Expected nil params after delete, got %v", params)
	}
}

func TestListFields(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	if err := db.SetField("b.value", "1"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	if err := db.SetParams("a.params", map[string]string{"algorithm": "AES"}); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}
	if err := db.SetField("a.params", "x"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}

	names, err := db.ListFields()
	if err != nil {
		t.Fatalf("Failed to list fields: %v", err)
	}
	if len(names) != 2 || names[0] != "a.params" || names[1] != "b.value" {
		t.Errorf("Unexpected fields: %v", names)
	}
}

func TestModifiedTimestamp(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	before, err := db.GetModified()
	if err != nil {
		t.Fatalf("Failed to get modified: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := db.SetField("a", "b"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}

	after, err := db.GetModified()
	if err != nil {
		t.Fatalf("Failed to get modified: %v", err)
	}
	if !after.After(before) {
		t.Errorf("Modified time not updated: before %v, after %v", before, after)
	}
}

func TestPersistence(t *testing.T) {
	db, dbPath := openTestDB(t)

	if err := db.SetField("db.password", "data"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}
	if err := db.SetParams("db.password", map[string]string{"algorithm": "AES"}); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}
	db.Close()

	// Reopen and verify
	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	value, err := db2.GetField("db.password")
	if err != nil {
		t.Fatalf("Failed to get field: %v", err)
	}
	if value != "data" {
		t.Error("Field value not persisted correctly")
	}

	params, err := db2.GetParams("db.password")
	if err != nil {
		t.Fatalf("Failed to get params: %v", err)
	}
	if params["algorithm"] != "AES" {
		t.Error("Params not persisted correctly")
	}
}

func TestCompact(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	for i := 0; i < 50; i++ {
		if err := db.SetField("field", string(make([]byte, 4096))); err != nil {
			t.Fatalf("Failed to set field: %v", err)
		}
	}
	if err := db.SetField("field", "small"); err != nil {
		t.Fatalf("Failed to set field: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	value, err := db.GetField("field")
	if err != nil {
		t.Fatalf("Failed to get field after compact: %v", err)
	}
	if value != "small" {
		t.Errorf("Value mismatch after compact: got %q", value)
	}

	initialized, err := db.IsInitialized()
	if err != nil || !initialized {
		t.Errorf("Database should stay initialized after compact: %v", err)
	}
}
