package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Version and timestamps
	FieldsBucket = []byte("fields") // Field values
	ParamsBucket = []byte("params") // Validator parameters per field, JSON
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
)

var (
	ErrNotInitialized = errors.New("form database not initialized")
	ErrFieldNotFound  = errors.New("field not found")
)

// Storage provides BBolt-based storage for form state
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a form database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure. Existing data is kept.
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, FieldsBucket, ParamsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// touch updates the modified timestamp inside tx
func touch(tx *bolt.Tx) error {
	config := tx.Bucket(ConfigBucket)
	if config == nil {
		return ErrNotInitialized
	}
	modified, _ := time.Now().MarshalBinary()
	return config.Put(ConfigModified, modified)
}

// UpdateModified updates the last modified timestamp
func (s *Storage) UpdateModified() error {
	return s.db.Update(touch)
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrNotInitialized
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// SetField stores the value of a field
func (s *Storage) SetField(name, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		fields := tx.Bucket(FieldsBucket)
		if fields == nil {
			return ErrNotInitialized
		}
		if err := fields.Put([]byte(name), []byte(value)); err != nil {
			return err
		}
		return touch(tx)
	})
}

// GetField retrieves the value of a field
func (s *Storage) GetField(name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		fields := tx.Bucket(FieldsBucket)
		if fields == nil {
			return ErrNotInitialized
		}
		data := fields.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
		}
		// string() copies; the slice is only valid during the transaction
		value = string(data)
		return nil
	})
	return value, err
}

// DeleteField removes a field and its validator parameters
func (s *Storage) DeleteField(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		fields := tx.Bucket(FieldsBucket)
		params := tx.Bucket(ParamsBucket)
		if fields == nil || params == nil {
			return ErrNotInitialized
		}
		if fields.Get([]byte(name)) == nil && params.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
		}
		if err := fields.Delete([]byte(name)); err != nil {
			return err
		}
		if err := params.Delete([]byte(name)); err != nil {
			return err
		}
		return touch(tx)
	})
}

// ListFields returns the names of all fields that have a value or parameters
func (s *Storage) ListFields() ([]string, error) {
	seen := make(map[string]struct{})
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{FieldsBucket, ParamsBucket} {
			bucket := tx.Bucket(name)
			if bucket == nil {
				return ErrNotInitialized
			}
			if err := bucket.ForEach(func(k, v []byte) error {
				seen[string(k)] = struct{}{}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SetParams replaces the validator parameters of a field
func (s *Storage) SetParams(name string, params map[string]string) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(ParamsBucket)
		if bucket == nil {
			return ErrNotInitialized
		}
		if err := bucket.Put([]byte(name), data); err != nil {
			return err
		}
		return touch(tx)
	})
}

// GetParams returns the validator parameters of a field, or nil when none are set
func (s *Storage) GetParams(name string) (map[string]string, error) {
	var params map[string]string
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(ParamsBucket)
		if bucket == nil {
			return ErrNotInitialized
		}
		data := bucket.Get([]byte(name))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &params)
	})
	return params, err
}

// Compact creates a compacted copy of the database, removing unused space.
// Encrypting fields rewrites values, so this reclaims the old pages.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	// Create new database
	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	// Reopen database
	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
