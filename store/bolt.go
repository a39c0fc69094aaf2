package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/chime/internal/osutil"
)

const settingsBucket = "settings"

// Bolt persists the document in a BoltDB file, one key per setting.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens or creates the database at path and locks it.
func NewBolt(path string) (*Bolt, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(settingsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db}, nil
}

func (b *Bolt) Load() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)

	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).ForEach(func(k, v []byte) error {
			// bolt values are only valid for the life of the transaction
			values[string(k)] = append(json.RawMessage(nil), v...)
			return nil
		})
	})

	return values, err
}

func (b *Bolt) Save(values map[string]json.RawMessage) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(settingsBucket))
		if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}

		bucket, err := tx.CreateBucket([]byte(settingsBucket))
		if err != nil {
			return err
		}

		for k, v := range values {
			if err := bucket.Put([]byte(k), v); err != nil {
				return err
			}
		}

		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

// openDB creates or opens a database and locks it.
func openDB(path string) (*bolt.DB, error) {
	var fileMode fs.FileMode = osutil.FilePermission

	db, err := bolt.Open(
		path,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errChimeRunning
		}

		return nil, err
	}

	return db, nil
}
