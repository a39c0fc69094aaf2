// Package store holds the settings document shared by the countdown timer and
// the recurrence scheduler. The document is a single mapping from string keys
// to JSON values which is read wholesale and written wholesale on every commit.
package store

import (
	"bytes"
	"encoding/json"
	"maps"
	"sync"
)

// Keys of the settings document.
const (
	KeySubtleMode    = "subtle_mode"
	KeyRecentTimers  = "recent_timers_seconds"
	KeyTimerEnd      = "timer_end"
	KeyDailyAlarms   = "daily_alarms"
	KeyIntervalTimer = "interval_timer"
)

// Tx gives access to individual keys of the document.
type Tx interface {
	// Get decodes the value stored under key into dst. It reports false and
	// leaves dst untouched if the key is absent or null.
	Get(key string, dst any) (bool, error)
	// Set replaces the value stored under key. A nil value stores null.
	Set(key string, value any) error
}

// Store is the settings document interface.
type Store interface {
	Tx
	// Read replaces the in-memory document with the persisted one. On failure
	// the document is left empty so that defaults apply.
	Read() error
	// Commit persists the whole in-memory document.
	Commit() error
	// Update runs fn with exclusive access to the document and commits
	// afterwards if fn set any key. Read-modify-write sequences must go
	// through Update.
	Update(fn func(tx Tx) error) error
}

// Backend loads and saves a whole document.
type Backend interface {
	Load() (map[string]json.RawMessage, error)
	Save(values map[string]json.RawMessage) error
	Close() error
}

// Document is the default Store implementation.
type Document struct {
	backend Backend
	values  map[string]json.RawMessage
	mu      sync.Mutex
}

var nullValue = []byte("null")

// New returns an empty document persisted through b. Call Read to load the
// persisted state.
func New(b Backend) *Document {
	return &Document{
		backend: b,
		values:  make(map[string]json.RawMessage),
	}
}

// Open opens the backend selected by driver at path.
func Open(driver, path string) (*Document, error) {
	var (
		b   Backend
		err error
	)

	switch driver {
	case "sqlite":
		b, err = NewSQLite(path)
	case "json":
		b = NewJSONFile(nil, path)
	case "bolt", "":
		b, err = NewBolt(path)
	default:
		return nil, errUnknownDriver.Fmt(driver)
	}

	if err != nil {
		return nil, err
	}

	return New(b), nil
}

func (d *Document) Read() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	values, err := d.backend.Load()
	if err != nil {
		d.values = make(map[string]json.RawMessage)
		return errRead.Wrap(err)
	}

	if values == nil {
		values = make(map[string]json.RawMessage)
	}

	d.values = values

	return nil
}

func (d *Document) Commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.commit()
}

func (d *Document) Get(key string, dst any) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.get(key, dst)
}

func (d *Document) Set(key string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.set(key, value)
}

func (d *Document) Update(fn func(tx Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &lockedTx{d: d}

	if err := fn(tx); err != nil {
		return err
	}

	if !tx.dirty {
		return nil
	}

	return d.commit()
}

// Len returns the number of keys present in the document.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.values)
}

// Close releases the backend.
func (d *Document) Close() error {
	return d.backend.Close()
}

func (d *Document) commit() error {
	snapshot := maps.Clone(d.values)

	if err := d.backend.Save(snapshot); err != nil {
		return errCommit.Wrap(err)
	}

	return nil
}

func (d *Document) get(key string, dst any) (bool, error) {
	raw, ok := d.values[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), nullValue) {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errDecode.Fmt(key).Wrap(err)
	}

	return true, nil
}

func (d *Document) set(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return errEncode.Fmt(key).Wrap(err)
	}

	d.values[key] = b

	return nil
}

// lockedTx is handed to Update callbacks while the document lock is held.
type lockedTx struct {
	d     *Document
	dirty bool
}

func (tx *lockedTx) Get(key string, dst any) (bool, error) {
	return tx.d.get(key, dst)
}

func (tx *lockedTx) Set(key string, value any) error {
	if err := tx.d.set(key, value); err != nil {
		return err
	}

	tx.dirty = true

	return nil
}
