// Package secret manages the bearer token that guards the RPC server. The
// token lives in the OS keyring, or in a private file when no keyring is
// available.
package secret

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/zalando/go-keyring"

	"github.com/ayoisaiah/chime/internal/apperr"
	"github.com/ayoisaiah/chime/internal/osutil"
)

const (
	service = "chime"
	user    = "rpc-secret"
)

var (
	errNotFound = &apperr.Error{
		Message: "no RPC secret found: start the daemon once or set server.secret",
	}

	errStore = &apperr.Error{
		Message: "unable to store RPC secret",
	}
)

// Store resolves the RPC secret.
type Store struct {
	// Fs and FilePath locate the fallback file.
	Fs       afero.Fs
	FilePath string
}

// New returns a store that falls back to the file at path on the OS
// filesystem.
func New(path string) *Store {
	return &Store{Fs: afero.NewOsFs(), FilePath: path}
}

// Lookup returns the configured secret if set, otherwise the stored one.
func (s *Store) Lookup(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	secret, err := keyring.Get(service, user)
	if err == nil && secret != "" {
		return secret, nil
	}

	b, ferr := afero.ReadFile(s.Fs, s.FilePath)
	if ferr == nil && strings.TrimSpace(string(b)) != "" {
		return strings.TrimSpace(string(b)), nil
	}

	if ferr != nil && !errors.Is(ferr, fs.ErrNotExist) {
		return "", errNotFound.Wrap(ferr)
	}

	return "", errNotFound
}

// Resolve is like Lookup but generates and stores a new secret when none
// exists.
func (s *Store) Resolve(configured string) (string, error) {
	secret, err := s.Lookup(configured)
	if err == nil {
		return secret, nil
	}

	if !errors.Is(err, errNotFound) {
		return "", err
	}

	secret = uuid.NewString()

	if err := keyring.Set(service, user, secret); err == nil {
		return secret, nil
	}

	if err := s.Fs.MkdirAll(filepath.Dir(s.FilePath), osutil.DirPermission); err != nil {
		return "", errStore.Wrap(err)
	}

	err = afero.WriteFile(s.Fs, s.FilePath, []byte(secret+"\n"), osutil.FilePermission)
	if err != nil {
		return "", errStore.Wrap(err)
	}

	return secret, nil
}

// Reset removes the stored secret so that the next Resolve generates a new
// one.
func (s *Store) Reset() error {
	var keyErr error

	err := keyring.Delete(service, user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		keyErr = errStore.Wrap(err)
	}

	err = s.Fs.Remove(s.FilePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errStore.Wrap(err)
	}

	return keyErr
}
