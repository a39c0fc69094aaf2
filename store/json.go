package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ayoisaiah/chime/internal/osutil"
)

// JSONFile persists the document as a single indented JSON object, the same
// layout as a plugin settings.json file.
type JSONFile struct {
	fs   afero.Fs
	path string
}

// NewJSONFile returns a backend for the file at path on fsys. A nil fsys
// means the operating system's filesystem.
func NewJSONFile(fsys afero.Fs, path string) *JSONFile {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &JSONFile{fs: fsys, path: path}
}

func (j *JSONFile) Load() (map[string]json.RawMessage, error) {
	b, err := afero.ReadFile(j.fs, j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}

	if err != nil {
		return nil, err
	}

	values := make(map[string]json.RawMessage)

	if len(b) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(b, &values); err != nil {
		return nil, err
	}

	return values, nil
}

func (j *JSONFile) Save(values map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(values, "", "    ")
	if err != nil {
		return err
	}

	b = append(b, '\n')

	if err := j.fs.MkdirAll(filepath.Dir(j.path), osutil.DirPermission); err != nil {
		return err
	}

	tmp := j.path + ".tmp"

	if err := afero.WriteFile(j.fs, tmp, b, osutil.FilePermission); err != nil {
		return err
	}

	return j.fs.Rename(tmp, j.path)
}

func (j *JSONFile) Close() error {
	return nil
}
