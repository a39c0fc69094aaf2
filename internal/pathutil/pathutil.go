// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"

	"github.com/ayoisaiah/chime/internal/osutil"
)

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	dbFileName     string
	jsonFileName   string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dataDir        string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:      "chime",
			configFileName: "config.yml",
			dbFileName:     "chime.db",
			jsonFileName:   "settings.json",
			logFileName:    "chime.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DataDir() string {
	return Must().dataDir
}

func LogFilePath() string {
	return Must().logFilePath
}

// DocumentPath returns the default location of the settings document for the
// given store driver.
func DocumentPath(driver string) string {
	p := Must()

	switch driver {
	case "json":
		return filepath.Join(p.dataDir, p.jsonFileName)
	case "sqlite":
		return filepath.Join(p.dataDir, StripExtension(p.dbFileName)+".sqlite")
	default:
		return filepath.Join(p.dataDir, p.dbFileName)
	}
}

func (p *Paths) applyEnvironmentOverrides() {
	chimeEnv := strings.TrimSpace(os.Getenv("CHIME_ENV"))
	if chimeEnv != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", chimeEnv)
		p.dbFileName = fmt.Sprintf("chime_%s.db", chimeEnv)
		p.jsonFileName = fmt.Sprintf("settings_%s.json", chimeEnv)
		p.logFileName = fmt.Sprintf("chime_%s.log", chimeEnv)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	p.dataDir, err = xdg.DataFile(p.configDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.dataDir, osutil.DirPermission); err != nil {
		return err
	}

	p.logFilePath = filepath.Join(p.dataDir, "log", p.logFileName)

	return nil
}

// StripExtension returns the input file name without its extension.
func StripExtension(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}
