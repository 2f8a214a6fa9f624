package types

import (
	"errors"
	"path/filepath"
	"strings"
)

// Config holds backend selection and parameters for opening the store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	DBName  string `json:"db_name" yaml:"db_name"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultDBName is the database file created inside DataDir.
const DefaultDBName = "plantcare.db"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDBNameInvalid  = errors.New("db name must be a plain file name")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if strings.ContainsAny(c.DBName, `/\`) || c.DBName == "." || c.DBName == ".." {
		return ErrDBNameInvalid
	}
	return nil
}

// DatabasePath returns the location of the database file. An empty DataDir
// resolves against the working directory; an empty DBName uses DefaultDBName.
func (c Config) DatabasePath() string {
	name := c.DBName
	if name == "" {
		name = DefaultDBName
	}
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}
