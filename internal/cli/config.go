package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	keyBackend          = "backend"
	keyDataDir          = "data_dir"
	keyDBName           = "db_name"
	keyPageSize         = "page_size"
	keyAutoSyncInterval = "auto_sync_interval"
	keySyncDir          = "sync_dir"
	keyQuiet            = "quiet"

	defaultPageSize         = 20
	defaultAutoSyncInterval = 30 * time.Minute
)

// settings is the resolved content of config.yaml.
type settings struct {
	Backend          string
	DataDir          string
	DBName           string
	PageSize         int
	AutoSyncInterval time.Duration
	SyncDir          string
	Quiet            bool
}

// configFile is the layout written to config.yaml on first run.
type configFile struct {
	Backend          string `yaml:"backend"`
	DataDir          string `yaml:"data_dir,omitempty"`
	DBName           string `yaml:"db_name"`
	PageSize         int    `yaml:"page_size"`
	AutoSyncInterval string `yaml:"auto_sync_interval"`
	SyncDir          string `yaml:"sync_dir,omitempty"`
}

const configHeader = "# plantcare configuration\n" +
	"# data_dir and sync_dir are optional; --data-dir and PLANTCARE_DATA_DIR\n" +
	"# override data_dir.\n"

// loadSettings reads config.yaml from configDir with Viper, creating the
// directory and a default file on first run.
func loadSettings(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("creating config dir: %w", err)
	}
	if err := writeDefaultConfig(filepath.Join(configDir, configFileExt)); err != nil {
		return settings{}, fmt.Errorf("writing default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(keyBackend, types.BackendSQLite)
	v.SetDefault(keyDBName, types.DefaultDBName)
	v.SetDefault(keyPageSize, defaultPageSize)
	v.SetDefault(keyAutoSyncInterval, defaultAutoSyncInterval)
	v.SetDefault(keyQuiet, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	s := settings{
		Backend:          v.GetString(keyBackend),
		DataDir:          v.GetString(keyDataDir),
		DBName:           v.GetString(keyDBName),
		PageSize:         v.GetInt(keyPageSize),
		AutoSyncInterval: v.GetDuration(keyAutoSyncInterval),
		SyncDir:          v.GetString(keySyncDir),
		Quiet:            v.GetBool(keyQuiet),
	}
	if s.PageSize <= 0 {
		s.PageSize = defaultPageSize
	}
	return s, nil
}

// writeDefaultConfig creates config.yaml at path unless it already exists.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:          types.BackendSQLite,
		DBName:           types.DefaultDBName,
		PageSize:         defaultPageSize,
		AutoSyncInterval: defaultAutoSyncInterval.String(),
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	buf.Write(data)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
