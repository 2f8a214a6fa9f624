package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "db name with a separator is rejected",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data", DBName: "../escape.db"},
			wantErr: ErrDBNameInvalid,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data", DBName: "plants.db"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDatabasePath(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"defaults", Config{}, filepath.Join(".", DefaultDBName)},
		{"custom dir", Config{DataDir: "/var/plants"}, filepath.Join("/var/plants", DefaultDBName)},
		{"custom name", Config{DataDir: "/var/plants", DBName: "green.db"}, filepath.Join("/var/plants", "green.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.DatabasePath(); got != tt.want {
				t.Fatalf("DatabasePath() = %q, want %q", got, tt.want)
			}
		})
	}
}
