package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("SPOTIFY_CLIENT_ID", "cid")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "csecret")
	t.Setenv("OPENAI_API_KEY", "okey")
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	setCredentials(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Database.Path != "./moodlist.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Spotify.Market != "US" {
		t.Errorf("Spotify.Market = %q, want US", cfg.Spotify.Market)
	}
	if cfg.Worker.Workers != 2 || cfg.Worker.QueueSize != 256 {
		t.Errorf("Worker = %+v", cfg.Worker)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("MOODLIST_PORT", "9090")

	path := filepath.Join(t.TempDir(), "moodlist.toml")
	raw := `
[server]
port = "8081"
host = "127.0.0.1"

[spotify]
market = "SE"

[worker]
workers = 4
queue_size = 32
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment wins over the file.
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Spotify.Market != "SE" {
		t.Errorf("Spotify.Market = %q, want SE", cfg.Spotify.Market)
	}
	if cfg.Worker.Workers != 4 {
		t.Errorf("Worker.Workers = %d, want 4", cfg.Worker.Workers)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "missing spotify credentials",
			setup: func(t *testing.T) {
				t.Setenv("SPOTIFY_CLIENT_ID", "")
				t.Setenv("SPOTIFY_CLIENT_SECRET", "")
				t.Setenv("OPENAI_API_KEY", "okey")
			},
		},
		{
			name: "missing openai key",
			setup: func(t *testing.T) {
				t.Setenv("SPOTIFY_CLIENT_ID", "cid")
				t.Setenv("SPOTIFY_CLIENT_SECRET", "csecret")
				t.Setenv("OPENAI_API_KEY", "")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			if _, err := Load(""); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}
