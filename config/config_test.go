package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestLoadOrCreateConfigMissingCreatesDefault(t *testing.T) {
	tmp := t.TempDir()

	configPath := filepath.Join(tmp, "config", "config.toml")
	old := resolveConfigPath
	resolveConfigPath = func() (string, error) { return configPath, nil }
	t.Cleanup(func() { resolveConfigPath = old })

	// Ensure missing
	if _, err := os.Stat(configPath); err == nil {
		t.Fatalf("expected config file to be missing")
	}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if !created {
		t.Fatalf("LoadOrCreateConfig() created=false, want true")
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode created config: %v", err)
	}
	if got.Server.Host != "127.0.0.1" {
		t.Fatalf("default server host = %q, want %q", got.Server.Host, "127.0.0.1")
	}
	if got.Server.Port != 8888 {
		t.Fatalf("default server port = %d, want %d", got.Server.Port, 8888)
	}
	if got.Tts.SampleRate != 24000 || got.Tts.Channels != 1 || got.Tts.BitDepth != 16 {
		t.Fatalf("default narration format = %d/%d/%d, want 24000/1/16",
			got.Tts.SampleRate, got.Tts.Channels, got.Tts.BitDepth)
	}
}

func TestLoadOrCreateConfigLoadsExisting(t *testing.T) {
	tmp := t.TempDir()

	configPath := filepath.Join(tmp, "config.toml")
	old := resolveConfigPath
	resolveConfigPath = func() (string, error) { return configPath, nil }
	t.Cleanup(func() { resolveConfigPath = old })

	Conf = defaultConfig()
	Conf.Server.Host = "0.0.0.0"
	Conf.Server.Port = 9999
	if err := SaveConfig(); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	Conf = Config{}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if created {
		t.Fatalf("LoadOrCreateConfig() created=true, want false")
	}
	if Conf.Server.Host != "0.0.0.0" {
		t.Fatalf("loaded server host = %q, want %q", Conf.Server.Host, "0.0.0.0")
	}
	if Conf.Server.Port != 9999 {
		t.Fatalf("loaded server port = %d, want %d", Conf.Server.Port, 9999)
	}
}

func TestSaveConfigCreatesParentDirs(t *testing.T) {
	tmp := t.TempDir()

	configPath := filepath.Join(tmp, "deep", "nest", "config.toml")
	old := resolveConfigPath
	resolveConfigPath = func() (string, error) { return configPath, nil }
	t.Cleanup(func() { resolveConfigPath = old })

	Conf = defaultConfig()
	Conf.Server.Port = 9999

	if err := SaveConfig(); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(configPath)); err != nil {
		t.Fatalf("expected parent directories to exist: %v", err)
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}
	if got.Server.Port != 9999 {
		t.Fatalf("saved server port = %d, want %d", got.Server.Port, 9999)
	}
}

func TestCheckConfigRequiresProviderKeys(t *testing.T) {
	Conf = defaultConfig()
	if err := CheckConfig(); err == nil {
		t.Fatal("CheckConfig() = nil, want missing key error")
	}

	Conf.Llm.ApiKey = "k"
	Conf.Tts.Gemini.ApiKey = "k"
	Conf.Video.ApiKey = "k"
	if err := CheckConfig(); err != nil {
		t.Fatalf("CheckConfig() error: %v", err)
	}

	Conf.Tts.Provider = "tape-deck"
	if err := CheckConfig(); err == nil {
		t.Fatal("CheckConfig() = nil, want unknown provider error")
	}
}
