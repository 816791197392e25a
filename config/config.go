package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"sermonclip/internal/appdirs"
	"sermonclip/log"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

type App struct {
	Proxy       string   `toml:"proxy"`
	ParsedProxy *url.URL `toml:"-"`
}

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Llm struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type GeminiTts struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type OpenaiTts struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type Tts struct {
	// Provider routes narration synthesis: "gemini" or "openai".
	Provider     string    `toml:"provider"`
	DefaultVoice string    `toml:"default_voice"`
	SampleRate   int       `toml:"sample_rate"`
	Channels     int       `toml:"channels"`
	BitDepth     int       `toml:"bit_depth"`
	Gemini       GeminiTts `toml:"gemini"`
	Openai       OpenaiTts `toml:"openai"`
}

type Video struct {
	BaseUrl         string `toml:"base_url"`
	ApiKey          string `toml:"api_key"`
	Model           string `toml:"model"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
	PollTimeoutSec  int    `toml:"poll_timeout_sec"`
	MaxClips        int    `toml:"max_clips"`
}

type Queue struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Concurrency   int    `toml:"concurrency"`
}

type Config struct {
	App    App    `toml:"app"`
	Server Server `toml:"server"`
	Llm    Llm    `toml:"llm"`
	Tts    Tts    `toml:"tts"`
	Video  Video  `toml:"video"`
	Queue  Queue  `toml:"queue"`
}

var Conf Config

var resolveConfigPath = func() (string, error) {
	dirs, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return dirs.ConfigFile, nil
}

func ResolveConfigPath() (string, error) {
	return resolveConfigPath()
}

func defaultConfig() Config {
	return Config{
		Server: Server{
			Host: "127.0.0.1",
			Port: 8888,
		},
		Llm: Llm{
			Model: "gpt-4o-mini",
		},
		Tts: Tts{
			Provider:     "gemini",
			DefaultVoice: "warm-shepherd",
			SampleRate:   24000,
			Channels:     1,
			BitDepth:     16,
			Gemini: GeminiTts{
				Model: "gemini-2.5-flash-preview-tts",
			},
			Openai: OpenaiTts{
				Model: "tts-1",
			},
		},
		Video: Video{
			Model:           "veo-3.0-fast",
			PollIntervalSec: 5,
			PollTimeoutSec:  600,
			MaxClips:        6,
		},
		Queue: Queue{
			RedisAddr:   "localhost:6379",
			Concurrency: 2,
		},
	}
}

// LoadOrCreateConfig reads the TOML config, writing the defaults first when no
// file exists yet. The returned bool reports whether a new file was created.
func LoadOrCreateConfig() (bool, error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, statErr := os.Stat(configPath); errors.Is(statErr, os.ErrNotExist) {
		Conf = defaultConfig()
		if err := SaveConfig(); err != nil {
			return false, fmt.Errorf("write default config: %w", err)
		}
		return true, nil
	}

	if _, err := toml.DecodeFile(configPath, &Conf); err != nil {
		return false, fmt.Errorf("decode config %s: %w", configPath, err)
	}
	return false, nil
}

// LoadConfig is the boot-time wrapper around LoadOrCreateConfig.
func LoadConfig() bool {
	created, err := LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("failed to load config", zap.Error(err))
		return false
	}
	if created {
		path, _ := ResolveConfigPath()
		log.GetLogger().Info("created default config, fill in API keys before generating", zap.String("path", path))
	}

	if Conf.App.Proxy != "" {
		parsed, err := url.Parse(Conf.App.Proxy)
		if err != nil {
			log.GetLogger().Error("invalid proxy address", zap.String("proxy", Conf.App.Proxy), zap.Error(err))
			return false
		}
		Conf.App.ParsedProxy = parsed
	}
	return true
}

func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

// CheckConfig validates the fields the render pipeline cannot run without.
func CheckConfig() error {
	if Conf.Llm.ApiKey == "" {
		return errors.New("llm.api_key is not configured")
	}
	switch Conf.Tts.Provider {
	case "gemini":
		if Conf.Tts.Gemini.ApiKey == "" {
			return errors.New("tts.gemini.api_key is not configured")
		}
	case "openai":
		if Conf.Tts.Openai.ApiKey == "" {
			return errors.New("tts.openai.api_key is not configured")
		}
	default:
		return fmt.Errorf("unknown tts provider: %s", Conf.Tts.Provider)
	}
	if Conf.Tts.SampleRate <= 0 || Conf.Tts.Channels <= 0 || Conf.Tts.BitDepth <= 0 {
		return errors.New("tts audio format fields must be positive")
	}
	if Conf.Video.ApiKey == "" {
		return errors.New("video.api_key is not configured")
	}
	return nil
}
