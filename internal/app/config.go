package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/echonova-backend/internal/platform/envutil"
	"github.com/yungbote/echonova-backend/internal/platform/llm"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

const defaultConfigFile = "config/config.yaml"

type Config struct {
	Env         string
	ServiceName string
	Version     string
	Port        string

	LogMode           string
	LogFile           string
	LogFileMaxMB      int
	LogFileMaxBackups int

	JWTSecret      string
	AccessTokenTTL time.Duration

	DBDriver string
	DBDSN    string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	CORSOrigins     []string
	MetricsAddr     string
	ShutdownTimeout time.Duration

	LLM llm.Settings
}

// fileConfig mirrors config.yaml. Secrets are read from the environment only.
type fileConfig struct {
	Env         string `yaml:"env"`
	ServiceName string `yaml:"service_name"`
	Version     string `yaml:"version"`
	Port        string `yaml:"port"`
	Log         struct {
		Mode       string `yaml:"mode"`
		File       string `yaml:"file"`
		MaxMB      int    `yaml:"max_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
	Auth struct {
		AccessTTLHours int `yaml:"access_ttl_hours"`
	} `yaml:"auth"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr            string `yaml:"addr"`
		DB              int    `yaml:"db"`
		CatalogCacheTTL int    `yaml:"catalog_cache_ttl_seconds"`
	} `yaml:"redis"`
	HTTP struct {
		CORSOrigins            []string `yaml:"cors_origins"`
		MetricsAddr            string   `yaml:"metrics_addr"`
		ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	} `yaml:"http"`
	AI struct {
		Provider       string `yaml:"provider"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		GeminiModel    string `yaml:"gemini_model"`
		OpenAIModel    string `yaml:"openai_model"`
		OllamaBaseURL  string `yaml:"ollama_base_url"`
		OllamaModel    string `yaml:"ollama_model"`
	} `yaml:"ai"`
}

// LoadConfig reads the optional YAML file named by CONFIG_FILE (default
// config/config.yaml) and applies environment overrides on top. A missing
// default file is fine; a missing explicit one is an error.
func LoadConfig(log *logger.Logger) (Config, error) {
	path := envutil.String("CONFIG_FILE", "")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var fc fileConfig
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if log != nil {
			log.Info("config file loaded", "path", path)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	return fc.resolve(), nil
}

func (fc fileConfig) resolve() Config {
	cfg := Config{
		Env:         envutil.String("APP_ENV", orDefault(fc.Env, "development")),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", orDefault(fc.ServiceName, "echonova-diagnostic")),
		Version:     envutil.String("APP_VERSION", fc.Version),
		Port:        envutil.String("PORT", orDefault(fc.Port, "8080")),

		LogMode:           envutil.String("LOG_MODE", orDefault(fc.Log.Mode, "development")),
		LogFile:           envutil.String("LOG_FILE", fc.Log.File),
		LogFileMaxMB:      envutil.Int("LOG_FILE_MAX_MB", fc.Log.MaxMB),
		LogFileMaxBackups: envutil.Int("LOG_FILE_MAX_BACKUPS", fc.Log.MaxBackups),

		JWTSecret:      envutil.String("JWT_SECRET", ""),
		AccessTokenTTL: hours(envutil.Int("ACCESS_TOKEN_TTL_HOURS", fc.Auth.AccessTTLHours)),

		DBDriver: envutil.String("DB_DRIVER", fc.Database.Driver),
		DBDSN:    envutil.String("DB_DSN", fc.Database.DSN),

		RedisAddr:       envutil.String("REDIS_ADDR", fc.Redis.Addr),
		RedisPassword:   envutil.String("REDIS_PASSWORD", ""),
		RedisDB:         envutil.Int("REDIS_DB", fc.Redis.DB),
		CatalogCacheTTL: seconds(envutil.Int("CATALOG_CACHE_TTL", orDefaultInt(fc.Redis.CatalogCacheTTL, 300))),

		CORSOrigins:     fc.HTTP.CORSOrigins,
		MetricsAddr:     envutil.String("METRICS_ADDR", fc.HTTP.MetricsAddr),
		ShutdownTimeout: seconds(envutil.Int("SHUTDOWN_TIMEOUT_SECONDS", orDefaultInt(fc.HTTP.ShutdownTimeoutSeconds, 10))),

		LLM: llm.SettingsFromEnv(),
	}
	if origins := envutil.List("CORS_ORIGINS"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}

	// Environment wins; the file only fills what the environment left empty.
	if envutil.String("AI_PROVIDER", "") == "" {
		cfg.LLM.Provider = fc.AI.Provider
	}
	if envutil.String("AI_TIMEOUT_SECONDS", "") == "" && fc.AI.TimeoutSeconds > 0 {
		cfg.LLM.Timeout = seconds(fc.AI.TimeoutSeconds)
	}
	cfg.LLM.Gemini.Model = orDefault(cfg.LLM.Gemini.Model, fc.AI.GeminiModel)
	cfg.LLM.OpenAI.Model = orDefault(cfg.LLM.OpenAI.Model, fc.AI.OpenAIModel)
	cfg.LLM.Ollama.BaseURL = orDefault(cfg.LLM.Ollama.BaseURL, fc.AI.OllamaBaseURL)
	cfg.LLM.Ollama.Model = orDefault(cfg.LLM.Ollama.Model, fc.AI.OllamaModel)
	return cfg
}

// Validate reports settings the service cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	return errors.Join(errs...)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
func hours(n int) time.Duration   { return time.Duration(n) * time.Hour }
