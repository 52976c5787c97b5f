package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App      AppConfig    `mapstructure:"app"`
	Server   ServerConfig `mapstructure:"server"`
	LLM      LLMConfig    `mapstructure:"llm"`
	Share    ShareConfig  `mapstructure:"share"`
	Pantry   PantryConfig `mapstructure:"pantry"`
	LogLevel string       `mapstructure:"log_level"`
	LogDir   string       `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// LLMConfig 文字生成服務配置（OpenAI 相容介面）
type LLMConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Enabled 是否啟用模型生成；沒有憑證時一律走固定範本
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ShareConfig 分享連結設定
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// PantryConfig 食材櫃儲存設定
type PantryConfig struct {
	Backend       string `mapstructure:"backend"`
	Key           string `mapstructure:"key"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// LoadConfig 載入設定（.env 可有可無）
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(viper.New())
}

// Load 以指定的 viper 實例解析設定，方便測試注入
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.model", "OPENAI_MODEL")
	_ = v.BindEnv("llm.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("llm.max_tokens", "MODEL_MAX_TOKENS")
	_ = v.BindEnv("share.base_url", "PUBLIC_BASE_URL")
	_ = v.BindEnv("pantry.backend", "PANTRY_BACKEND")
	_ = v.BindEnv("pantry.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("pantry.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Share.BaseURL = strings.TrimRight(strings.TrimSpace(config.Share.BaseURL), "/")
	config.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(config.LLM.BaseURL), "/")
	config.Pantry.Backend = strings.ToLower(strings.TrimSpace(config.Pantry.Backend))

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "pantry-chef")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 模型設定
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", "60s")

	// 分享與食材櫃
	v.SetDefault("share.base_url", "")
	v.SetDefault("pantry.backend", "memory")
	v.SetDefault("pantry.key", "pantry")
	v.SetDefault("pantry.redis_addr", "localhost:6379")
	v.SetDefault("pantry.redis_password", "")
	v.SetDefault("pantry.redis_db", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes")
	}
	if config.LLM.Enabled() {
		if config.LLM.Model == "" {
			return fmt.Errorf("llm model is required when an api key is set")
		}
		if config.LLM.BaseURL == "" {
			return fmt.Errorf("llm base url is required when an api key is set")
		}
		if config.LLM.Timeout <= 0 {
			return fmt.Errorf("invalid llm timeout")
		}
	}
	switch config.Pantry.Backend {
	case "memory":
	case "redis":
		if config.Pantry.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis pantry backend")
		}
	default:
		return fmt.Errorf("unknown pantry backend %q", config.Pantry.Backend)
	}
	if strings.TrimSpace(config.Pantry.Key) == "" {
		return fmt.Errorf("pantry key is required")
	}
	return nil
}
