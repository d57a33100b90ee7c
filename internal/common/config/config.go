package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix は設定を読み込む環境変数のプレフィックスです
const EnvPrefix = "LIGHTBNB_"

type Config struct {
	Env     string        `koanf:"env" validate:"required"`
	DB      DBConfig      `koanf:"db" validate:"required"`
	Log     LogConfig     `koanf:"log"`
	Tracing TracingConfig `koanf:"tracing"`
	SFN     SFNConfig     `koanf:"sfn"`
}

// DBConfig はPostgreSQLへの接続情報とコネクションプールの設定です
type DBConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required,min=1,max=65535"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"` // seconds
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

type TracingConfig struct {
	Enabled bool `koanf:"enabled"`
}

type SFNConfig struct {
	TaskToken string `koanf:"task_token"`
}

// Default は環境変数が一つも設定されていない場合の設定を返します
func Default() *Config {
	return &Config{
		Env: "local",
		DB: DBConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "vagrant",
			Password:        "123",
			Name:            "lightbnb",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// LoadConfig は設定を読み込みます
// LIGHTBNB_DB_HOST のようにプレフィックス直後の最初の "_" がセクションの区切りになります
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// トレースはAWS_XRAY_SDK_DISABLEDがtrueの場合は必ず無効にする
	if cfg.Tracing.Enabled && !sdkDisabled() {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.Tracing.Enabled = false
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// DSN returns the lib/pq connection string
func (c *Config) DSN() string {
	sslMode := c.DB.SSLMode
	if sslMode == "" {
		// localhostのDBの場合はSSLを無効化
		if c.DB.Host == "localhost" || c.DB.Host == "127.0.0.1" {
			sslMode = "disable"
		} else {
			sslMode = "require"
		}
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, quoteDSNValue(c.DB.Password), c.DB.Name, sslMode)
}

// IsLocal reports whether the process runs outside AWS
func (c *Config) IsLocal() bool {
	return strings.EqualFold(c.Env, "local")
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
