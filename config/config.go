package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger             `mapstructure:"logger"`
	DB           Database           `mapstructure:"database"`
	API          API                `mapstructure:"api"`
	Cache        Cache              `mapstructure:"cache"`
	ExecutionAPI ExecutionAPIConfig `mapstructure:"execution_api"`
	TableAPI     TableAPIConfig     `mapstructure:"table_api"`
	Sync         SyncConfig         `mapstructure:"sync"`
	Search       SearchConfig       `mapstructure:"search"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type ExecutionAPIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	PageSize         int           `mapstructure:"page_size"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	WorkflowCacheTTL time.Duration `mapstructure:"workflow_cache_ttl"`
}

type TableAPIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	DatabaseID       string        `mapstructure:"database_id"`
	Timeout          time.Duration `mapstructure:"timeout"`
	SearchLimit      int           `mapstructure:"search_limit"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type SyncConfig struct {
	CooldownDuration time.Duration `mapstructure:"cooldown_duration"`
	CronSpec         string        `mapstructure:"cron_spec"`
	OrderNumberKey   string        `mapstructure:"order_number_key"`
}

type SearchConfig struct {
	// TableFields maps a cached table name to the field names searched on it.
	TableFields map[string][]string `mapstructure:"table_fields"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("execution_api.timeout", 30*time.Second)
	viper.SetDefault("execution_api.page_size", 50)
	viper.SetDefault("execution_api.max_request_per_min", 120)
	viper.SetDefault("execution_api.workflow_cache_ttl", 5*time.Minute)
	viper.SetDefault("table_api.timeout", 30*time.Second)
	viper.SetDefault("table_api.search_limit", 10)
	viper.SetDefault("table_api.max_request_per_min", 120)
	viper.SetDefault("sync.cooldown_duration", 60*time.Second)
	viper.SetDefault("sync.cron_spec", "* * * * *")
	viper.SetDefault("sync.order_number_key", "orderNumber")
	viper.SetDefault("search.table_fields", map[string][]string{
		"Orders": {"ID"},
	})
}

// Validate checks the credentials and identifiers the engines cannot run without.
func (c *Config) Validate() error {
	if c.ExecutionAPI.BaseURL == "" {
		return fmt.Errorf("execution_api.base_url is required")
	}
	if c.ExecutionAPI.APIKey == "" {
		return fmt.Errorf("execution_api.api_key is required")
	}
	if c.TableAPI.BaseURL == "" {
		return fmt.Errorf("table_api.base_url is required")
	}
	if c.TableAPI.APIKey == "" {
		return fmt.Errorf("table_api.api_key is required")
	}
	if c.TableAPI.DatabaseID == "" {
		return fmt.Errorf("table_api.database_id is required")
	}
	return nil
}
