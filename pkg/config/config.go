package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	MarketData struct {
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
	} `yaml:"marketdata"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		Password     string `yaml:"password"`
		DB           int    `yaml:"db"`
		PoolSize     int    `yaml:"pool_size"`
		MinIdleConns int    `yaml:"min_idle_conns"`
		Prefix       string `yaml:"prefix"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			BatchTimeout time.Duration `yaml:"batch_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Filter struct {
		Workers        int `yaml:"workers"`
		ExpirationDays int `yaml:"expiration_days"`
		Frames         map[string]struct {
			EMAPeriod     int     `yaml:"ema_period"`
			BiasThreshold float64 `yaml:"bias_threshold"`
			RSIPeriod     int     `yaml:"rsi_period"`
			RSIOversold   float64 `yaml:"rsi_oversold"`
			MACDFast      int     `yaml:"macd_fast"`
			MACDSlow      int     `yaml:"macd_slow"`
			MACDSignal    int     `yaml:"macd_signal"`
			LookbackDays  int     `yaml:"lookback_days"`
		} `yaml:"frames"`
		Financial struct {
			Enabled     bool    `yaml:"enabled"`
			GrossMargin float64 `yaml:"gross_margin"`
			ROE         float64 `yaml:"roe"`
			RDRatio     float64 `yaml:"rd_ratio"`
		} `yaml:"financial"`
	} `yaml:"filter"`
	Scheduler struct {
		Enabled  bool     `yaml:"enabled"`
		Cron     string   `yaml:"cron"`
		Universe []string `yaml:"universe"`
		Workers  int      `yaml:"workers"`
	} `yaml:"scheduler"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.APIKey == "" {
		return fmt.Errorf("marketdata.api_key is required")
	}
	if len(c.Filter.Frames) == 0 {
		return fmt.Errorf("filter.frames cannot be empty")
	}
	for name, frame := range c.Filter.Frames {
		switch name {
		case "daily", "weekly", "monthly":
		default:
			return fmt.Errorf("filter.frames: unknown time frame '%s'", name)
		}
		if frame.EMAPeriod <= 0 || frame.RSIPeriod <= 0 {
			return fmt.Errorf("filter.frames.%s: periods must be positive", name)
		}
		if frame.MACDFast <= 0 || frame.MACDSlow <= 0 || frame.MACDSignal <= 0 {
			return fmt.Errorf("filter.frames.%s: macd periods must be positive", name)
		}
		if frame.MACDFast >= frame.MACDSlow {
			return fmt.Errorf("filter.frames.%s: macd_fast must be below macd_slow", name)
		}
	}
	if c.Filter.ExpirationDays <= 0 {
		return fmt.Errorf("filter.expiration_days must be positive")
	}
	if c.Scheduler.Enabled && c.Scheduler.Cron == "" {
		return fmt.Errorf("scheduler.cron is required when scheduler is enabled")
	}
	return nil
}
