package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Audit drivers
const (
	DriverNone     = ""
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		IdleTimeout     time.Duration `yaml:"idleTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	Auth struct {
		// client name -> api key; kosong = auth dimatikan
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity        int `yaml:"capacity"`
		RefillPerSecond int `yaml:"refillPerSecond"`
	} `yaml:"rateLimit"`

	Audit struct {
		Driver        string        `yaml:"driver"`
		Host          string        `yaml:"host"`
		Port          int           `yaml:"port"`
		User          string        `yaml:"user"`
		Password      string        `yaml:"password"`
		Name          string        `yaml:"name"`
		SSLMode       string        `yaml:"sslMode"`
		Migrate       bool          `yaml:"migrate"`
		RecordTimeout time.Duration `yaml:"recordTimeout"`
	} `yaml:"audit"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`
}

// Default config yang dipakai kalau config.yaml tidak ada
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Server.MaxBodyBytes = 10 << 20
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Log.Level = "info"
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Audit.SSLMode = "disable"
	cfg.Audit.RecordTimeout = 10 * time.Second
	cfg.Archive.BucketName = "documents"
	return &cfg
}

// LoadEnv baca file .env kalau ada; file yang tidak ada diabaikan
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := gotenv.Load(p); err != nil {
			return fmt.Errorf("load env %s: %w", p, err)
		}
	}
	return nil
}

// Load baca file config.yaml di atas default, lalu apply env override.
// File yang tidak ada bukan error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDriverDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("AUDIT_PASSWORD"); v != "" {
		c.Audit.Password = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		c.Archive.SecretKey = v
	}
	return nil
}

// applyDriverDefaults isi host/port audit yang kosong sesuai driver
func (c *Config) applyDriverDefaults() {
	if c.Audit.Host == "" {
		c.Audit.Host = "localhost"
	}
	if c.Audit.Port == 0 {
		switch c.Audit.Driver {
		case DriverMySQL:
			c.Audit.Port = 3306
		case DriverPostgres:
			c.Audit.Port = 5432
		}
	}
}

// Validate cek nilai config yang tidak masuk akal
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.maxBodyBytes must be positive")
	}
	switch c.Audit.Driver {
	case DriverNone, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unknown audit.driver %q (allowed: mysql, postgres)", c.Audit.Driver)
	}
	if c.RateLimit.Capacity < 0 || c.RateLimit.RefillPerSecond < 0 {
		return fmt.Errorf("rateLimit values must not be negative")
	}
	if c.RateLimit.Capacity > 0 && c.RateLimit.RefillPerSecond == 0 {
		return fmt.Errorf("rateLimit.refillPerSecond required when capacity is set")
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.BucketName == "") {
		return fmt.Errorf("archive.endpoint and archive.bucketName required when archive is enabled")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Audit.User,
		c.Audit.Password,
		c.Audit.Host,
		c.Audit.Port,
		c.Audit.Name,
	)
}

// Helper untuk build DSN Postgres (format key=value lib/pq)
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Audit.Host,
		c.Audit.Port,
		c.Audit.User,
		c.Audit.Password,
		c.Audit.Name,
		c.Audit.SSLMode,
	)
}
