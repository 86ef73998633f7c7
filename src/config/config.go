// Package config loads the application configuration: pipeline
// settings from a JSON file, database credentials from the
// environment (optionally a .env file).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config is the application configuration.
type Config struct {
	DataDir    string `json:"data_dir"`    // where raw caches and outputs live
	TelcoCache string `json:"telco_cache"` // cached raw telco CSV, relative to DataDir
	GradesFile string `json:"grades_file"` // student grades CSV, relative to DataDir
	Seed       int64  `json:"seed"`        // split seed; 0 falls back to 666

	Database DatabaseConfig `json:"-"` // from environment, never from file
}

// DatabaseConfig holds the connection parameters for the source
// churn database (PostgreSQL).
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// Load reads the configuration once per process. Later calls return
// the same instance regardless of path.
func Load(path string) (*Config, error) {
	once.Do(func() {
		instance, loadErr = load(path)
	})
	return instance, loadErr
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.TelcoCache == "" {
		cfg.TelcoCache = "telco.csv"
	}
	if cfg.GradesFile == "" {
		cfg.GradesFile = "student_grades.csv"
	}
	if cfg.Seed == 0 {
		cfg.Seed = 666
	}

	cfg.Database = loadDatabaseEnv()
	return &cfg, nil
}

// TelcoCachePath is the absolute location of the cached raw telco CSV.
func (c *Config) TelcoCachePath() string {
	return filepath.Join(c.DataDir, c.TelcoCache)
}

// GradesPath is the absolute location of the student grades CSV.
func (c *Config) GradesPath() string {
	return filepath.Join(c.DataDir, c.GradesFile)
}

// ValidateDatabase checks that enough of the DB environment is set to
// attempt a connection. Only needed when the telco cache is absent.
func (c *Config) ValidateDatabase() error {
	if c.Database.Host == "" {
		return errors.New("DB_HOST environment variable is required when no cached CSV exists")
	}
	if c.Database.User == "" {
		return errors.New("DB_USER environment variable is required when no cached CSV exists")
	}
	if c.Database.Name == "" {
		return errors.New("DB_NAME environment variable is required when no cached CSV exists")
	}
	return nil
}

func loadDatabaseEnv() DatabaseConfig {
	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	return DatabaseConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// A typo'd port must not quietly point acquisition at the
		// wrong database.
		zap.L().Warn("ignoring unparsable integer environment variable",
			zap.String("key", key),
			zap.String("value", v),
			zap.Int("default", defaultValue))
		return defaultValue
	}
	return n
}
