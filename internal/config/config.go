package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the portal configuration
type Config struct {
	API struct {
		BaseURL string        `yaml:"base_url" env:"PORTAL_API_URL"`
		Timeout time.Duration `yaml:"timeout" env:"PORTAL_API_TIMEOUT"`
	} `yaml:"api"`

	Session struct {
		StorePath string `yaml:"store_path" env:"PORTAL_SESSION_PATH"`
	} `yaml:"session"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Mock holds settings for the development backend (cmd/mockapi)
	Mock struct {
		Port        string        `yaml:"port" env:"MOCK_PORT"`
		Mode        string        `yaml:"mode" env:"MOCK_MODE"`
		JWTSecret   string        `yaml:"jwt_secret" env:"MOCK_JWT_SECRET"`
		TokenTTL    time.Duration `yaml:"token_ttl" env:"MOCK_TOKEN_TTL"`
		Issuer      string        `yaml:"issuer" env:"MOCK_JWT_ISSUER"`
		StoragePath string        `yaml:"storage_path" env:"MOCK_STORAGE_PATH"`
		Seed        bool          `yaml:"seed" env:"MOCK_SEED"`
	} `yaml:"mock"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is fine; real environment variables always win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.API.BaseURL = "http://localhost:8080/api"
	config.API.Timeout = 15 * time.Second

	config.Session.StorePath = defaultSessionPath()

	config.Logging.Level = "warn"
	config.Logging.Format = "text"

	config.Mock.Port = "8080"
	config.Mock.Mode = "development"
	config.Mock.TokenTTL = 24 * time.Hour
	config.Mock.Issuer = "collegeportal.mock"
	config.Mock.StoragePath = "uploads"
	config.Mock.Seed = true
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", "portal-session.db")
	}
	return filepath.Join(dir, "collegeportal", "session.db")
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	u, err := url.Parse(config.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must use http or https, got %q", u.Scheme)
	}
	if config.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if config.Session.StorePath == "" {
		return fmt.Errorf("session store path is required")
	}
	if config.Mock.TokenTTL <= 0 {
		return fmt.Errorf("mock token ttl must be positive")
	}
	return nil
}

// ValidateMock checks the settings only the development backend needs
func (c *Config) ValidateMock() error {
	if c.Mock.JWTSecret == "" {
		return fmt.Errorf("mock JWT secret is required")
	}
	if c.Mock.Port == "" {
		return fmt.Errorf("mock port is required")
	}
	return nil
}

// IsPrettyLogging reports whether logs should go through the console writer
func (c *Config) IsPrettyLogging() bool {
	return strings.ToLower(c.Logging.Format) == "text"
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
