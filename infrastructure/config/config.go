package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	domainconfig "github.com/rickerduniya/Sayanho-sub000/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Engine tunables file (YAML), optional
	ConfigFile string

	// External solver; empty runs the passthrough solver
	SolverURL     string
	SolverTimeout time.Duration

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
	EnableAuth    bool

	// Engine holds the business tunables after the file overlay
	Engine *domainconfig.DomainConfig
}

// EngineFile is the on-disk shape of the engine tunables
type EngineFile struct {
	Engine EngineSection `yaml:"engine"`
}

// EngineSection lists the tunables a file may override. Zero values keep the
// environment preset.
type EngineSection struct {
	HistoryLimit      int      `yaml:"history_limit"`
	PasteOffset       float64  `yaml:"paste_offset"`
	RecalcDebounceMs  int      `yaml:"recalc_debounce_ms"`
	FixedSpecTypes    []string `yaml:"fixed_spec_types"`
	PhaseExemptTypes  []string `yaml:"phase_exempt_types"`
	WiringSizes       []string `yaml:"wiring_sizes"`
	NonRotatableTypes []string `yaml:"non_rotatable_types"`
}

// LoadConfig loads configuration from environment variables and the optional
// engine file
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		ConfigFile:    getEnv("CONFIG_FILE", ""),

		SolverURL:     getEnv("SOLVER_URL", ""),
		SolverTimeout: time.Duration(getEnvInt("SOLVER_TIMEOUT_MS", 10000)) * time.Millisecond,

		// Authentication
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "sld-engine"),

		// Logging and features
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		EnableAuth:    getEnvBool("ENABLE_AUTH", false),
	}

	engine, err := LoadEngineConfig(cfg.Environment, cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Engine = engine

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEngineConfig returns the environment preset overlaid with the tunables
// in path. An empty path returns the preset.
func LoadEngineConfig(environment, path string) (*domainconfig.DomainConfig, error) {
	engine := domainconfig.LoadDomainConfig(environment)
	if path == "" {
		return engine, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var file EngineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	file.Engine.applyTo(engine)

	if err := engine.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config in %s: %w", path, err)
	}
	return engine, nil
}

func (s EngineSection) applyTo(cfg *domainconfig.DomainConfig) {
	if s.HistoryLimit != 0 {
		cfg.HistoryLimit = s.HistoryLimit
	}
	if s.PasteOffset != 0 {
		cfg.PasteOffset = s.PasteOffset
	}
	if s.RecalcDebounceMs != 0 {
		cfg.RecalcDebounce = time.Duration(s.RecalcDebounceMs) * time.Millisecond
	}
	if s.FixedSpecTypes != nil {
		cfg.FixedSpecTypes = s.FixedSpecTypes
	}
	if s.PhaseExemptTypes != nil {
		cfg.PhaseExemptTypes = s.PhaseExemptTypes
	}
	if s.WiringSizes != nil {
		cfg.WiringSizes = s.WiringSizes
	}
	if s.NonRotatableTypes != nil {
		cfg.NonRotatableTypes = s.NonRotatableTypes
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() && c.EnableAuth && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.SolverTimeout <= 0 {
		return fmt.Errorf("SOLVER_TIMEOUT_MS must be positive")
	}
	if c.Engine != nil {
		if err := c.Engine.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
