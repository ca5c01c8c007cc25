package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int      `yaml:"port"`
	AppEnv      string   `yaml:"app_env"`
	LogLevel    string   `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`

	// SecretKey signs session tokens. When nothing configures it a random key
	// is generated and SecretKeyGenerated is set, so sessions die with the process.
	SecretKey          string `yaml:"secret_key"`
	SecretKeyGenerated bool   `yaml:"-"`

	DatabasePath         string        `yaml:"database_path"` // empty keeps users in memory
	SessionTTL           time.Duration `yaml:"session_ttl"`
	SessionSweepSchedule string        `yaml:"session_sweep_schedule"`
	ActivityLogSize      int           `yaml:"activity_log_size"` // in-memory activity log only

	PineconeAPIKey     string        `yaml:"pinecone_api_key"`
	PineconeIndex      string        `yaml:"pinecone_index"`
	HFAPIToken         string        `yaml:"hf_api_token"`
	EmbeddingModel     string        `yaml:"embedding_model"`
	EmbeddingURL       string        `yaml:"embedding_url"`
	EmbeddingDimension int           `yaml:"embedding_dimension"`
	ExternalTimeout    time.Duration `yaml:"external_timeout"`

	SMTPHost      string `yaml:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port"`
	EmailUser     string `yaml:"email_user"`
	EmailPassword string `yaml:"email_password"`
	MailFrom      string `yaml:"mail_from"`
	MailTo        string `yaml:"mail_to"`
}

// Defaults returns the configuration used when nothing overrides a value.
func Defaults() *Config {
	return &Config{
		ServerPort:           8080,
		AppEnv:               "development",
		LogLevel:             "info",
		CORSOrigins:          []string{"http://localhost:3000"},
		SessionTTL:           24 * time.Hour,
		SessionSweepSchedule: "@every 10m",
		ActivityLogSize:      1000,
		PineconeIndex:        "leo",
		EmbeddingModel:       "sentence-transformers/all-MiniLM-L6-v2",
		EmbeddingURL:         "https://router.huggingface.co/hf-inference/models",
		EmbeddingDimension:   384,
		ExternalTimeout:      30 * time.Second,
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             587,
		MailFrom:             "noreply@yourdomain.com",
		MailTo:               "owner@yourdomain.com",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.SecretKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate secret key: %w", err)
		}
		cfg.SecretKey = key
		cfg.SecretKeyGenerated = true
	}

	return cfg, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	if c.ServerPort, err = getEnvInt("PORT", c.ServerPort); err != nil {
		return err
	}
	if c.SMTPPort, err = getEnvInt("SMTP_PORT", c.SMTPPort); err != nil {
		return err
	}
	if c.EmbeddingDimension, err = getEnvInt("EMBEDDING_DIMENSION", c.EmbeddingDimension); err != nil {
		return err
	}
	if c.ActivityLogSize, err = getEnvInt("ACTIVITY_LOG_SIZE", c.ActivityLogSize); err != nil {
		return err
	}
	if c.SessionTTL, err = getEnvDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.ExternalTimeout, err = getEnvDuration("EXTERNAL_TIMEOUT", c.ExternalTimeout); err != nil {
		return err
	}

	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SecretKey = getEnv("SECRET_KEY", c.SecretKey)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.SessionSweepSchedule = getEnv("SESSION_SWEEP_SCHEDULE", c.SessionSweepSchedule)
	c.PineconeAPIKey = getEnv("PINECONE_API_KEY", c.PineconeAPIKey)
	c.PineconeIndex = getEnv("PINECONE_INDEX", c.PineconeIndex)
	c.HFAPIToken = getEnv("HF_API_TOKEN", c.HFAPIToken)
	c.EmbeddingModel = getEnv("EMBEDDING_MODEL", c.EmbeddingModel)
	c.EmbeddingURL = getEnv("EMBEDDING_URL", c.EmbeddingURL)
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.EmailUser = getEnv("EMAIL_USER", c.EmailUser)
	c.EmailPassword = getEnv("EMAIL_PASSWORD", c.EmailPassword)
	c.MailFrom = getEnv("MAIL_FROM", c.MailFrom)
	c.MailTo = getEnv("MAIL_TO", c.MailTo)

	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(origins)
	}

	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
