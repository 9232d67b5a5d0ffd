package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Parser  ParserConfig
	Extract ExtractConfig
	Store   StoreConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Metrics MetricsConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AuthConfig holds settings for verifying identity provider session tokens.
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// StoreConfig selects the task/event store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" | "postgres"
}

// ExtractConfig holds settings for the external text extraction tools.
type ExtractConfig struct {
	Pdftotext     string `mapstructure:"pdftotext"`
	Tesseract     string `mapstructure:"tesseract"`
	TesseractLang string `mapstructure:"tesseract_lang"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
}

// ParserProviderConfig holds settings for a single LLM provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds syllabus parser settings.
type ParserConfig struct {
	// Legacy flat fields describe a single provider.
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`

	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	MaxInputChars int     `mapstructure:"max_input_chars"`
	Dedup         string  `mapstructure:"dedup"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// Providers returns the configured providers in fallback order, skipping any
// whose credential is missing or a placeholder.
func (p *ParserConfig) Providers() []*ParserProviderConfig {
	var out []*ParserProviderConfig
	for _, pc := range []*ParserProviderConfig{p.PrimaryConfig(), p.SecondaryConfig(), p.TertiaryConfig()} {
		if pc == nil || pc.Provider == "" || !IsUsableCredential(pc.APIKey) {
			continue
		}
		out = append(out, pc)
	}
	return out
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// placeholderCredentials are values shipped in sample env files that must never be sent to a provider.
var placeholderCredentials = map[string]bool{
	"your-api-key":           true,
	"your-api-key-here":      true,
	"your_api_key":           true,
	"your_api_key_here":      true,
	"your-gemini-api-key":    true,
	"your-openai-api-key":    true,
	"your-anthropic-api-key": true,
	"changeme":               true,
	"change-me":              true,
	"replace-me":             true,
	"placeholder":            true,
	"xxx":                    true,
}

// IsUsableCredential reports whether key is present and not a known placeholder.
func IsUsableCredential(key string) bool {
	k := strings.TrimSpace(key)
	if k == "" {
		return false
	}
	return !placeholderCredentials[strings.ToLower(k)]
}

// Load reads configuration from a .env file (if present) and environment
// variables with the COURSEPILOT_ prefix.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("COURSEPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 25)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "coursepilot")
	v.SetDefault("db.password", "coursepilot_secret")
	v.SetDefault("db.name", "coursepilot_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Parser defaults (legacy flat)
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "")
	v.SetDefault("parser.timeout_secs", 60)
	v.SetDefault("parser.temperature", 0.1)
	v.SetDefault("parser.max_tokens", 2048)
	v.SetDefault("parser.max_input_chars", 4000)
	v.SetDefault("parser.dedup", "overlap")

	// Parser primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+tier+".provider", "")
		v.SetDefault("parser."+tier+".api_key", "")
		v.SetDefault("parser."+tier+".default_model", "")
		v.SetDefault("parser."+tier+".timeout_secs", 60)
	}

	// Extraction tool defaults
	v.SetDefault("extract.pdftotext", "pdftotext")
	v.SetDefault("extract.tesseract", "tesseract")
	v.SetDefault("extract.tesseract_lang", "eng")
	v.SetDefault("extract.timeout_secs", 120)

	v.SetDefault("store.driver", "memory")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("metrics.enabled", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "COURSEPILOT_SERVER_PORT",
		"server.read_timeout":            "COURSEPILOT_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "COURSEPILOT_SERVER_WRITE_TIMEOUT",
		"server.environment":             "COURSEPILOT_SERVER_ENVIRONMENT",
		"server.max_upload_mb":           "COURSEPILOT_SERVER_MAX_UPLOAD_MB",
		"db.host":                        "COURSEPILOT_DB_HOST",
		"db.port":                        "COURSEPILOT_DB_PORT",
		"db.user":                        "COURSEPILOT_DB_USER",
		"db.password":                    "COURSEPILOT_DB_PASSWORD",
		"db.name":                        "COURSEPILOT_DB_NAME",
		"db.sslmode":                     "COURSEPILOT_DB_SSLMODE",
		"db.max_open":                    "COURSEPILOT_DB_MAX_OPEN",
		"db.max_idle":                    "COURSEPILOT_DB_MAX_IDLE",
		"log.level":                      "COURSEPILOT_LOG_LEVEL",
		"log.format":                     "COURSEPILOT_LOG_FORMAT",
		"parser.provider":                "COURSEPILOT_PARSER_PROVIDER",
		"parser.api_key":                 "COURSEPILOT_PARSER_API_KEY",
		"parser.default_model":           "COURSEPILOT_PARSER_DEFAULT_MODEL",
		"parser.timeout_secs":            "COURSEPILOT_PARSER_TIMEOUT_SECS",
		"parser.temperature":             "COURSEPILOT_PARSER_TEMPERATURE",
		"parser.max_tokens":              "COURSEPILOT_PARSER_MAX_TOKENS",
		"parser.max_input_chars":         "COURSEPILOT_PARSER_MAX_INPUT_CHARS",
		"parser.dedup":                   "COURSEPILOT_PARSER_DEDUP",
		"parser.primary.provider":        "COURSEPILOT_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "COURSEPILOT_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "COURSEPILOT_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.timeout_secs":    "COURSEPILOT_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.secondary.provider":      "COURSEPILOT_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "COURSEPILOT_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "COURSEPILOT_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.timeout_secs":  "COURSEPILOT_PARSER_SECONDARY_TIMEOUT_SECS",
		"parser.tertiary.provider":       "COURSEPILOT_PARSER_TERTIARY_PROVIDER",
		"parser.tertiary.api_key":        "COURSEPILOT_PARSER_TERTIARY_API_KEY",
		"parser.tertiary.default_model":  "COURSEPILOT_PARSER_TERTIARY_DEFAULT_MODEL",
		"parser.tertiary.timeout_secs":   "COURSEPILOT_PARSER_TERTIARY_TIMEOUT_SECS",
		"extract.pdftotext":              "COURSEPILOT_EXTRACT_PDFTOTEXT",
		"extract.tesseract":              "COURSEPILOT_EXTRACT_TESSERACT",
		"extract.tesseract_lang":         "COURSEPILOT_EXTRACT_TESSERACT_LANG",
		"extract.timeout_secs":           "COURSEPILOT_EXTRACT_TIMEOUT_SECS",
		"store.driver":                   "COURSEPILOT_STORE_DRIVER",
		"auth.enabled":                   "COURSEPILOT_AUTH_ENABLED",
		"auth.jwt_secret":                "COURSEPILOT_AUTH_JWT_SECRET",
		"auth.issuer":                    "COURSEPILOT_AUTH_ISSUER",
		"cors.allowed_origins":           "COURSEPILOT_CORS_ALLOWED_ORIGINS",
		"metrics.enabled":                "COURSEPILOT_METRICS_ENABLED",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a bare PORT. Use it unless COURSEPILOT_SERVER_PORT is explicit.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("COURSEPILOT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	cfg.Parser = ParserConfig{
		Provider:      v.GetString("parser.provider"),
		APIKey:        v.GetString("parser.api_key"),
		DefaultModel:  v.GetString("parser.default_model"),
		TimeoutSecs:   v.GetInt("parser.timeout_secs"),
		Primary:       providerConfig(v, "primary"),
		Secondary:     providerConfig(v, "secondary"),
		Tertiary:      providerConfig(v, "tertiary"),
		Temperature:   v.GetFloat64("parser.temperature"),
		MaxTokens:     v.GetInt("parser.max_tokens"),
		MaxInputChars: v.GetInt("parser.max_input_chars"),
		Dedup:         v.GetString("parser.dedup"),
	}

	cfg.Extract = ExtractConfig{
		Pdftotext:     v.GetString("extract.pdftotext"),
		Tesseract:     v.GetString("extract.tesseract"),
		TesseractLang: v.GetString("extract.tesseract_lang"),
		TimeoutSecs:   v.GetInt("extract.timeout_secs"),
	}

	cfg.Store = StoreConfig{Driver: strings.ToLower(v.GetString("store.driver"))}
	if cfg.Store.Driver != "memory" && cfg.Store.Driver != "postgres" {
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}

	cfg.Auth = AuthConfig{
		Enabled:   v.GetBool("auth.enabled"),
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
	}
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required when auth is enabled")
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("metrics.enabled")}

	return cfg, nil
}

func providerConfig(v *viper.Viper, tier string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString("parser." + tier + ".provider"),
		APIKey:       v.GetString("parser." + tier + ".api_key"),
		DefaultModel: v.GetString("parser." + tier + ".default_model"),
		TimeoutSecs:  v.GetInt("parser." + tier + ".timeout_secs"),
	}
}
