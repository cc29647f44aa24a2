package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB backs the media store
	MongoDB MongoDBConfig `json:"mongodb"`

	Auth      AuthConfig      `json:"auth"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Media     MediaConfig     `json:"media"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port            string        `json:"port"`
	Host            string        `json:"host"`
	GRPCPort        string        `json:"grpc_port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Environment     string        `json:"environment"` // development, staging, production
	AllowedOrigin   string        `json:"allowed_origin"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `json:"driver"` // mysql or sqlite
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	SQLitePath   string `json:"sqlite_path"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoDBConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Bucket   string `json:"bucket"`
}

type AuthConfig struct {
	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`
	Issuer    string        `json:"issuer"`
}

// RateLimitConfig throttles the unauthenticated auth endpoints per client address.
type RateLimitConfig struct {
	AuthRPS float64 `json:"auth_rps"`
	Burst   int     `json:"burst"`
}

type MediaConfig struct {
	MaxUploadBytes int64  `json:"max_upload_bytes"`
	URLPrefix      string `json:"url_prefix"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, console
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("MYSQL_HOST", "localhost")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_USERNAME", "socialapp")
	v.SetDefault("MYSQL_PASSWORD", "socialapp123")
	v.SetDefault("MYSQL_DATABASE", "socialapp")
	v.SetDefault("SQLITE_PATH", "socialapp.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("MONGO_ENABLED", false)
	v.SetDefault("MONGO_HOST", "localhost")
	v.SetDefault("MONGO_PORT", "27017")
	v.SetDefault("MONGO_USERNAME", "")
	v.SetDefault("MONGO_PASSWORD", "")
	v.SetDefault("MONGO_DATABASE", "socialapp")
	v.SetDefault("MONGO_BUCKET", "media_files")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("JWT_ISSUER", "socialapp")

	v.SetDefault("AUTH_RATE_LIMIT_RPS", 5.0)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)

	v.SetDefault("MEDIA_MAX_UPLOAD_BYTES", int64(10<<20))
	v.SetDefault("MEDIA_URL_PREFIX", "/media/")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
}

// LoadConfig reads configuration from the environment. Callers load .env first.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			GRPCPort:        v.GetString("GRPC_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			Environment:     v.GetString("APP_ENV"),
			AllowedOrigin:   v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Database: DatabaseConfig{
			Driver:       v.GetString("DB_DRIVER"),
			Host:         v.GetString("MYSQL_HOST"),
			Port:         v.GetString("MYSQL_PORT"),
			Username:     v.GetString("MYSQL_USERNAME"),
			Password:     v.GetString("MYSQL_PASSWORD"),
			DatabaseName: v.GetString("MYSQL_DATABASE"),
			SQLitePath:   v.GetString("SQLITE_PATH"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		MongoDB: MongoDBConfig{
			Enabled:  v.GetBool("MONGO_ENABLED"),
			Host:     v.GetString("MONGO_HOST"),
			Port:     v.GetString("MONGO_PORT"),
			Username: v.GetString("MONGO_USERNAME"),
			Password: v.GetString("MONGO_PASSWORD"),
			Database: v.GetString("MONGO_DATABASE"),
			Bucket:   v.GetString("MONGO_BUCKET"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
			Issuer:    v.GetString("JWT_ISSUER"),
		},
		RateLimit: RateLimitConfig{
			AuthRPS: v.GetFloat64("AUTH_RATE_LIMIT_RPS"),
			Burst:   v.GetInt("AUTH_RATE_LIMIT_BURST"),
		},
		Media: MediaConfig{
			MaxUploadBytes: v.GetInt64("MEDIA_MAX_UPLOAD_BYTES"),
			URLPrefix:      v.GetString("MEDIA_URL_PREFIX"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) IsDevelopment() bool {
	return cfg.Server.Environment == "development"
}

// Validate rejects configurations the server cannot start with.
func (cfg *Config) Validate() error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set outside development")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	switch cfg.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Media.MaxUploadBytes <= 0 {
		return errors.New("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// DSN builds the MySQL connection string, defaulting to localhost:3306.
func (cfg *Config) DSN() string {
	db := cfg.Database
	host, port := db.Host, db.Port
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		db.Username, db.Password, host, port, db.DatabaseName)
}

func (cfg *Config) GetMongoURI() string {
	m := cfg.MongoDB
	if m.Username != "" && m.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin", m.Username, m.Password, m.Host, m.Port, m.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", m.Host, m.Port, m.Database)
}

func (cfg *Config) HTTPAddr() string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

func (cfg *Config) GRPCAddr() string {
	return cfg.Server.Host + ":" + cfg.Server.GRPCPort
}
