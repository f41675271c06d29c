// Package config provides configuration management for the service.
package config

import "time"

// Config represents the application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	ObjectStorage ObjectStorageConfig `mapstructure:"object_storage"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Password      PasswordConfig      `mapstructure:"password"`
	Redis         RedisConfig         `mapstructure:"redis"`
	SignInLimit   SignInLimitConfig   `mapstructure:"sign_in_limit"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	AutoMigrate       bool          `mapstructure:"auto_migrate"`
}

// ObjectStorageConfig holds S3-compatible bucket settings.
type ObjectStorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// PublicURLFormat is filled with bucket, region and key, in that order.
	PublicURLFormat string `mapstructure:"public_url_format"`
}

// UploadConfig holds multipart upload limits.
type UploadConfig struct {
	MaxFileSize    int64 `mapstructure:"max_file_size"`
	MaxRequestSize int64 `mapstructure:"max_request_size"`
}

// PasswordConfig holds argon2id parameters.
type PasswordConfig struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SignInLimitConfig configures the per-id sign-in throttle.
type SignInLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Attempts int64         `mapstructure:"attempts"`
	Window   time.Duration `mapstructure:"window"`
}

// RateLimitConfig configures the in-process per-IP token bucket.
type RateLimitConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}
