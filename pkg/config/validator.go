package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration values.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if err := v.ValidatePostgres(&cfg.Postgres); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	default:
		return fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}

	if err := v.ValidateObjectStorage(&cfg.ObjectStorage); err != nil {
		return fmt.Errorf("object_storage: %w", err)
	}

	if err := v.ValidateUpload(&cfg.Upload); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if err := v.ValidatePassword(&cfg.Password); err != nil {
		return fmt.Errorf("password: %w", err)
	}

	if cfg.SignInLimit.Enabled {
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("sign_in_limit: redis.addr is required when enabled")
		}
		if cfg.SignInLimit.Attempts <= 0 {
			return fmt.Errorf("sign_in_limit: attempts must be positive")
		}
		if cfg.SignInLimit.Window <= 0 {
			return fmt.Errorf("sign_in_limit: window must be positive")
		}
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.PerSecond <= 0 || cfg.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit: per_second and burst must be positive")
	}

	return nil
}

// ValidateServer validates server configuration.
func (v *Validator) ValidateServer(cfg *ServerConfig) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", cfg.HTTPPort)
	}

	switch cfg.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid mode: %q", cfg.Mode)
	}

	if cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout cannot be negative")
	}

	return nil
}

// ValidatePostgres validates PostgreSQL configuration.
func (v *Validator) ValidatePostgres(cfg *PostgresConfig) error {
	if cfg.Host == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if cfg.User == "" {
		return fmt.Errorf("user is required")
	}

	if cfg.Database == "" {
		return fmt.Errorf("database is required")
	}

	if cfg.MaxConns < 0 || cfg.MinConns < 0 {
		return fmt.Errorf("connection limits cannot be negative")
	}

	if cfg.MaxConns > 0 && cfg.MinConns > cfg.MaxConns {
		return fmt.Errorf("min_conns cannot exceed max_conns")
	}

	return nil
}

// ValidateObjectStorage validates bucket configuration.
func (v *Validator) ValidateObjectStorage(cfg *ObjectStorageConfig) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	if strings.Contains(cfg.Endpoint, "://") {
		return fmt.Errorf("endpoint must be host[:port] without scheme: %q", cfg.Endpoint)
	}

	if cfg.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}

	if cfg.Region == "" {
		return fmt.Errorf("region is required")
	}

	if strings.Count(cfg.PublicURLFormat, "%s") != 3 {
		return fmt.Errorf("public_url_format needs exactly three %%s verbs (bucket, region, key)")
	}

	return nil
}

// ValidateUpload validates upload limits.
func (v *Validator) ValidateUpload(cfg *UploadConfig) error {
	if cfg.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}

	if cfg.MaxRequestSize < cfg.MaxFileSize {
		return fmt.Errorf("max_request_size cannot be smaller than max_file_size")
	}

	return nil
}

// ValidatePassword validates argon2id parameters.
func (v *Validator) ValidatePassword(cfg *PasswordConfig) error {
	if cfg.Memory < 8 {
		return fmt.Errorf("memory must be at least 8 KiB")
	}

	if cfg.Iterations == 0 {
		return fmt.Errorf("iterations must be positive")
	}

	if cfg.Parallelism == 0 {
		return fmt.Errorf("parallelism must be positive")
	}

	return nil
}
