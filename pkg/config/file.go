package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SOPT_SERVER_HTTP_PORT.
const EnvPrefix = "SOPT"

// FileLoader loads configuration from YAML files and environment variables.
type FileLoader struct {
	configPath string
	validator  *Validator
}

// NewFileLoader creates a new file loader.
func NewFileLoader(configPath string) *FileLoader {
	return &FileLoader{
		configPath: configPath,
		validator:  NewValidator(),
	}
}

// Load loads configuration from file and environment variables.
func (l *FileLoader) Load() (*Config, error) {
	v := newViper()

	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit path the file is optional.
		var notFound viper.ConfigFileNotFoundError
		if l.configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return l.unmarshal(v)
}

// LoadFromEnv loads configuration from defaults and environment variables only.
func LoadFromEnv() (*Config, error) {
	return NewFileLoader("").unmarshal(newViper())
}

func (l *FileLoader) unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default configuration values. Every key is registered so
// AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("storage.driver", DriverMemory)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "sopt")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 20)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", time.Hour)
	v.SetDefault("postgres.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("postgres.health_check_period", time.Minute)
	v.SetDefault("postgres.auto_migrate", true)

	v.SetDefault("object_storage.endpoint", "s3.amazonaws.com")
	v.SetDefault("object_storage.bucket", "my-daehwan-bucket")
	v.SetDefault("object_storage.region", "ap-northeast-2")
	v.SetDefault("object_storage.access_key", "")
	v.SetDefault("object_storage.secret_key", "")
	v.SetDefault("object_storage.use_ssl", true)
	v.SetDefault("object_storage.public_url_format", "https://%s.s3.%s.amazonaws.com/%s")

	v.SetDefault("upload.max_file_size", 100*1024)
	v.SetDefault("upload.max_request_size", 128*1024)

	v.SetDefault("password.memory", 64*1024)
	v.SetDefault("password.iterations", 3)
	v.SetDefault("password.parallelism", 2)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("sign_in_limit.enabled", false)
	v.SetDefault("sign_in_limit.attempts", 10)
	v.SetDefault("sign_in_limit.window", time.Minute)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)
}

// CreateExampleConfig creates an example configuration file.
func CreateExampleConfig(outputPath string) error {
	exampleYAML := `# sopt-aos-server configuration example
# Every key can be overridden with SOPT_<SECTION>_<KEY>, e.g. SOPT_SERVER_HTTP_PORT=9000.
server:
  http_port: 8080
  mode: release
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s

log:
  level: info
  format: json

storage:
  # memory: in-process tables, reset on restart
  # postgres: persistent tables managed by embedded migrations
  driver: memory

postgres:
  host: localhost
  port: 5432
  user: postgres
  password: your_password
  database: sopt
  ssl_mode: disable
  max_conns: 20
  min_conns: 2
  auto_migrate: true

object_storage:
  endpoint: s3.amazonaws.com
  bucket: my-daehwan-bucket
  region: ap-northeast-2
  access_key: ""
  secret_key: ""
  use_ssl: true

upload:
  max_file_size: 102400
  max_request_size: 131072

password:
  memory: 65536
  iterations: 3
  parallelism: 2

# Optional sign-in throttle backed by Redis
redis:
  addr: ""
sign_in_limit:
  enabled: false
  attempts: 10
  window: 1m

# In-process per-IP token bucket applied to every route
rate_limit:
  enabled: false
  per_second: 20
  burst: 40
`

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(exampleYAML), 0644); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}

	return nil
}
