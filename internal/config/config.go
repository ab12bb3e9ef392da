package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PORTFOLIO"

type AppCfg struct {
	Name string
	Env  string
	Port int
}

type LogCfg struct {
	Level  string
	Format string
}

type DatabaseCfg struct {
	Driver      string
	DSN         string
	EnableTLS   bool `mapstructure:"enable_tls"`
	MaxOpen     int  `mapstructure:"max_open"`
	MaxIdle     int  `mapstructure:"max_idle"`
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type MongoCfg struct {
	URI        string
	Database   string
	Collection string
}

type StorageCfg struct {
	Driver    string
	Dir       string
	URLPrefix string `mapstructure:"url_prefix"`
}

type S3Cfg struct {
	Endpoint         string
	Region           string
	Bucket           string
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	UsePathStyle     bool   `mapstructure:"use_path_style"`
	PresignExpireSec int    `mapstructure:"presign_expire_sec"`
}

type UploadCfg struct {
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes"`
	MaxMainImages    int   `mapstructure:"max_main_images"`
	MaxOtherImages   int   `mapstructure:"max_other_images"`
}

type ProjectCfg struct {
	ValidateOnUpdate     bool `mapstructure:"validate_on_update"`
	LegacyRequiredFields bool `mapstructure:"legacy_required_fields"`
}

type LockCfg struct {
	Driver  string
	TTLSec  int `mapstructure:"ttl_sec"`
	WaitSec int `mapstructure:"wait_sec"`
}

type RedisCfg struct {
	Addr      string
	Password  string
	DB        int
	PoolSize  int  `mapstructure:"pool_size"`
	EnableTLS bool `mapstructure:"enable_tls"`
}

type CorsCfg struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type MetricsCfg struct {
	Enabled bool
	Path    string
}

type Config struct {
	App       AppCfg
	Log       LogCfg
	Database  DatabaseCfg
	Mongo     MongoCfg
	Storage   StorageCfg
	S3        S3Cfg
	Upload    UploadCfg
	Project   ProjectCfg
	Lock      LockCfg
	Redis     RedisCfg
	Cors      CorsCfg
	Telemetry TelemetryCfg
	Metrics   MetricsCfg
}

// Every key needs a default, otherwise AutomaticEnv overrides never reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "portfolio-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 5000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=portfolio password=portfolio dbname=portfolio port=5432 sslmode=disable")
	v.SetDefault("database.enable_tls", false)
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "portfolio")
	v.SetDefault("mongo.collection", "projects")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.dir", "uploads")
	v.SetDefault("storage.url_prefix", "/uploads")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_path_style", false)
	v.SetDefault("s3.presign_expire_sec", 900)

	v.SetDefault("upload.max_file_size_bytes", 5*1024*1024)
	v.SetDefault("upload.max_main_images", 1)
	v.SetDefault("upload.max_other_images", 25)

	v.SetDefault("project.validate_on_update", true)
	v.SetDefault("project.legacy_required_fields", false)

	v.SetDefault("lock.driver", "local")
	v.SetDefault("lock.ttl_sec", 30)
	v.SetDefault("lock.wait_sec", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.enable_tls", false)

	v.SetDefault("cors.allow_origins", []string{"*"})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads configuration from defaults, an optional config file and the
// environment. An empty path searches ./config.yaml and ./config/config.yaml.
func Load(path ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if len(path) > 0 && path[0] != "" {
		v.SetConfigFile(path[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mongo":
	default:
		return fmt.Errorf("database.driver must be postgres or mongo, got %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local":
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the local driver")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be local or s3, got %q", c.Storage.Driver)
	}
	switch c.Lock.Driver {
	case "local", "redis", "none":
	default:
		return fmt.Errorf("lock.driver must be local, redis or none, got %q", c.Lock.Driver)
	}
	if c.Upload.MaxFileSizeBytes <= 0 {
		return errors.New("upload.max_file_size_bytes must be positive")
	}
	if c.Upload.MaxMainImages <= 0 || c.Upload.MaxOtherImages <= 0 {
		return errors.New("upload image count limits must be positive")
	}
	if !strings.HasPrefix(c.Storage.URLPrefix, "/") {
		return errors.New("storage.url_prefix must start with /")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.App.Env == "production" }
