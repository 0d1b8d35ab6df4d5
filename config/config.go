package config

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Allocation AllocationConfig `yaml:"allocation"`
	Enrollment EnrollmentConfig `yaml:"enrollment"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Seed       SeedConfig       `yaml:"seed"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogQueries             bool   `yaml:"log_queries"`
}

// StorageConfig selects where the hall state is kept. Push subscriptions
// always live in the database.
type StorageConfig struct {
	Backend  string `yaml:"backend"` // "database" or "file"
	FilePath string `yaml:"file_path"`
}

// AllocationConfig tunes the seat allocator.
type AllocationConfig struct {
	MeritOrder string `yaml:"merit_order"` // "ascending" or "descending"
}

// EnrollmentConfig holds the registrar sync configuration.
type EnrollmentConfig struct {
	Enabled           bool              `yaml:"enabled"`
	IntervalSeconds   int               `yaml:"interval_seconds"`
	Interval          time.Duration     `yaml:"-"` // Ignored by YAML parser
	HTTPProxy         string            `yaml:"http_proxy"`
	AllocateAfterSync bool              `yaml:"allocate_after_sync"`
	Request           EnrollmentRequest `yaml:"request"`
}

// EnrollmentRequest defines the HTTP request sent to the registrar.
type EnrollmentRequest struct {
	URL      string            `yaml:"url"`
	Headers  map[string]string `yaml:"headers"`
	PageSize int               `yaml:"page_size"`
	Payload  map[string]any    `yaml:"payload"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// SeedConfig is applied once, when the hall has no user accounts.
type SeedConfig struct {
	AdminUsername string     `yaml:"admin_username"`
	AdminPassword string     `yaml:"admin_password"`
	Rooms         []SeedRoom `yaml:"rooms"`
}

// SeedRoom is a room created on first start.
type SeedRoom struct {
	Number   string `yaml:"number"`
	Capacity int    `yaml:"capacity"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyEnv lets secrets come from the environment instead of the file.
func applyEnv(cfg *Config) {
	if dsn := os.Getenv("HALL_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if pw := os.Getenv("HALL_ADMIN_PASSWORD"); pw != "" {
		cfg.Seed.AdminPassword = pw
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "hall.db"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "database"
	}
	if cfg.Storage.Backend == "file" && cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = "hall.yaml"
	}
	if cfg.Allocation.MeritOrder == "" {
		cfg.Allocation.MeritOrder = "ascending"
	}

	if cfg.Enrollment.IntervalSeconds <= 0 {
		cfg.Enrollment.IntervalSeconds = 300
	}
	cfg.Enrollment.Interval = time.Duration(cfg.Enrollment.IntervalSeconds) * time.Second
	if cfg.Enrollment.Request.PageSize <= 0 {
		cfg.Enrollment.Request.PageSize = 100
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		logrus.Warn("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Seed.AdminUsername == "" {
		cfg.Seed.AdminUsername = "admin"
	}
}
