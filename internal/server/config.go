package server

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"problemtracker/internal/domain/errors"
	"problemtracker/internal/domain/models"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Addr        string        `json:"addr" yaml:"addr" env:"ADDR" env-default:"0.0.0.0"`
	Port        int           `json:"port" yaml:"port" env:"PORT" env-default:"5001"`
	Storage     string        `json:"storage" yaml:"storage" env:"STORAGE" env-default:"memory"`
	DBStr       string        `json:"db_str" yaml:"db_str" env:"DB_STR"`
	MigratePath string        `json:"migrate_path" yaml:"migrate_path" env:"MIGRATE_PATH" env-default:"migrations"`
	SQLitePath  string        `json:"sqlite_path" yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"problems.db"`
	RedisAddr   string        `json:"redis_addr" yaml:"redis_addr" env:"REDIS_ADDR"`
	CacheTTL    time.Duration `json:"cache_ttl" yaml:"cache_ttl" env:"CACHE_TTL" env-default:"60s"`
	Statuses    []string      `json:"statuses" yaml:"statuses" env:"STATUSES" env-separator:","`
	CORSOrigins []string      `json:"cors_origins" yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:","`
	Seed        bool          `json:"seed" yaml:"seed" env:"SEED"`
}

// ListenAddr joins Addr and Port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// ReadConfig layers defaults, an optional JSON/YAML file (-c or CONFIG),
// environment variables and finally explicitly set flags.
func ReadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configFile := fs.String("c", "", "path to a JSON or YAML config file")
	addr := fs.String("addr", "", "listen address")
	port := fs.Int("port", 0, "listen port")
	storage := fs.String("storage", "", "storage driver: memory, postgres or sqlite")
	dbstr := fs.String("dbstr", "", "PostgreSQL connection string")
	dbDsn := fs.String("dbdsn", "", "PostgreSQL DSN (takes precedence over dbstr)")
	migratePath := fs.String("migratepath", "", "path to the migrations directory")
	sqlitePath := fs.String("sqlite", "", "SQLite database file")
	redisAddr := fs.String("redis", "", "Redis address for the list cache")
	statuses := fs.String("statuses", "", "comma-separated allowed statuses")
	seed := fs.Bool("seed", false, "insert demo problems on start")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{}
	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG")
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w %s: %v", errors.ErrConfigFileReadFailed, path, err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConfigParseFailed, err)
	}

	if cfg.DBStr == "" {
		cfg.DBStr = dsnFromParts()
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "port":
			cfg.Port = *port
		case "storage":
			cfg.Storage = *storage
		case "dbstr":
			if *dbDsn == "" {
				cfg.DBStr = *dbstr
			}
		case "dbdsn":
			cfg.DBStr = *dbDsn
		case "migratepath":
			cfg.MigratePath = *migratePath
		case "sqlite":
			cfg.SQLitePath = *sqlitePath
		case "redis":
			cfg.RedisAddr = *redisAddr
		case "statuses":
			cfg.Statuses = splitList(*statuses)
		case "seed":
			cfg.Seed = *seed
		}
	})

	if len(cfg.Statuses) == 0 {
		cfg.Statuses = append([]string(nil), models.DefaultStatuses...)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", errors.ErrConfigInvalidFormat, c.Port)
	}
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.DBStr == "" {
			return fmt.Errorf("%w: postgres storage needs DB_STR", errors.ErrConfigInvalidFormat)
		}
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownStorageDriver, c.Storage)
	}
	return nil
}

func dsnFromParts() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	if dbUser == "" || dbPassword == "" || dbName == "" || dbHost == "" || dbPort == "" {
		return ""
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, dbHost, dbPort, dbName)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
