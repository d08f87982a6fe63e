package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort       string        `yaml:"http_port"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`

	// Storage backend selection: PostgresDSN wins over SQLitePath, which
	// wins over the file adapter rooted at DataDir.
	DataDir     string `yaml:"data_dir"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisAddr   string `yaml:"redis_addr"`

	DBMaxOpenConns int           `yaml:"db_max_open_conns"`
	DBMaxIdleConns int           `yaml:"db_max_idle_conns"`
	DBConnMaxIdle  time.Duration `yaml:"db_conn_max_idle"`
	DBConnMaxLife  time.Duration `yaml:"db_conn_max_life"`

	StrictCapacity             bool `yaml:"strict_capacity"`
	AllowDuplicateApplications bool `yaml:"allow_duplicate_applications"`
}

// Load builds the config from environment variables, then overlays the YAML
// file named by INTERNHUB_CONFIG when one is set.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "internhub-dev-secret"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DataDir:        getEnv("DATA_DIR", "data"),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		PostgresDSN:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:  getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:  getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),

		StrictCapacity:             getBool("STRICT_CAPACITY", false),
		AllowDuplicateApplications: getBool("ALLOW_DUPLICATE_APPLICATIONS", true),
	}

	if path := os.Getenv("INTERNHUB_CONFIG"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
