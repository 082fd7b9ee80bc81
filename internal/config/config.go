package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	LogLevel     string // logrus level name
	StoreDriver  string // mysql | memory
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	ResetKey     string // when set, POST /seats/reset requires X-Reset-Key
	Events       EventsConfig
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set.  A
// missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads configuration values from environment variables.  Every
// missing or malformed required variable is reported in the returned
// error so operators can fix them in one go.
func Load() (Config, error) {
	l := &loader{}
	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "5000"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		StoreDriver:  strings.ToLower(getenv("STORE_DRIVER", StoreMySQL)),
		JWTSecret:    l.must("JWT_SECRET"),
		AccessTTLMin: l.intOr("ACCESS_TOKEN_TTL_MIN", 60*24),
		BcryptCost:   l.intOr("BCRYPT_COST", 12),
		ResetKey:     os.Getenv("RESET_KEY"),
		Events:       loadEvents(),
	}
	switch cfg.StoreDriver {
	case StoreMySQL:
		cfg.DBUser = l.must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = l.must("DB_HOST")
		cfg.DBPort = getenv("DB_PORT", "3306")
		cfg.DBName = l.must("DB_NAME")
	case StoreMemory:
	default:
		l.problems = append(l.problems, fmt.Sprintf("invalid STORE_DRIVER %q", cfg.StoreDriver))
	}
	if err := cfg.Events.validate(); err != nil {
		l.problems = append(l.problems, err.Error())
	}
	if len(l.problems) > 0 {
		return cfg, fmt.Errorf("config: %s", strings.Join(l.problems, "; "))
	}
	return cfg, nil
}

// loader accumulates problems instead of exiting on the first one.
type loader struct {
	problems []string
}

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.problems = append(l.problems, "missing required env var: "+key)
	}
	return v
}

// intOr is like getenv but converts the value into an integer.
func (l *loader) intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.problems = append(l.problems, fmt.Sprintf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}
