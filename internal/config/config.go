package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	AppEnv  string `env:"APP_ENV" envDefault:"production"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"loanflow.db"`

	MySQLHost string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB   string `env:"MYSQL_DB" envDefault:"loanflow"`
	MySQLUser string `env:"MYSQL_USER" envDefault:"loanflow"`
	MySQLPass string `env:"MYSQL_PASS" envDefault:"loanflow"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	IdempTTLSecs int `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`

	UsersAPIURL string        `env:"USERS_API_URL"`
	HTTPRetries int           `env:"HTTP_RETRIES" envDefault:"3"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`

	// empty NotifyURL logs notifications instead of posting them
	NotifyURL         string        `env:"NOTIFY_URL"`
	NotifyQueueKey    string        `env:"NOTIFY_QUEUE_KEY" envDefault:"notifications:outbox"`
	NotifyInterval    time.Duration `env:"NOTIFY_INTERVAL" envDefault:"1s"`
	NotifyMaxAttempts int           `env:"NOTIFY_MAX_ATTEMPTS" envDefault:"5"`
	NotifyRate        float64       `env:"NOTIFY_RATE" envDefault:"5"`

	// echo BodyLimit syntax, e.g. 12M; empty disables the limit
	HTTPBodyLimit string `env:"HTTP_BODY_LIMIT" envDefault:"12M"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	// username:bcrypt-hash pairs, comma separated
	ManagerCredentials map[string]string `env:"MANAGER_CREDENTIALS" envSeparator:"," envKeyValSeparator:":"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func (c *Config) Development() bool { return c.AppEnv == "development" }

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.NotifyMaxAttempts <= 0 {
		return errors.New("NOTIFY_MAX_ATTEMPTS must be positive")
	}
	for user, hash := range c.ManagerCredentials {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return fmt.Errorf("manager %q: password must be a bcrypt hash: %w", user, err)
		}
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// SQLiteDSN opens writers with BEGIN IMMEDIATE and waits on a held lock
// instead of failing with SQLITE_BUSY.
func (c *Config) SQLiteDSN() string {
	sep := "?"
	if strings.Contains(c.SQLitePath, "?") {
		sep = "&"
	}
	return c.SQLitePath + sep + "_txlock=immediate&_busy_timeout=5000"
}
