package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	URL          string `env:"DATABASE_URL"`
	Username     string `env:"POSTGRES_USER"`
	Password     string `env:"POSTGRES_PASSWORD"`
	PasswordFile string `env:"POSTGRES_PASSWORD_FILE"`
	Host         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         uint16 `env:"POSTGRES_PORT" envDefault:"5432"`
	DBName       string `env:"POSTGRES_DB"`
	SSLMode      string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

func (c *Database) loadPassword() error {
	if c.Password != "" || c.PasswordFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return fmt.Errorf("unable to read from password file: %w", err)
	}
	c.Password = strings.TrimSpace(string(data))
	return nil
}

func NewDatabase() (*Database, error) {
	var c Database
	if err := ParseEnv(&c); err != nil {
		return nil, err
	}
	if c.URL != "" {
		return &c, nil
	}
	if c.Username == "" || c.DBName == "" {
		return nil, fmt.Errorf("no DATABASE_URL set and POSTGRES_USER or POSTGRES_DB missing")
	}
	if err := c.loadPassword(); err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}
	return &c, nil
}

// DSN is DATABASE_URL when set, otherwise a URL assembled from the
// POSTGRES_* parts.
func (c Database) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func (c Database) PgxpoolConfig() (*pgxpool.Config, error) {
	return pgxpool.ParseConfig(c.DSN())
}
