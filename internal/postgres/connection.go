// Package postgres implements the repositories on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

const (
	defaultPort    = 5432
	defaultSSLMode = "disable"
	pingTimeout    = 5 * time.Second
)

// sqlOpen is replaced in tests.
var sqlOpen = sql.Open

// Config describes the database connection.
type Config struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max-open-conns"`
	MaxIdleConns int    `mapstructure:"max-idle-conns"`
}

// DSN returns the connection URL understood by lib/pq and golang-migrate.
func (c Config) DSN() string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     c.Host + ":" + strconv.Itoa(port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	return u.String()
}

// Open creates the connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*sql.DB, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("database host is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("database name is required")
	}

	db, err := sqlOpen("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Component(log, "postgres").Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)

	return db, nil
}
