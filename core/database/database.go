package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"event-checkin/core/constants"
	"event-checkin/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver(constants.DatabaseDriverSQLite, sqlx.QUESTION)
}

type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	ExecResultContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	Rebind(query string) string
	SQLx() *sqlx.DB
}

type Database struct {
	sqlx   *sqlx.DB
	driver string
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// InitDB opens the pool, pings it and applies the schema. SQLite is limited to a
// single connection so writers serialize instead of failing with SQLITE_BUSY.
func InitDB(config DatabaseConfig) (Database, error) {
	logger.Info("Initializing database...", "driver", config.Driver)

	driver := config.Driver
	if driver == "" {
		driver = constants.DatabaseDriverSQLite
	}

	dsn, err := buildDSN(driver, config)
	if err != nil {
		return Database{}, err
	}

	sqlxDB, err := sqlx.Connect(driver, dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return Database{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	if driver == constants.DatabaseDriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(orDefault(config.MaxOpenConns, constants.DatabaseMaxOpenConns))
		sqlDB.SetMaxIdleConns(orDefault(config.MaxIdleConns, constants.DatabaseMaxIdleConns))
		sqlDB.SetConnMaxLifetime(time.Duration(orDefault(config.ConnMaxLifetime, constants.DatabaseConnMaxLifetime)) * time.Minute)
	}

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		_ = sqlDB.Close()
		return Database{}, fmt.Errorf("failed to ping database: %w", err)
	}

	db := Database{
		sqlx:   sqlxDB,
		driver: driver,
	}

	if err := db.Migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return Database{}, err
	}

	logger.Info("Database initialized successfully",
		"driver", driver,
		"host", config.Host,
		"database", config.DBName,
	)
	return db, nil
}

func buildDSN(driver string, config DatabaseConfig) (string, error) {
	switch driver {
	case constants.DatabaseDriverSQLite:
		if config.DSN == "" {
			return "", fmt.Errorf("sqlite requires a dsn")
		}
		dsn := config.DSN
		if !strings.HasPrefix(dsn, "file:") {
			dsn = "file:" + dsn
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", dsn, sep, constants.SQLiteBusyTimeoutMillis), nil
	case constants.DatabaseDriverPostgres:
		if config.DSN != "" {
			return config.DSN, nil
		}
		sslMode := config.SSLMode
		if sslMode == "" {
			sslMode = constants.DatabaseSSLMode
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.User, config.Password, config.DBName, sslMode), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	if d.sqlx == nil {
		return nil
	}
	return d.sqlx.Close()
}

func (d *Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, query, args...)
	return err
}

func (d *Database) ExecResultContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.sqlx.ExecContext(ctx, query, args...)
}

func (d *Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d *Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

// Rebind converts '?' placeholders to the driver's bind style.
func (d *Database) Rebind(query string) string {
	return d.sqlx.Rebind(query)
}

// WithTx runs fn inside a transaction, committing on nil and rolling back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.sqlx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}
