package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // postgres
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // sqlite
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDBConnection opens the database for driver and pings it.
func NewDBConnection(driver, dsn string) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, eris.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "database: open")
	}

	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
		} {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, eris.Wrapf(err, "database: exec %s", pragma)
			}
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "database: ping")
	}

	return db, nil
}
