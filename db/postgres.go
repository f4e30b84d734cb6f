package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// Connect opens the shared Postgres pool. The hosted database drops idle
// connections aggressively, so the pool is kept small with a short lifetime.
func Connect(connStr string) error {
	if connStr == "" {
		return fmt.Errorf("database connection string is empty")
	}

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
