// Package db opens the database, applies the schema and seeds development data.
package db

import (
	"fmt"
	"log"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// Open connects with the configured driver, retrying while the database
// starts up. Driver errors are translated so callers can match
// gorm.ErrDuplicatedKey and friends.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.DSN()
	if cfg.Driver != "sqlite" {
		dsn = NormalizeDSN(dsn)
	}
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is empty, check DATABASE_DSN or DB_* settings")
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	log.Printf("[DB] driver=%s dsn=%s", cfg.Driver, MaskDSN(dsn))
	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < connectAttempts; i++ {
		conn, err = gorm.Open(dialector(cfg.Driver, dsn), gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] attempt %d/%d failed: %v", i+1, connectAttempts, err)
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}

func dialector(driver, dsn string) gorm.Dialector {
	if driver == "sqlite" {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}
