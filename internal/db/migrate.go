package db

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/config"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// registers the postgres database driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RequiredTables must exist once the schema is applied.
var RequiredTables = []string{"customers", "job_orders", "invoices", "invoice_items", "user_roles", "profiles"}

// Migrate applies the schema according to mode: auto runs GORM AutoMigrate,
// sql runs the embedded golang-migrate files against dsn, off does nothing.
func Migrate(conn *gorm.DB, mode, dsn string) error {
	switch mode {
	case config.MigrateOff:
		log.Println("[DB] migrations disabled")
		return nil
	case config.MigrateSQL:
		if err := runSQLMigrations(ToURLDSN(NormalizeDSN(dsn))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	default:
		if err := AutoMigrate(conn); err != nil {
			return err
		}
	}

	for _, table := range RequiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or updates every table from the model definitions.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range models.All() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(urlDSN string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, urlDSN)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
