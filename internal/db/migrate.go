package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mossbrook/landscaping/internal/models"
)

// Models in dependency order for AutoMigrate.
func allModels() []interface{} {
	return []interface{}{
		&models.User{}, &models.Client{}, &models.Job{},
		&models.Invoice{}, &models.InvoiceLineItem{},
		&models.Lead{}, &models.Plant{},
	}
}

// ConnectAndMigrate opens the database and brings the schema up to date.
// An empty DATABASE_DSN falls back to a local sqlite file for dev. With
// MIGRATIONS=1 the SQL migrations in ./migrations run via golang-migrate
// (postgres only); otherwise AutoMigrate is used.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)

	logLevel := gormlogger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = gormlogger.Info
	}
	cfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	}

	var db *gorm.DB
	var err error
	if dsn == "" {
		db, err = gorm.Open(sqlite.Open("landscaping.db"), cfg)
	} else if IsPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			zap.L().Warn("retrying DB connection", zap.Error(err))
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	zap.L().Info("database connected", zap.String("dsn", maskDSN(dsn)))

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if !IsPostgresDSN(dsn) {
			return nil, errors.New("MIGRATIONS=1 requires a postgres DSN")
		}
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"users", "clients", "invoices"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

func maskDSN(dsn string) string {
	if dsn == "" {
		return "sqlite:landscaping.db"
	}
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	if u := regexp.MustCompile(`(://[^:/@]+:)[^@]+(@)`); u.MatchString(masked) {
		masked = u.ReplaceAllString(masked, `${1}***${2}`)
	}
	return masked
}

// runSQLMigrations executes migrations in ./migrations via the file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
