package infra

import (
	"fmt"
	"time"

	"voice-order-service/internal/config"
	"voice-order-service/internal/domain"
	"voice-order-service/internal/infra/mysql"
	"voice-order-service/internal/infra/sqlite"

	"gorm.io/gorm"
)

// OpenDatabase connects to the configured driver, sizes the pool and
// migrates the order tables.
func OpenDatabase(cfg config.Database) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "mysql":
		db, err = mysql.NewMySQL(cfg)
	case "sqlite", "":
		db, err = sqlite.NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "mysql" {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(1 * time.Minute)
	} else {
		// sqlite serializes writers anyway
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
