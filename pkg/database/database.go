package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolSettings bounds the underlying sql.DB connection pool.
type PoolSettings struct {
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLife        time.Duration
}

func GormOpen(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
}

func ConfigurePool(db *gorm.DB, settings PoolSettings) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if settings.MaxOpenConnections > 0 {
		sqlDB.SetMaxOpenConns(settings.MaxOpenConnections)
	}
	if settings.MaxIdleConnections > 0 {
		sqlDB.SetMaxIdleConns(settings.MaxIdleConnections)
	}
	if settings.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(settings.ConnMaxLife)
	}

	return nil
}

func RunMigrations(db *gorm.DB, entities ...interface{}) error {
	if err := db.AutoMigrate(entities...); err != nil {
		return err
	}
	return nil
}
