package dbmysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socialapp/internal/config"
	"socialapp/internal/logging"
)

// NewDatabase opens the configured relational store and migrates the schema.
func NewDatabase(cnf *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	var dialector gorm.Dialector
	switch cnf.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cnf.Database.SQLitePath + "?_foreign_keys=on")
	default:
		dialector = mysql.Open(cnf.DSN())
	}

	db, err := Open(dialector, logging.GormLevel(cnf.Logging.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to %s: %w", cnf.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := AutoMigrate(db); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("connected to database", zap.String("driver", cnf.Database.Driver))

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// Open wraps gorm.Open with the settings every connection shares.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
}

func Models() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
		&Message{},
		&Notification{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
