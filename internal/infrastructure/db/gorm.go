package db

import (
	"fmt"
	"time"

	"loanflow/internal/config"
	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/repayment"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm connects to the database selected by cfg.DBDriver.
func OpenGorm(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dial = mysql.Open(cfg.MySQLDSN())
	case config.DriverSQLite:
		dial = sqlite.Open(cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
	db, err := OpenGormWithDialector(dial)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("gorm: connected", zap.String("driver", cfg.DBDriver))
	}
	return db, nil
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the loans and repayments tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&loan.Loan{}, &repayment.Repayment{})
}
