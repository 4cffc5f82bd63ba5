package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"settings-ui/internal/db/migrations"
	"settings-ui/internal/types"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLitePath is used when DATABASE_DSN is empty.
const DefaultSQLitePath = "./data/settings.db"

// Dialects
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// DetectDialect picks the SQL dialect of a DSN. Postgres URLs and key/value
// DSNs go to postgres, go-sql-driver DSNs to mysql, anything else is a SQLite path.
func DetectDialect(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return DialectPostgres
	case strings.Contains(dsn, "@tcp("), strings.Contains(dsn, "@unix("):
		return DialectMySQL
	}
	return DialectSQLite
}

// NewDB opens the database named by DATABASE_DSN and migrates the schema.
func NewDB(configManager types.ConfigManager) (*gorm.DB, error) {
	dsn := configManager.GetDatabaseConfig().DSN
	if dsn == "" {
		dsn = DefaultSQLitePath
	}

	dialect := DetectDialect(dsn)
	dialector, err := openDialector(dialect, dsn)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
	if configManager.GetLogConfig().Level == "debug" {
		gormLogger = gormLogger.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if dialect == DialectSQLite && isMemoryDSN(dsn) {
		// 内存库每个连接都是独立的数据库
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := migrations.MigrateDatabase(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.WithField("dialect", dialect).Info("Database connected")
	return db, nil
}

func openDialector(dialect, dsn string) (gorm.Dialector, error) {
	switch dialect {
	case DialectPostgres:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres DSN: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connConfig)}), nil
	case DialectMySQL:
		cfg, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		return mysql.Open(cfg.FormatDSN()), nil
	}

	if !isMemoryDSN(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return sqlite.Open(dsn + separator + "_pragma=busy_timeout(5000)"), nil
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
