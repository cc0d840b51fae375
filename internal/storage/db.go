package storage

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"beautycenter/internal/config"
)

// InitDB 按配置的驱动（mysql/postgres/sqlite）打开 GORM 连接，并通过 AutoMigrate 确保表结构存在。
func InitDB(cfg config.Config) (*gorm.DB, error) {
	dbc := cfg.Database
	var dialector gorm.Dialector
	switch dbc.Driver {
	case "", "mysql":
		dialector = mysql.Open(dbc.MySQL.DSN())
	case "postgres":
		dialector = postgres.Open(dbc.Postgres.DSN())
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(dbc.SQLite.Path))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbc.Driver)
	}
	db, err := Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbc.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if dbc.Driver == "sqlite" {
		// SQLite 单写者；内存库每个连接各自独立，统一收敛到一个连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		if dbc.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(dbc.MaxOpenConns)
		}
		if dbc.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(dbc.MaxIdleConns)
		}
		if dbc.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(dbc.ConnMaxLifetime)
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dbc.Driver, err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

// Open 使用统一的 GORM 配置（Warn 级日志、UTC 时间）打开连接，不做迁移。
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time {
			return time.Now().UTC()
		},
	}
	return gorm.Open(dialector, gcfg)
}

// OpenSQLiteMemory 打开一个独立的内存 SQLite 库并完成迁移（本地调试与测试使用）。
func OpenSQLiteMemory(name string) (*gorm.DB, error) {
	db, err := Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=1"
	}
	return "file:" + path + "?_foreign_keys=1"
}

// CloseDB 关闭底层 sql.DB 连接。
func CloseDB(db *gorm.DB) {
	if db == nil {
		return
	}
	var s *sql.DB
	var err error
	s, err = db.DB()
	if err == nil && s != nil {
		_ = s.Close()
	}
}
