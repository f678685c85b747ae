package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"warden/internal/config"
	"warden/internal/entity"
	"warden/internal/model/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

// RepositoryFactory 根据数据库类型创建对应的仓库实现
type RepositoryFactory struct {
	migrate bool
}

// NewRepositoryFactory 创建新的仓库工厂
func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{migrate: true}
}

// WithoutMigration 打开数据库时不执行自动迁移。
func (f *RepositoryFactory) WithoutMigration() *RepositoryFactory {
	f.migrate = false
	return f
}

// InitRepository 初始化仓库的辅助函数
func InitRepository(cfg *config.Config) (*sql.GormRepository, error) {
	if cfg == nil || cfg.DBType == "" {
		return nil, fmt.Errorf("database type is not configured")
	}
	return NewRepositoryFactory().CreateRepository(cfg)
}

// CreateRepository 根据配置创建对应的仓库实现
func (f *RepositoryFactory) CreateRepository(cfg *config.Config) (*sql.GormRepository, error) {
	var (
		dialector gorm.Dialector
		err       error
	)
	switch cfg.DBType {
	case DBTypeMySQL:
		dialector = mysql.Open(mysqlDSN(cfg))
	case DBTypeSQLite:
		dialector, err = sqliteDialector(cfg)
	case DBTypePostgres:
		dialector = postgres.Open(postgresDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}

	db, err := OpenGormDB(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBType, err)
	}

	if f.migrate {
		// 自动迁移数据库表结构
		if err := MigrateSchema(db); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return sql.NewGormRepository(db, sql.WithRowLocking(cfg.AssignRowLocking)), nil
}

func mysqlDSN(cfg *config.Config) string {
	if cfg.DSNURL != "" {
		return cfg.DSNURL
	}
	// 从各个配置项构建 DSN
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
}

func postgresDSN(cfg *config.Config) string {
	if cfg.DSNURL != "" {
		return cfg.DSNURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
}

func sqliteDialector(cfg *config.Config) (gorm.Dialector, error) {
	filePath := cfg.DBPath
	if filePath == "" {
		filePath = "datas/warden.db"
	}

	// SQLite 会在连接时自动创建 .db 文件，但前提是目录已存在
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	return sqlite.Open(filePath), nil
}

// OpenGormDB 打开数据库连接并配置连接池。
func OpenGormDB(dialector gorm.Dialector, cfg *config.Config) (*gorm.DB, error) {
	// 配置 GORM 日志
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxIdle, maxOpen := 10, 100
	if cfg != nil {
		if cfg.DBMaxIdleConns > 0 {
			maxIdle = cfg.DBMaxIdleConns
		}
		if cfg.DBMaxOpenConns > 0 {
			maxOpen = cfg.DBMaxOpenConns
		}
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// MigrateSchema 迁移数据库表结构
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Account{},
		&entity.Role{},
		&entity.Permission{},
		&entity.AccountRoleLink{},
		&entity.RolePermissionLink{},
		&entity.AccountUserLink{},
	)
}
