package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBType         string `env:"DBType" envDefault:"sqlite"`
	DSNURL         string `env:"DSN_URL" envDefault:""`
	DBUser         string `env:"DBUser" envDefault:""`
	DBPassword     string `env:"DBPassword" envDefault:""`
	DBAddr         string `env:"DBAddr" envDefault:""`
	DBName         string `env:"DBName" envDefault:"warden"`
	DBPath         string `env:"DBPath" envDefault:"datas/warden.db"`
	DBPort         string `env:"DBPort" envDefault:"3306"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`

	// 替换式分配时是否对目标账户/角色行加锁（SELECT ... FOR UPDATE）
	AssignRowLocking bool `env:"ASSIGN_ROW_LOCKING" envDefault:"true"`

	// 会话存储: local 或 redis
	SessionStore     string `env:"SESSION_STORE" envDefault:"local"`
	SessionLocalSize int    `env:"SESSION_LOCAL_SIZE" envDefault:"10000"`
	RedisAddr        string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix   string `env:"REDIS_KEY_PREFIX" envDefault:"warden:session:"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer            string `env:"JWT_ISSUER" envDefault:"warden"`
	JWTExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"1440"`

	// 超级管理员初始化账户
	SuperAdminName     string `env:"SUPER_ADMIN_NAME" envDefault:"admin"`
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD" envDefault:""`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

func ParseConfig() (Config, error) {
	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.WithFields(logrus.Fields{
		"db_type":       Conf.DBType,
		"session_store": Conf.SessionStore,
		"http_port":     Conf.HTTPPort,
	}).Debug("config loaded")
	return Conf, nil
}
