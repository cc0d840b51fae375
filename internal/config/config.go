package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config 保存进程级配置（仅使用配置文件或内置默认值）。
// 字段提供开发友好的默认值；生产环境请在 config.yaml 中覆盖。
type Config struct {
	Env       string
	HTTPAddr  string
	Database  DatabaseConfig
	Redis     RedisConfig
	Token     TokenConfig
	Limits    LimitConfig
	Security  SecurityConfig
	Bootstrap BootstrapConfig
}

// DatabaseConfig 选择驱动并提供各驱动的连接参数。
type DatabaseConfig struct {
	// 取值：mysql、postgres、sqlite
	Driver          string
	MySQL           MySQLConfig
	Postgres        PostgresConfig
	SQLite          SQLiteConfig
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Params   string
}

func (m MySQLConfig) DSN() string {
	port := m.Port
	if port == 0 {
		port = 3306
	}
	host := m.Host
	if host == "" {
		host = "127.0.0.1"
	}
	db := m.DBName
	if db == "" {
		db = "beautycenter"
	}
	params := m.Params
	if params == "" {
		params = "parseTime=true&loc=Local&charset=utf8mb4,utf8"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", m.User, m.Password, host, port, db, params)
}

func (m MySQLConfig) DSNMasked() string {
	masked := m
	if masked.Password != "" {
		masked.Password = "******"
	}
	return masked.DSN()
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

func (p PostgresConfig) DSN() string {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	tz := p.TimeZone
	if tz == "" {
		tz = "Europe/Moscow"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		p.Host, p.User, p.Password, p.DBName, port, ssl, tz)
}

func (p PostgresConfig) DSNMasked() string {
	masked := p
	if masked.Password != "" {
		masked.Password = "******"
	}
	return masked.DSN()
}

type SQLiteConfig struct {
	// 数据库文件路径；":memory:" 表示内存库
	Path string
}

// DSNMasked 返回当前驱动对应的脱敏 DSN，用于日志输出。
func (d DatabaseConfig) DSNMasked() string {
	switch d.Driver {
	case "postgres":
		return d.Postgres.DSNMasked()
	case "sqlite":
		return d.SQLite.Path
	default:
		return d.MySQL.DSNMasked()
	}
}

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

type TokenConfig struct {
	// API 令牌有效期；同一用户在有效期内重复登录得到同一令牌
	TTL time.Duration
	// 令牌随机字节数
	Length int
}

type LimitConfig struct {
	AuthPerMinute     int
	RegisterPerMinute int
	// 时间窗口（默认 1m）
	Window time.Duration
}

type SecurityConfig struct {
	HSTS struct {
		Enabled           bool
		MaxAgeSeconds     int
		IncludeSubdomains bool
	}
}

// BootstrapConfig 包含一次性初始化数据（用户不存在时创建）。
type BootstrapConfig struct {
	InitialUser InitialUserConfig
}

type InitialUserConfig struct {
	Enable   bool
	Username string
	Password string
	Email    string
}

// Default 返回内置默认配置（本地开发可直接运行）。
func Default() Config {
	return Config{
		Env:      "dev",
		HTTPAddr: ":8000",
		Database: DatabaseConfig{
			Driver:          "mysql",
			MySQL:           MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "123456", DBName: "beautycenter", Params: "parseTime=true&loc=Local&charset=utf8mb4,utf8"},
			Postgres:        PostgresConfig{Host: "127.0.0.1", Port: 5432, User: "postgres", Password: "postgres", DBName: "beautycenter", SSLMode: "disable", TimeZone: "Europe/Moscow"},
			SQLite:          SQLiteConfig{Path: "beautycenter.db"},
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis:  RedisConfig{Addr: "127.0.0.1:6379", DB: 0, Password: ""},
		Token:  TokenConfig{TTL: 7 * 24 * time.Hour, Length: 20},
		Limits: LimitConfig{AuthPerMinute: 10, RegisterPerMinute: 5, Window: time.Minute},
		Security: func() SecurityConfig {
			var s SecurityConfig
			s.HSTS.Enabled = true
			s.HSTS.MaxAgeSeconds = 31536000
			s.HSTS.IncludeSubdomains = true
			return s
		}(),
		Bootstrap: BootstrapConfig{InitialUser: InitialUserConfig{Enable: false, Username: "admin", Password: "123465", Email: "admin@example.com"}},
	}
}

// Load 生成配置：先使用内置默认值，再用工作目录的配置文件（config.yaml/yml/json）覆盖。
// 配置文件存在但无法解析时返回错误，不回退到默认值。
func Load() (Config, error) {
	cfg := Default()
	if path := FirstExisting("config.yaml", "config.yml", "config.json"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Default(), fmt.Errorf("load %s: %w", path, err)
		}
	}
	return cfg, nil
}

// LoadFile 读取 YAML 或 JSON 配置文件。仅非零值会覆盖现有字段。
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var fm fileModel
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else if ext == ".json" || ext == "" {
		if err := json.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else {
		return errors.New("unsupported config file format")
	}
	fm.apply(cfg)
	return nil
}

// --- 配置文件模型与合并逻辑 ---

type fileModel struct {
	Env       string         `yaml:"env" json:"env"`
	HTTPAddr  string         `yaml:"http_addr" json:"http_addr"`
	Database  *fileDatabase  `yaml:"database" json:"database"`
	Redis     *fileRedis     `yaml:"redis" json:"redis"`
	Token     *fileToken     `yaml:"token" json:"token"`
	Limits    *fileLimits    `yaml:"limits" json:"limits"`
	Security  *fileSecurity  `yaml:"security" json:"security"`
	Bootstrap *fileBootstrap `yaml:"bootstrap" json:"bootstrap"`
}

type fileDatabase struct {
	Driver          string        `yaml:"driver" json:"driver"`
	MySQL           *fileMySQL    `yaml:"mysql" json:"mysql"`
	Postgres        *filePostgres `yaml:"postgres" json:"postgres"`
	SQLite          *fileSQLite   `yaml:"sqlite" json:"sqlite"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime string        `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}
type fileMySQL struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	DBName   string `yaml:"db" json:"db"`
	Params   string `yaml:"params" json:"params"`
}
type filePostgres struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	DBName   string `yaml:"db" json:"db"`
	SSLMode  string `yaml:"sslmode" json:"sslmode"`
	TimeZone string `yaml:"timezone" json:"timezone"`
}
type fileSQLite struct {
	Path string `yaml:"path" json:"path"`
}
type fileRedis struct {
	Addr     string `yaml:"addr" json:"addr"`
	DB       int    `yaml:"db" json:"db"`
	Password string `yaml:"password" json:"password"`
}
type fileToken struct {
	TTL    string `yaml:"ttl" json:"ttl"`
	Length int    `yaml:"length" json:"length"`
}
type fileLimits struct {
	AuthPerMinute     int    `yaml:"auth_per_minute" json:"auth_per_minute"`
	RegisterPerMinute int    `yaml:"register_per_minute" json:"register_per_minute"`
	Window            string `yaml:"window" json:"window"`
}
type fileSecurity struct {
	HSTS struct {
		Enabled           *bool `yaml:"enabled" json:"enabled"`
		MaxAge            int   `yaml:"max_age" json:"max_age"`
		IncludeSubdomains *bool `yaml:"include_subdomains" json:"include_subdomains"`
	} `yaml:"hsts" json:"hsts"`
}
type fileBootstrap struct {
	InitialUser *fileUser `yaml:"initial_user" json:"initial_user"`
}
type fileUser struct {
	Enable   *bool  `yaml:"enable" json:"enable"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Email    string `yaml:"email" json:"email"`
}

func (fm *fileModel) apply(cfg *Config) {
	if fm.Env != "" {
		cfg.Env = fm.Env
	}
	if fm.HTTPAddr != "" {
		cfg.HTTPAddr = fm.HTTPAddr
	}
	if fm.Database != nil {
		fm.Database.apply(&cfg.Database)
	}
	if fm.Redis != nil {
		if fm.Redis.Addr != "" {
			cfg.Redis.Addr = fm.Redis.Addr
		}
		if fm.Redis.DB != 0 {
			cfg.Redis.DB = fm.Redis.DB
		}
		if fm.Redis.Password != "" {
			cfg.Redis.Password = fm.Redis.Password
		}
	}
	if fm.Token != nil {
		if fm.Token.TTL != "" {
			if d, err := time.ParseDuration(fm.Token.TTL); err == nil {
				cfg.Token.TTL = d
			}
		}
		if fm.Token.Length != 0 {
			cfg.Token.Length = fm.Token.Length
		}
	}
	if fm.Limits != nil {
		if fm.Limits.AuthPerMinute != 0 {
			cfg.Limits.AuthPerMinute = fm.Limits.AuthPerMinute
		}
		if fm.Limits.RegisterPerMinute != 0 {
			cfg.Limits.RegisterPerMinute = fm.Limits.RegisterPerMinute
		}
		if fm.Limits.Window != "" {
			if d, err := time.ParseDuration(fm.Limits.Window); err == nil {
				cfg.Limits.Window = d
			}
		}
	}
	if fm.Security != nil {
		if fm.Security.HSTS.Enabled != nil {
			cfg.Security.HSTS.Enabled = *fm.Security.HSTS.Enabled
		}
		if fm.Security.HSTS.MaxAge != 0 {
			cfg.Security.HSTS.MaxAgeSeconds = fm.Security.HSTS.MaxAge
		}
		if fm.Security.HSTS.IncludeSubdomains != nil {
			cfg.Security.HSTS.IncludeSubdomains = *fm.Security.HSTS.IncludeSubdomains
		}
	}
	if fm.Bootstrap != nil && fm.Bootstrap.InitialUser != nil {
		iu := fm.Bootstrap.InitialUser
		if iu.Enable != nil {
			cfg.Bootstrap.InitialUser.Enable = *iu.Enable
		}
		if iu.Username != "" {
			cfg.Bootstrap.InitialUser.Username = iu.Username
		}
		if iu.Password != "" {
			cfg.Bootstrap.InitialUser.Password = iu.Password
		}
		if iu.Email != "" {
			cfg.Bootstrap.InitialUser.Email = iu.Email
		}
	}
}

func (fd *fileDatabase) apply(d *DatabaseConfig) {
	if fd.Driver != "" {
		d.Driver = strings.ToLower(fd.Driver)
	}
	if fd.MySQL != nil {
		if fd.MySQL.Host != "" {
			d.MySQL.Host = fd.MySQL.Host
		}
		if fd.MySQL.Port != 0 {
			d.MySQL.Port = fd.MySQL.Port
		}
		if fd.MySQL.User != "" {
			d.MySQL.User = fd.MySQL.User
		}
		if fd.MySQL.Password != "" {
			d.MySQL.Password = fd.MySQL.Password
		}
		if fd.MySQL.DBName != "" {
			d.MySQL.DBName = fd.MySQL.DBName
		}
		if fd.MySQL.Params != "" {
			d.MySQL.Params = fd.MySQL.Params
		}
	}
	if fd.Postgres != nil {
		if fd.Postgres.Host != "" {
			d.Postgres.Host = fd.Postgres.Host
		}
		if fd.Postgres.Port != 0 {
			d.Postgres.Port = fd.Postgres.Port
		}
		if fd.Postgres.User != "" {
			d.Postgres.User = fd.Postgres.User
		}
		if fd.Postgres.Password != "" {
			d.Postgres.Password = fd.Postgres.Password
		}
		if fd.Postgres.DBName != "" {
			d.Postgres.DBName = fd.Postgres.DBName
		}
		if fd.Postgres.SSLMode != "" {
			d.Postgres.SSLMode = fd.Postgres.SSLMode
		}
		if fd.Postgres.TimeZone != "" {
			d.Postgres.TimeZone = fd.Postgres.TimeZone
		}
	}
	if fd.SQLite != nil && fd.SQLite.Path != "" {
		d.SQLite.Path = fd.SQLite.Path
	}
	if fd.MaxOpenConns != 0 {
		d.MaxOpenConns = fd.MaxOpenConns
	}
	if fd.MaxIdleConns != 0 {
		d.MaxIdleConns = fd.MaxIdleConns
	}
	if fd.ConnMaxLifetime != "" {
		if v, err := time.ParseDuration(fd.ConnMaxLifetime); err == nil {
			d.ConnMaxLifetime = v
		}
	}
}

// FirstExisting 按顺序返回第一个存在的文件路径；若都不存在则返回空字符串。
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
