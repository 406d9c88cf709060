package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Auth   AuthConfig   `yaml:"auth"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	APIPrefix string `yaml:"api_prefix"`
	StaticDir string `yaml:"static_dir"`
}

// StoreConfig selects the persistence backend: file, mysql, sqlite, mongo or redis.
type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	Timeout  time.Duration  `yaml:"timeout"`
	PageSize int            `yaml:"page_size"`
	File     FileConfig     `yaml:"file"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
}

type FileConfig struct {
	Path      string `yaml:"path"`
	UsersPath string `yaml:"users_path"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SQLitePath string `yaml:"sqlite_path"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// AuthConfig: mode "static" checks the configured admin pair, mode "store"
// looks users up in the active backend and seeds the configured admin.
type AuthConfig struct {
	Mode     string `yaml:"mode"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

const (
	BackendFile   = "file"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"

	AuthStatic = "static"
	AuthStore  = "store"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Store: StoreConfig{
			Backend:  BackendFile,
			Timeout:  30 * time.Second,
			PageSize: 100,
			File:     FileConfig{Path: "data/reports.json", UsersPath: "data/users.json"},
			Database: DatabaseConfig{Driver: BackendMySQL, Port: 3306, Name: "daily_report", SQLitePath: "data/reports.db"},
			Mongo:    MongoConfig{URI: "mongodb://localhost:27017", Database: "daily_report"},
			Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "daily:"},
		},
		Auth: AuthConfig{Mode: AuthStatic},
	}
}

// Load reads the first config file found, then .env and the environment. A
// missing file leaves the defaults; a file that does not parse is an error.
func Load(configFile string) (*Config, error) {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/daily-report/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	c.applyEnvOverrides()
	return c, nil
}

func (c *Config) applyEnvOverrides() {
	envOverrideInt(&c.Server.Port, "PORT")
	envOverride(&c.Server.APIPrefix, "API_PREFIX")
	envOverride(&c.Server.StaticDir, "STATIC_DIR")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")

	envOverride(&c.Store.Backend, "STORE_BACKEND")
	envOverrideDuration(&c.Store.Timeout, "STORE_TIMEOUT")
	envOverride(&c.Store.File.Path, "REPORTS_FILE")
	envOverride(&c.Store.File.UsersPath, "USERS_FILE")
	envOverride(&c.Store.Database.Driver, "DB_DRIVER")
	envOverride(&c.Store.Database.Host, "DB_HOST")
	envOverrideInt(&c.Store.Database.Port, "DB_PORT")
	envOverride(&c.Store.Database.User, "DB_USER")
	envOverride(&c.Store.Database.Password, "DB_PASS")
	envOverride(&c.Store.Database.Name, "DB_NAME")
	envOverride(&c.Store.Database.SQLitePath, "SQLITE_PATH")
	envOverride(&c.Store.Mongo.URI, "MONGO_URI")
	envOverride(&c.Store.Mongo.Database, "MONGO_DB")
	envOverride(&c.Store.Redis.Addr, "REDIS_ADDR")
	envOverride(&c.Store.Redis.Password, "REDIS_PASSWORD")
	envOverrideInt(&c.Store.Redis.DB, "REDIS_DB")

	envOverride(&c.Auth.Mode, "AUTH_MODE")
	envOverride(&c.Auth.Username, "ADMIN_USERNAME")
	envOverride(&c.Auth.Password, "ADMIN_PASSWORD")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMySQL, BackendSQLite, BackendMongo, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Auth.Mode {
	case AuthStatic, AuthStore:
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}
	if c.Auth.Mode == AuthStatic && (c.Auth.Username == "" || c.Auth.Password == "") {
		return fmt.Errorf("static auth needs auth.username and auth.password")
	}
	if c.Store.PageSize <= 0 {
		return fmt.Errorf("store.page_size must be positive, got %d", c.Store.PageSize)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// OpenGormDB opens the SQL backend. The sqlite backend (or database.driver
// sqlite) opens an embedded file; anything else goes through the MySQL driver.
func (c *Config) OpenGormDB() (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if c.Store.Backend == BackendSQLite || c.Store.Database.Driver == BackendSQLite {
		return gorm.Open(sqlite.Open(c.Store.Database.SQLitePath), gcfg)
	}

	cfg := gomysql.NewConfig()
	cfg.User = c.Store.Database.User
	cfg.Passwd = c.Store.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Store.Database.Host, c.Store.Database.Port)
	cfg.DBName = c.Store.Database.Name
	cfg.ParseTime = true
	cfg.Timeout = c.Store.Timeout

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
}

func (c *Config) OpenMongo(ctx context.Context) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(c.Store.Mongo.URI)
	if c.Store.Timeout > 0 {
		opts.SetTimeout(c.Store.Timeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client.Database(c.Store.Mongo.Database), nil
}

func (c *Config) NewRedisClient(ctx context.Context) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Store.Redis.Addr,
		Password:     c.Store.Redis.Password,
		DB:           c.Store.Redis.DB,
		ReadTimeout:  c.Store.Timeout,
		WriteTimeout: c.Store.Timeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
