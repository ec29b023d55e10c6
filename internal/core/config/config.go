package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate LogRotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	CacheTTLSec int    `mapstructure:"cachettlsec"`
}

// Store selects the repository backend: "mongo" or "gorm".
type Store struct {
	Backend string
}

type Mongo struct {
	URI      string
	Database string
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Seed struct {
	Username string
	Password string
	Name     string
}

type Limits struct {
	RPS            float64
	Burst          int
	MaxInFlight    int64
	MaxBodyMB      int64
	RequestTimeout int // 秒
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Store  Store
	Mongo  Mongo
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Seed   Seed
	Limits Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "court-admin")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.compress", true)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)

	// 没有默认值的 key 也要登记，否则 AutomaticEnv 在 Unmarshal 时看不到
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "court-admin")
	v.SetDefault("jwt.accesstokenttlmin", 60)

	v.SetDefault("store.backend", "mongo")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "court_admin")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "court_admin.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cachettlsec", 600)

	v.SetDefault("seed.username", "admin")
	v.SetDefault("seed.password", "admin123")
	v.SetDefault("seed.name", "System Administrator")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.maxinflight", 300)
	v.SetDefault("limits.maxbodymb", 4)
	v.SetDefault("limits.requesttimeout", 10)
}

// Load reads path (or CONFIG_PATH, or ./configs/config.local.yaml). A missing
// file is not an error: defaults plus APP_* env vars are enough to start.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "mongo", "gorm":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required (APP_JWT_SECRET)")
	}
	return nil
}
