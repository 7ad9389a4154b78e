// Package config loads the service configuration.
//
// Values come, by increasing priority, from defaults, an optional config.yaml
// and the environment. Environment variables are namespaced by the
// environment name: with ENVIRONMENT_NAME=prod the database host is read
// from PROD_PSQL_DB_HOST. A .env file in the service directory is loaded
// into the environment first.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cache  CacheConfig  `mapstructure:"cache"`
	ETL    ETLConfig    `mapstructure:"etl"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr     string   `mapstructure:"http_addr"`
	APIKeys      []string `mapstructure:"api_keys"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	ReadOnlyUser     string        `mapstructure:"read_only_user"`
	ReadOnlyPassword string        `mapstructure:"read_only_password"`
	DataflowUser     string        `mapstructure:"dataflow_user"`
	DataflowPassword string        `mapstructure:"dataflow_password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	Timezone         string        `mapstructure:"timezone"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ETLConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	DiskCache   bool          `mapstructure:"disk_cache"`
	Schema      string        `mapstructure:"schema"`
	USBLS       USBLSConfig   `mapstructure:"usbls"`
	Cron        ETLCronConfig `mapstructure:"cron"`
}

type USBLSConfig struct {
	APIKey    string `mapstructure:"api_key"`
	SeriesID  string `mapstructure:"series_id"`
	StartYear int    `mapstructure:"start_year"`
	EndYear   int    `mapstructure:"end_year"`
}

// ETLCronConfig holds the cron specs of the scheduled jobs, with seconds. An
// empty spec disables the job.
type ETLCronConfig struct {
	Eurostat      string `mapstructure:"eurostat"`
	USBLS         string `mapstructure:"usbls"`
	RestCountries string `mapstructure:"restcountries"`
	Enrich        string `mapstructure:"enrich"`
}

// envNames maps configuration keys to their historical variable names, read
// as <ENVIRONMENT>_<NAME>.
var envNames = map[string]string{
	"db.host":               "PSQL_DB_HOST",
	"db.port":               "PSQL_DB_PORT",
	"db.name":               "PSQL_DB_NAME",
	"db.read_only_user":     "PSQL_DB_READ_ONLY_USER",
	"db.read_only_password": "PSQL_DB_READ_ONLY_PASSWORD",
	"db.dataflow_user":      "PSQL_DB_DATAFLOW_USER",
	"db.dataflow_password":  "PSQL_DB_DATAFLOW_PASSWORD",
	"server.api_keys":       "API_KEYS",
	"server.allow_origins":  "ALLOW_ORIGINS",
	"etl.usbls.api_key":     "USBLS2_API_KEY",
}

// Environment returns the environment name, "dev" when ENVIRONMENT_NAME is not
// set.
func Environment() string {
	if env := strings.TrimSpace(os.Getenv("ENVIRONMENT_NAME")); env != "" {
		return env
	}
	return "dev"
}

// Load reads the configuration of the service living in dir.
func Load(dir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load .env: %w", err)
	}
	env := Environment()

	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range envNames {
		if err := v.BindEnv(key, strings.ToUpper(env)+"_"+name); err != nil {
			return Config{}, fmt.Errorf("cannot bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", env)
	v.SetDefault("server.http_addr", ":8000")
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("server.allow_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", env == "dev")
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "inflation")
	v.SetDefault("db.read_only_user", "")
	v.SetDefault("db.read_only_password", "")
	v.SetDefault("db.dataflow_user", "")
	v.SetDefault("db.dataflow_password", "")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("etl.http_timeout", "60s")
	v.SetDefault("etl.disk_cache", false)
	v.SetDefault("etl.schema", "raw")
	v.SetDefault("etl.usbls.api_key", "")
	v.SetDefault("etl.usbls.series_id", "CUUR0000SA0")
	v.SetDefault("etl.usbls.start_year", 1913)
	v.SetDefault("etl.usbls.end_year", time.Now().Year())
	v.SetDefault("etl.cron.eurostat", "0 0 2 * * 1")
	v.SetDefault("etl.cron.usbls", "0 15 2 * * 1")
	v.SetDefault("etl.cron.restcountries", "0 30 2 * * 1")
	v.SetDefault("etl.cron.enrich", "0 0 3 * * 1")

	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot read config.yaml: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("cannot decode configuration: %w", err)
	}
	cfg.Server.APIKeys = clean(cfg.Server.APIKeys)
	cfg.Server.AllowOrigins = clean(cfg.Server.AllowOrigins)
	return cfg, nil
}

// clean trims the items of a comma separated list and drops the empty ones.
func clean(items []string) []string {
	var res []string
	for _, item := range items {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				res = append(res, s)
			}
		}
	}
	return res
}

// ReadOnlyDSN returns the postgres URL of the read only user, used by the API.
func (c DBConfig) ReadOnlyDSN() string { return c.dsn(c.ReadOnlyUser, c.ReadOnlyPassword) }

// DataflowDSN returns the postgres URL of the user allowed to write tables,
// used by the ETL jobs.
func (c DBConfig) DataflowDSN() string { return c.dsn(c.DataflowUser, c.DataflowPassword) }

func (c DBConfig) dsn(user, password string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.Timezone != "" {
		q.Set("timezone", c.Timezone)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
