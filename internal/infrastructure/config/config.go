package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Stock    StockConfig
}

// AppConfig identifies the process.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds PostgreSQL connection and pool settings. Lifetimes
// are in minutes.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// RedisConfig holds the connection settings for the token blacklist store.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// AuthConfig holds account lockout settings.
type AuthConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// LogConfig holds logging settings. Level is one of debug, info, warn,
// error; Format is json or console; Output is stdout, stderr, or a file
// path.
type LogConfig struct {
	Level              string
	Format             string
	Output             string
	SlowQueryThreshold time.Duration
}

// HTTPConfig holds server timeouts and the CORS policy.
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// StockConfig tunes how stock reconciliation validates availability.
type StockConfig struct {
	// CumulativeCheck validates outbound documents against the summed
	// per-article demand instead of per line. Off by default.
	CumulativeCheck bool
	// RowLocking enables SELECT ... FOR UPDATE on articles during
	// reconciliation.
	RowLocking bool
}

// Load reads config.toml, overlays GESTOCK_ environment variables on top
// of it, fills defaults, and validates the result. A missing config file
// is fine; defaults plus environment cover everything.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("GESTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:      appSection(v),
		Database: databaseSection(v),
		Redis:    redisSection(v),
		JWT:      jwtSection(v),
		Auth:     authSection(v),
		Log:      logSection(v),
		HTTP:     httpSection(v),
		Stock:    stockSection(v),
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func appSection(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: v.GetString("app.name"),
		Env:  v.GetString("app.env"),
		Port: v.GetString("app.port"),
	}
}

func databaseSection(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func redisSection(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func jwtSection(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
	}
}

func authSection(v *viper.Viper) AuthConfig {
	return AuthConfig{
		MaxLoginAttempts: v.GetInt("auth.max_login_attempts"),
		LockDuration:     v.GetDuration("auth.lock_duration"),
	}
}

func logSection(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:              v.GetString("log.level"),
		Format:             v.GetString("log.format"),
		Output:             v.GetString("log.output"),
		SlowQueryThreshold: v.GetDuration("log.slow_query_threshold"),
	}
}

func httpSection(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:      v.GetDuration("http.read_timeout"),
		WriteTimeout:     v.GetDuration("http.write_timeout"),
		IdleTimeout:      v.GetDuration("http.idle_timeout"),
		MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
		CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
	}
}

func stockSection(v *viper.Viper) StockConfig {
	return StockConfig{
		CumulativeCheck: v.GetBool("stock.cumulative_check"),
		RowLocking:      v.GetBool("stock.row_locking"),
	}
}

func fallbackString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func fallbackInt(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}

func fallbackDuration(field *time.Duration, value time.Duration) {
	if *field == 0 {
		*field = value
	}
}

// applyDefaults fills every zero-valued field that has a sensible default.
// CORS origins are the exception: an empty list stays empty and blocks
// cross-origin requests until a deployment names its frontends.
func (c *Config) applyDefaults() {
	fallbackString(&c.App.Name, "gestock-backend")
	fallbackString(&c.App.Env, "development")
	fallbackString(&c.App.Port, "8080")

	fallbackString(&c.Database.Host, "localhost")
	fallbackInt(&c.Database.Port, 5432)
	fallbackString(&c.Database.User, "postgres")
	fallbackString(&c.Database.DBName, "gestock")
	fallbackString(&c.Database.SSLMode, "disable")
	fallbackInt(&c.Database.MaxOpenConns, 25)
	fallbackInt(&c.Database.MaxIdleConns, 5)
	fallbackInt(&c.Database.ConnMaxLifetime, 60)
	fallbackInt(&c.Database.ConnMaxIdleTime, 30)

	fallbackString(&c.Redis.Host, "localhost")
	fallbackInt(&c.Redis.Port, 6379)

	fallbackDuration(&c.JWT.AccessTokenExpiration, 15*time.Minute)
	fallbackDuration(&c.JWT.RefreshTokenExpiration, 168*time.Hour)
	fallbackString(&c.JWT.Issuer, "gestock-backend")
	fallbackInt(&c.JWT.MaxRefreshCount, 10)

	fallbackInt(&c.Auth.MaxLoginAttempts, 5)
	fallbackDuration(&c.Auth.LockDuration, 15*time.Minute)

	fallbackString(&c.Log.Level, "info")
	fallbackString(&c.Log.Format, "console")
	fallbackString(&c.Log.Output, "stdout")
	fallbackDuration(&c.Log.SlowQueryThreshold, 200*time.Millisecond)

	fallbackDuration(&c.HTTP.ReadTimeout, 15*time.Second)
	fallbackDuration(&c.HTTP.WriteTimeout, 15*time.Second)
	fallbackDuration(&c.HTTP.IdleTimeout, 60*time.Second)
	fallbackInt(&c.HTTP.MaxHeaderBytes, 1<<20)
	if len(c.HTTP.CORSAllowMethods) == 0 {
		c.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(c.HTTP.CORSAllowHeaders) == 0 {
		c.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
}

// validate rejects configurations that would misbehave at runtime, and
// enforces the credentials and TLS rules in production.
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN builds the PostgreSQL connection string. Credentials go through
// url.UserPassword so special characters survive.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
