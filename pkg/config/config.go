package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	Service    ServiceConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	FourSeller FourSellerConfig
	Scheduler  SchedulerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MTS_APP_ENV" required:"true"`
	Port         string `envconfig:"MTS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MTS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MTS_DB_DSN"`
	Driver string `envconfig:"MTS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MTS_DB_HOST"`
	Port     int    `envconfig:"MTS_DB_PORT" default:"5432"`
	User     string `envconfig:"MTS_DB_USER"`
	Password string `envconfig:"MTS_DB_PASSWORD"`
	Name     string `envconfig:"MTS_DB_NAME"`
	SSLMode  string `envconfig:"MTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"MTS_AUTO_MIGRATE" default:"false"`
	UseSQLite   bool `envconfig:"MTS_USE_SQLITE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MTS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MTS_REDIS_ADDR"`
	Password     string        `envconfig:"MTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MTS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MTS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MTS_JWT_ISSUER" default:"midastechnical"`
	ExpirationMinutes int    `envconfig:"MTS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// FourSellerConfig holds the marketplace API credentials and tuning knobs.
type FourSellerConfig struct {
	BaseURL       string        `envconfig:"MTS_FOURSELLER_API_URL" default:"https://api.4seller.com/v1"`
	APIKey        string        `envconfig:"MTS_FOURSELLER_API_KEY"`
	SellerID      string        `envconfig:"MTS_FOURSELLER_SELLER_ID"`
	Timeout       time.Duration `envconfig:"MTS_FOURSELLER_TIMEOUT" default:"30s"`
	RetryAttempts int           `envconfig:"MTS_FOURSELLER_RETRY_ATTEMPTS" default:"3"`
	RetryBaseWait time.Duration `envconfig:"MTS_FOURSELLER_RETRY_BASE_WAIT" default:"1s"`
	RetryMaxWait  time.Duration `envconfig:"MTS_FOURSELLER_RETRY_MAX_WAIT" default:"30s"`
}

type SchedulerConfig struct {
	LockTTL      time.Duration `envconfig:"MTS_SCHEDULER_LOCK_TTL" default:"1h"`
	ReloadEvery  time.Duration `envconfig:"MTS_SCHEDULER_RELOAD_EVERY" default:"5m"`
	OrdersBatch  int           `envconfig:"MTS_SCHEDULER_ORDERS_BATCH" default:"100"`
	BackupMarker string        `envconfig:"MTS_SCHEDULER_BACKUP_MARKER" default:"daily"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.UseSQLite {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
