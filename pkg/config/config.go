package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the engine reads.
	EnvPrefix = "GREENSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "GREENSHOP_APP_ENV"
	EnvDBDSN    = "GREENSHOP_DB_DSN"
	EnvDBHost   = "GREENSHOP_DB_HOST"
	EnvDBUser   = "GREENSHOP_DB_USER"
	EnvDBName   = "GREENSHOP_DB_NAME"
	EnvRedisURL = "GREENSHOP_REDIS_URL"

	EnvGCPProjectID      = "GREENSHOP_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "GREENSHOP_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "GREENSHOP_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubImpactTopic = "GREENSHOP_PUBSUB_IMPACT_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Eventing     EventingConfig
	Outbox       OutboxConfig
	Impact       ImpactConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GREENSHOP_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"GREENSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GREENSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GREENSHOP_SERVICE_KIND" default:"impact-worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"GREENSHOP_DB_DSN"`
	Driver string `envconfig:"GREENSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GREENSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"GREENSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GREENSHOP_DB_USER"`
	LegacyPassword string `envconfig:"GREENSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"GREENSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"GREENSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GREENSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GREENSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GREENSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GREENSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GREENSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GREENSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"GREENSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"GREENSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GREENSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GREENSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GREENSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GREENSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GREENSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GREENSHOP_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"GREENSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GREENSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"GREENSHOP_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"GREENSHOP_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	ImpactTopic        string `envconfig:"GREENSHOP_PUBSUB_IMPACT_TOPIC" default:"gs-impact-events"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"GREENSHOP_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GREENSHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GREENSHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GREENSHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// ImpactConfig carries engine tunables that are deployment choices rather
// than fixed rules of the design.
type ImpactConfig struct {
	ProjectionWindow      int `envconfig:"GREENSHOP_IMPACT_PROJECTION_WINDOW" default:"3"`
	NotificationRetention int `envconfig:"GREENSHOP_IMPACT_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"GREENSHOP_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"GREENSHOP_CRON_LOCK_TTL" default:"25h"`
	// MonthRollover gates registration of the month-rollover job. The
	// accumulator itself never resets current_month_carbon_kg; deployments
	// that want the observed accumulate-forever behavior leave this off.
	MonthRollover bool `envconfig:"GREENSHOP_CRON_MONTH_ROLLOVER" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GREENSHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
