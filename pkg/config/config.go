package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Square       SquareConfig
	Outbox       OutboxConfig
	Reconciler   ReconcilerConfig
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
	Env          string `envconfig:"TRIPLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"TRIPLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRIPLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRIPLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TRIPLINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TRIPLINE_DB_DSN"`
	Driver string `envconfig:"TRIPLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRIPLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"TRIPLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRIPLINE_DB_USER"`
	LegacyPassword string `envconfig:"TRIPLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRIPLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRIPLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRIPLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRIPLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRIPLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRIPLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRIPLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRIPLINE_REDIS_ADDR"`
	Password     string        `envconfig:"TRIPLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRIPLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRIPLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRIPLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRIPLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRIPLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRIPLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TRIPLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRIPLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TRIPLINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TRIPLINE_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	WebhookIdempotencyTTL time.Duration `envconfig:"TRIPLINE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
	EventIdempotencyTTL   time.Duration `envconfig:"TRIPLINE_EVENTING_EVENT_IDEMPOTENCY_TTL" default:"168h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TRIPLINE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"TRIPLINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TRIPLINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	BookingTopic             string `envconfig:"TRIPLINE_PUBSUB_BOOKING_TOPIC" default:"tl-booking-events"`
	RatingTopic              string `envconfig:"TRIPLINE_PUBSUB_RATING_TOPIC" default:"tl-rating-events"`
	NotificationTopic        string `envconfig:"TRIPLINE_PUBSUB_NOTIFICATION_TOPIC" default:"tl-notification-events"`
	RatingSubscription       string `envconfig:"TRIPLINE_PUBSUB_RATING_SUBSCRIPTION"`
	NotificationSubscription string `envconfig:"TRIPLINE_PUBSUB_NOTIFICATION_SUBSCRIPTION"`
}

type SquareConfig struct {
	AccessToken   string        `envconfig:"TRIPLINE_SQUARE_ACCESS_TOKEN"`
	WebhookSecret string        `envconfig:"TRIPLINE_SQUARE_WEBHOOK_SECRET"`
	LocationID    string        `envconfig:"TRIPLINE_SQUARE_LOCATION_ID"`
	Env           string        `envconfig:"TRIPLINE_SQUARE_ENV" default:"sandbox"`
	CallTimeout   time.Duration `envconfig:"TRIPLINE_SQUARE_CALL_TIMEOUT" default:"20s"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TRIPLINE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TRIPLINE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TRIPLINE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type ReconcilerConfig struct {
	PollInterval       time.Duration `envconfig:"TRIPLINE_RECONCILER_POLL_INTERVAL" default:"30s"`
	WebhookRetryWindow time.Duration `envconfig:"TRIPLINE_RECONCILER_WEBHOOK_RETRY_WINDOW" default:"1h"`
	WebhookMaxAttempts int           `envconfig:"TRIPLINE_RECONCILER_WEBHOOK_MAX_ATTEMPTS" default:"20"`
	BatchSize          int           `envconfig:"TRIPLINE_RECONCILER_BATCH_SIZE" default:"100"`
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
