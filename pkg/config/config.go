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
	Auth         AuthConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Catalog      CatalogConfig
	PubSub       PubSubConfig
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
	Env          string `envconfig:"ADMINCONSOLE_APP_ENV" required:"true"`
	Port         string `envconfig:"ADMINCONSOLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ADMINCONSOLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADMINCONSOLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ADMINCONSOLE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ADMINCONSOLE_DB_DSN"`
	Driver string `envconfig:"ADMINCONSOLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ADMINCONSOLE_DB_HOST"`
	LegacyPort     int    `envconfig:"ADMINCONSOLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ADMINCONSOLE_DB_USER"`
	LegacyPassword string `envconfig:"ADMINCONSOLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ADMINCONSOLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ADMINCONSOLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADMINCONSOLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADMINCONSOLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADMINCONSOLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADMINCONSOLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADMINCONSOLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ADMINCONSOLE_REDIS_ADDR"`
	Password     string        `envconfig:"ADMINCONSOLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADMINCONSOLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADMINCONSOLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADMINCONSOLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADMINCONSOLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADMINCONSOLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADMINCONSOLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ADMINCONSOLE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ADMINCONSOLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ADMINCONSOLE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ADMINCONSOLE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AuthConfig holds operator sign-in settings. AllowlistEmails is the
// comma-separated set of operator addresses permitted to use the console;
// when empty, every sign-in is denied.
type AuthConfig struct {
	AllowlistEmails string `envconfig:"ADMINCONSOLE_ALLOWLIST_EMAILS"`
	GoogleClientID  string `envconfig:"ADMINCONSOLE_GOOGLE_CLIENT_ID" required:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ADMINCONSOLE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"ADMINCONSOLE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ADMINCONSOLE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName   string `envconfig:"ADMINCONSOLE_GCS_BUCKET_NAME" required:"true"`
	ObjectPrefix string `envconfig:"ADMINCONSOLE_GCS_OBJECT_PREFIX" default:"products"`
}

type CatalogConfig struct {
	ListLimit   int `envconfig:"ADMINCONSOLE_CATALOG_LIST_LIMIT" default:"100"`
	MaxImages   int `envconfig:"ADMINCONSOLE_CATALOG_MAX_IMAGES" default:"5"`
	MaxUploadMB int `envconfig:"ADMINCONSOLE_CATALOG_MAX_UPLOAD_MB" default:"20"`
}

type PubSubConfig struct {
	ImageDeletionTopic        string `envconfig:"ADMINCONSOLE_PUBSUB_IMAGE_DELETION_TOPIC"`
	ImageDeletionSubscription string `envconfig:"ADMINCONSOLE_PUBSUB_IMAGE_DELETION_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ADMINCONSOLE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADMINCONSOLE_AUTO_MIGRATE" default:"false"`
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
