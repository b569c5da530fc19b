package config

// EnvPrefix is passed to envconfig; explicit envconfig tags carry the full
// variable names, so the prefix only matters for untagged fields.
const EnvPrefix = "ADMINCONSOLE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "ADMINCONSOLE_APP_ENV"
	EnvPort     = "ADMINCONSOLE_APP_PORT"
	EnvLogLevel = "ADMINCONSOLE_LOG_LEVEL"

	EnvDBDSN  = "ADMINCONSOLE_DB_DSN"
	EnvDBHost = "ADMINCONSOLE_DB_HOST"
	EnvDBUser = "ADMINCONSOLE_DB_USER"
	EnvDBName = "ADMINCONSOLE_DB_NAME"

	EnvRedisURL = "ADMINCONSOLE_REDIS_URL"

	EnvJWTSecret              = "ADMINCONSOLE_JWT_SECRET"
	EnvJWTIssuer              = "ADMINCONSOLE_JWT_ISSUER"
	EnvJWTExpMins             = "ADMINCONSOLE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ADMINCONSOLE_REFRESH_TOKEN_TTL_MINUTES"

	EnvAllowlistEmails = "ADMINCONSOLE_ALLOWLIST_EMAILS"
	EnvGoogleClientID  = "ADMINCONSOLE_GOOGLE_CLIENT_ID"

	EnvGCPProjectID = "ADMINCONSOLE_GCP_PROJECT_ID"
	EnvGCSBucket    = "ADMINCONSOLE_GCS_BUCKET_NAME"

	EnvPubSubImageDeletionTopic = "ADMINCONSOLE_PUBSUB_IMAGE_DELETION_TOPIC"
	EnvPubSubImageDeletionSub   = "ADMINCONSOLE_PUBSUB_IMAGE_DELETION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
