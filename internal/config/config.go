package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RefreshTokenDur   time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	// Web push (VAPID) credentials for the delivery backend.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string

	// Shared secret for server-to-server trigger endpoints (external cron).
	NotifySharedSecret string

	// Invite gate: the free-text secret and the pre-provisioned shared
	// account credentials issued on a successful answer.
	InviteSecret   string
	InviteEmail    string
	InvitePassword string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Sessions      string
	Workspaces    string
	Photos        string
	Messages      string
	Reactions     string
	Reasons       string
	Notifications string
	Subscriptions string
	Preferences   string
	MusicTokens   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Workspaces:    getEnv("DYNAMO_TABLE_WORKSPACES", "workspaces"),
			Photos:        getEnv("DYNAMO_TABLE_PHOTOS", "photos"),
			Messages:      getEnv("DYNAMO_TABLE_MESSAGES", "messages"),
			Reactions:     getEnv("DYNAMO_TABLE_REACTIONS", "reactions"),
			Reasons:       getEnv("DYNAMO_TABLE_REASONS", "reasons"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Subscriptions: getEnv("DYNAMO_TABLE_PUSH_SUBSCRIPTIONS", "push_subscriptions"),
			Preferences:   getEnv("DYNAMO_TABLE_NOTIFICATION_PREFERENCES", "notification_preferences"),
			MusicTokens:   getEnv("DYNAMO_TABLE_MUSIC_TOKENS", "music_tokens"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "sindoca-photos"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		RefreshTokenDur:   time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@sindoca.app"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: getEnv("VAPID_SUBSCRIBER", "noreply@sindoca.app"),

		NotifySharedSecret: getEnv("NOTIFY_SHARED_SECRET", ""),

		InviteSecret:   getEnv("INVITE_SECRET", ""),
		InviteEmail:    getEnv("INVITE_EMAIL", ""),
		InvitePassword: getEnv("INVITE_PASSWORD", ""),

		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRedirectURL:  getEnv("SPOTIFY_REDIRECT_URL", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
