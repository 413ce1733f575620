package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Only the database location,
// the signing secret and the token/hashing parameters are required;
// mail, broker, cache and generation settings are optional and the
// matching features degrade when unset.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	AppURL         string // external base URL used in email links
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	SecretKey      string // secret used to sign access and action tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	SMTPHost     string // SMTP relay host (optional)
	SMTPPort     string // SMTP relay port
	SMTPUsername string // SMTP auth username (optional)
	SMTPPassword string // SMTP auth password (optional)
	SMTPFrom     string // From address on outbound mail

	EmailAsync bool // deliver email via the RabbitMQ queue instead of inline

	AIBaseURL string // OpenAI-compatible API base URL (optional)
	AIAPIKey  string // API key for the generation API (optional)
	AIModel   string // model name for the generation API

	HistoryRetentionDays int // prune history older than this at startup (0 = keep forever)
}

// Load reads configuration from the environment, after loading a .env
// file when one is present. Required variables are enforced by must()
// and missing values cause the program to exit with a fatal log
// message.
func Load() Config {
	_ = godotenv.Load() // .env is optional; real env vars win

	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		AppURL:         must("APP_URL"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		SecretKey:      must("SECRET_KEY"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		EmailAsync: getenv("EMAIL_ASYNC", "false") == "true",

		AIBaseURL: os.Getenv("AI_BASE_URL"),
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIModel:   os.Getenv("AI_MODEL"),

		HistoryRetentionDays: atoi(getenv("HISTORY_RETENTION_DAYS", "0")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
