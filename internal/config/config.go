package config // package config loads application configuration from environment variables

import (
	"encoding/hex" // hex decodes the field-encryption key
	"log"          // log reports configuration errors and halts execution
	"os"           // os provides access to environment variables
	"strconv"      // strconv converts strings to other types

	"github.com/joho/godotenv" // godotenv loads a .env file in development
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Secrets stay strings; durations and costs are ints.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign JWTs; absence is fatal
	JWTTTLMin     int    // access token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	EncryptionKey []byte // 32-byte AES key for guest identity fields
	StripeKey     string // payment gateway secret key (optional)
	WhatsAppKey   string // notification provider API key (optional)
	WhatsAppURL   string // notification provider endpoint (optional)
	AMQPURL       string // RabbitMQ URL for booking events (optional)
	SMTPHost      string // SMTP relay for password-reset mail (optional)
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	MailFrom      string
}

// Load reads configuration from the environment. A .env file is honoured when
// present so local development does not need exported variables. Required
// variables are enforced by must() and missing values exit the process.
func Load() Config {
	_ = godotenv.Load() // best effort; production sets real env vars

	return Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		JWTTTLMin:     envInt("JWT_TTL_MIN", 7*24*60), // 7 days
		BcryptCost:    envInt("BCRYPT_COST", 12),
		EncryptionKey: mustKey("ENCRYPTION_KEY"),
		StripeKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WhatsAppKey:   os.Getenv("WHATSAPP_API_KEY"),
		WhatsAppURL:   os.Getenv("WHATSAPP_API_URL"),
		AMQPURL:       os.Getenv("RABBITMQ_URL"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getenv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getenv("MAIL_FROM", "noreply@tour-booking.local"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustKey decodes a required hex-encoded 32-byte key.
func mustKey(key string) []byte {
	raw, err := hex.DecodeString(must(key))
	if err != nil || len(raw) != 32 {
		log.Fatalf("%s must be 64 hex chars (32 bytes)", key)
	}
	return raw
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
