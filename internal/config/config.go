package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	// External identity provider. When IdentityJWTSecret is set the
	// bearer token is verified locally instead of calling VerifyURL.
	IdentityVerifyURL  string
	IdentityProfileURL string
	IdentityJWTSecret  []byte

	PushURL       string
	PushServerKey string

	StorageURL string

	ESURL      string
	ESUser     string
	ESPassword string

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not found, using system environment: %v", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "foodline"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		IdentityVerifyURL:  os.Getenv("IDENTITY_VERIFY_URL"),
		IdentityProfileURL: os.Getenv("IDENTITY_PROFILE_URL"),
		IdentityJWTSecret:  []byte(os.Getenv("IDENTITY_JWT_SECRET")),

		PushURL:       os.Getenv("PUSH_URL"),
		PushServerKey: os.Getenv("PUSH_SERVER_KEY"),

		StorageURL: os.Getenv("STORAGE_URL"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "foodline_events"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
