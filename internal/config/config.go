package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment.
type Config struct {
	Port             string
	LogLevel         string
	SeedFile         string
	LocalUserName    string
	LocalUserAvatar  string
	TimestampLayout  string
	EnforceOwnership bool
	AMQPURL          string
	AMQPExchange     string
	OTLPEndpoint     string
	ServiceName      string
	Environment      string
	DebugRoutes      bool
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:             getEnv("PORT", "8083"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SeedFile:         getEnv("SEED_FILE", ""),
		LocalUserName:    getEnv("LOCAL_USER_NAME", "Вы"),
		LocalUserAvatar:  getEnv("LOCAL_USER_AVATAR", "ВЫ"),
		TimestampLayout:  getEnv("TIMESTAMP_LAYOUT", "15:04"),
		EnforceOwnership: getBool("ENFORCE_OWNERSHIP", true),
		AMQPURL:          getEnv("AMQP_URL", ""),
		AMQPExchange:     getEnv("AMQP_EXCHANGE", "chat.events"),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:      getEnv("SERVICE_NAME", "messenger"),
		Environment:      getEnv("APP_ENV", "local"),
		DebugRoutes:      getBool("DEBUG_ROUTES", false),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return parsed
}
