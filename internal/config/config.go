package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	ServerAddress  string
	RedisAddress   string
	RedisUsername  string
	RedisPassword  string
	MQTTBrokerURL  string
}

// Load reads configuration from the environment. A .env file is honored when
// present; missing required variables are an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}
	return &Config{
		DatabaseURL:    dbURL,
		MigrationsPath: migrations,
		JWTSecret:      jwt,
		ServerAddress:  addr,
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
	}, nil
}
