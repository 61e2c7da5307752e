package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	// Payment gateway collaborator (checkout dibuat di sana, kita cuma kirim charge).
	GatewayURL    string
	GatewayAPIKey string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dbUser := envOr("DB_USER", "root")
	dbPass := strings.TrimSpace(os.Getenv("DB_PASS"))
	dbHost := envOr("DB_HOST", "127.0.0.1:3306")
	dbName := envOr("DB_NAME", "driving_school")

	jwtSecret := envOr("JWT_SECRET", "super-secret-key-change-me")

	gatewayURL := strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_URL"))
	gatewayKey := strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_API_KEY"))

	return Env{
		AppAddr:       appAddr,
		GinMode:       ginMode,
		DBUser:        dbUser,
		DBPass:        dbPass,
		DBHost:        dbHost,
		DBName:        dbName,
		JWTSecret:     jwtSecret,
		GatewayURL:    gatewayURL,
		GatewayAPIKey: gatewayKey,
	}
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
