package config

import (
	"os"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Government fuel price feed (NSW FuelCheck style)
	FuelAPIURL string
	FuelAPIKey string

	// Shared secret required on the refresh trigger endpoint
	RefreshKey string
}

func Load() *Config {
	// Default MySQL connection string for local development
	defaultDSN := "root:fuel@tcp(127.0.0.1:3306)/fuel_tracker?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FuelAPIURL: getEnv("FUEL_API_URL", "https://api.onegov.nsw.gov.au/FuelPriceCheck/v2/fuel/prices"),
		FuelAPIKey: getEnv("FUEL_API_KEY", ""),

		RefreshKey: getEnv("REFRESH_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
