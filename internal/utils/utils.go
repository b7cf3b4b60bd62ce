package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env (if present) and returns the required variables,
// failing on the first one that is missing
func LoadEnv(requiredVars []string) (map[string]string, error) {
	_ = godotenv.Load()

	envVars := make(map[string]string)

	for _, key := range requiredVars {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		envVars[key] = value
	}

	return envVars, nil
}

// OptionalEnv is LoadEnv without the requirement; unset variables are left out
func OptionalEnv(vars []string) map[string]string {
	_ = godotenv.Load()

	envVars := make(map[string]string)
	for _, key := range vars {
		if value := os.Getenv(key); value != "" {
			envVars[key] = value
		}
	}
	return envVars
}

func ConvertToBrasiliaTime(t time.Time) string {
	brasiliaLocation := time.FixedZone("Brasilia Time", -3*60*60)
	return t.In(brasiliaLocation).Format("02/01/2006 15:04")
}
