package initializers

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env when present. Variables already set in the
// environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}
}

// Getenv returns the variable or fallback when it is unset or blank.
func Getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetenvList splits a comma separated variable.
func GetenvList(key string, fallback ...string) []string {
	raw := Getenv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
