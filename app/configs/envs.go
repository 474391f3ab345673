package configs

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ENV is the storefront's process configuration. Values come from the
// environment, optionally seeded from a .env file.
type ENV struct {
	Port        string `envconfig:"APP_PORT" default:":8080"`
	APIBaseURL  string `envconfig:"API_BASE_URL" required:"true"`
	APIKey      string `envconfig:"API_KEY"`
	StoragePath string `envconfig:"STORAGE_PATH" default:"storefront.db"`
	AppAuthKey  string `envconfig:"APP_AUTH_KEY"`
	AppEncKey   string `envconfig:"APP_ENC_KEY"`
	CSRFSecure  bool   `envconfig:"CSRF_SECURE" default:"false"`
}

func LoadEnv() (*ENV, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found")
	}

	var env ENV
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return &env, nil
}
