package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	Env       string
	StoreName string
	CacheTTL  time.Duration
}

// IsProduction controla si los envelopes de error incluyen el detalle.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local; en producción las variables
	// vienen del entorno.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("Error loading .env file:", err)
		}
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", ""),
		MongoDB:   getEnv("MONGO_DB", "saheliStore"),
		Env:       getEnv("APP_ENV", "development"),
		StoreName: getEnv("STORE_NAME", "Saheli Store"),
		CacheTTL:  time.Duration(getEnvInt("CACHE_TTL_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
