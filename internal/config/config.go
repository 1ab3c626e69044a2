package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	SiteName   string

	SessionSecret string
	SessionName   string

	GithubClientID     string
	GithubClientSecret string
	GithubCallbackURL  string

	// Local disk upload storage. Paths under UploadDir are served at
	// PublicUploadBase.
	UploadDir        string
	PublicUploadBase string

	// Optional S3-compatible object storage. When all R2_* variables are set
	// uploads go to the bucket instead of local disk.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getenvDefault("DB_SSLMODE", "disable"),

		ServerPort: getenvDefault("SERVER_PORT", "4000"),
		SiteName:   getenvDefault("SITE_NAME", "Spongetube"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionName:   getenvDefault("SESSION_NAME", "spongetube_session"),

		GithubClientID:     os.Getenv("GH_CLIENT"),
		GithubClientSecret: os.Getenv("GH_SECRET"),
		GithubCallbackURL:  os.Getenv("GH_CALLBACK_URL"),

		UploadDir:        getenvDefault("UPLOAD_DIR", "uploads"),
		PublicUploadBase: getenvDefault("PUBLIC_UPLOAD_BASE", "/uploads"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),
	}, nil
}

// UseObjectStorage reports whether uploads should go to the S3-compatible
// bucket rather than local disk.
func (c *Config) UseObjectStorage() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
