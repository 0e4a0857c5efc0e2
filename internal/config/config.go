package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port            string
	Env             string
	ReadOnly        bool
	MongoURI        string
	DBName          string
	TokenSecret     string
	StripeSecretKey string
	CORSOrigins     []string
	Minio           MinioConfig
}

// MinioConfig configures the listing image bucket. An empty Endpoint disables it.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether object storage was configured.
func (m MinioConfig) Enabled() bool { return m.Endpoint != "" }

// IsProduction reports whether APP_ENV selects the production logger.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads a .env file if one exists and builds the Config from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:            get("PORT", "5000"),
		Env:             get("APP_ENV", "development"),
		ReadOnly:        parseBool(getenv("READ_ONLY")),
		DBName:          get("DB_NAME", "scholarship"),
		TokenSecret:     getenv("ACCESS_TOKEN_SECRET"),
		StripeSecretKey: getenv("STRIPE_SECRET_KEY"),
		CORSOrigins:     splitList(get("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		Minio: MinioConfig{
			Endpoint:  getenv("MINIO_ENDPOINT"),
			AccessKey: get("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: get("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    get("MINIO_BUCKET", "scholarship-images"),
			UseSSL:    parseBool(getenv("MINIO_USE_SSL")),
		},
	}

	cfg.MongoURI = getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		user, pass := getenv("DB_USER"), getenv("DB_PASS")
		if user == "" || pass == "" {
			return Config{}, fmt.Errorf("config: MONGO_URI or DB_USER/DB_PASS must be set")
		}
		cfg.MongoURI = fmt.Sprintf(
			"mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
			url.QueryEscape(user), url.QueryEscape(pass), get("DB_HOST", "cluster0.32bwvbv.mongodb.net"),
		)
	}

	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("config: ACCESS_TOKEN_SECRET must be set")
	}
	if cfg.StripeSecretKey == "" && !cfg.ReadOnly {
		return Config{}, fmt.Errorf("config: STRIPE_SECRET_KEY must be set")
	}
	return cfg, nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
