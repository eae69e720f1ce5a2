package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Asset storage backends.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Config holds every runtime setting of the service.
type Config struct {
	ServerPort      string
	GinMode         string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DBTimeout       time.Duration
	AssetsDir       string
	AssetStorage    string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	Minio           MinioConfig
}

// MinioConfig is only read when AssetStorage is "minio".
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// SetDefaults registers the default value of every key on v. Keys match the
// environment variable names in lower case.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "3000")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("mongodb_uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb_database", "pokedex")
	v.SetDefault("mongodb_collection", "pokemons")
	v.SetDefault("db_timeout", 5*time.Second)
	v.SetDefault("assets_dir", "assets")
	v.SetDefault("asset_storage", StorageLocal)
	v.SetDefault("max_body_bytes", int64(10<<20))
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "pokemon-assets")
	v.SetDefault("minio_region", "")
}

// NewViper returns a viper instance reading the process environment on top
// of the defaults. A .env file in the working directory is loaded first if present.
func NewViper() *viper.Viper {
	// It's fine for .env to be missing; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: no .env file loaded (%v), relying on environment variables", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:      v.GetString("server_port"),
		GinMode:         v.GetString("gin_mode"),
		MongoURI:        v.GetString("mongodb_uri"),
		MongoDatabase:   v.GetString("mongodb_database"),
		MongoCollection: v.GetString("mongodb_collection"),
		DBTimeout:       v.GetDuration("db_timeout"),
		AssetsDir:       v.GetString("assets_dir"),
		AssetStorage:    strings.ToLower(v.GetString("asset_storage")),
		MaxBodyBytes:    v.GetInt64("max_body_bytes"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		Minio: MinioConfig{
			Endpoint:  v.GetString("minio_endpoint"),
			AccessKey: v.GetString("minio_access_key"),
			SecretKey: v.GetString("minio_secret_key"),
			Bucket:    v.GetString("minio_bucket"),
			Region:    v.GetString("minio_region"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.ServerPort == "":
		return fmt.Errorf("SERVER_PORT must not be empty")
	case c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "":
		return fmt.Errorf("MONGODB_URI, MONGODB_DATABASE, and MONGODB_COLLECTION must be set")
	case c.DBTimeout <= 0:
		return fmt.Errorf("DB_TIMEOUT must be positive, got %s", c.DBTimeout)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}

	switch c.GinMode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("GIN_MODE must be release, debug or test, got %q", c.GinMode)
	}

	switch c.AssetStorage {
	case StorageLocal:
		if c.AssetsDir == "" {
			return fmt.Errorf("ASSETS_DIR must be set for local asset storage")
		}
	case StorageMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" || c.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, and MINIO_BUCKET must be set for minio asset storage")
		}
	default:
		return fmt.Errorf("ASSET_STORAGE must be %q or %q, got %q", StorageLocal, StorageMinio, c.AssetStorage)
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}
