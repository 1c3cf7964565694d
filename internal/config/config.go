package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Identity resolution modes. Exactly one is active per deployment.
const (
	AuthModeToken  = "token"  // Authorization: Bearer <jwt>, verified
	AuthModeHeader = "header" // trusted x-user-id header, dev/testing only
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Seed     SeedConfig     `mapstructure:"seed"`
	S3       S3Config       `mapstructure:"s3"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// AllowedOrigins is a comma separated list of CORS origins.
	// Empty means allow all (local development).
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

func (s ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// AuthConfig selects the identity resolution strategy.
type AuthConfig struct {
	Mode      string `mapstructure:"mode"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// SeedConfig gates the demo-data seeder. AdminKeyHash is a bcrypt hash of
// the key that must accompany reseed requests when seeding is otherwise
// disabled (i.e. production).
type SeedConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	AdminKeyHash string `mapstructure:"admin_key_hash"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. auth.jwt_secret -> AUTH_JWT_SECRET.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.allowed_origins", "")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "workout_tracker")
	viper.SetDefault("auth.mode", AuthModeToken)
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("seed.enabled", false)
	viper.SetDefault("seed.admin_key_hash", "")
	viper.SetDefault("s3.region", "us-east-1")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; env vars and defaults may be enough.
		err = nil
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if err = config.validate(); err != nil {
		return
	}
	return config, nil
}

func (c Config) validate() error {
	switch c.Auth.Mode {
	case AuthModeToken:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when auth.mode is %q", AuthModeToken)
		}
	case AuthModeHeader:
		// Trusted header mode needs no secret. It is not a security
		// boundary; keep it to development and test deployments.
	default:
		return fmt.Errorf("unknown auth.mode %q (want %q or %q)", c.Auth.Mode, AuthModeToken, AuthModeHeader)
	}
	return nil
}
