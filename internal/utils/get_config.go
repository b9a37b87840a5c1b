package utils

import (
	"os"
	"strconv"
	"sync"

	"Foodgram-Backend/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort            string `yaml:"APP_PORT"`
	CORSOrigins        string `yaml:"CORS_ORIGINS"`
	RateLimitPerSecond int    `yaml:"RATE_LIMIT_PER_SECOND"`
	LogLevel           string `yaml:"LOG_LEVEL"`
	LogFormat          string `yaml:"LOG_FORMAT"`
	LogFile            string `yaml:"LOG_FILE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// JWT shared with the token issuer
	JWTSecret string `yaml:"JWT_SECRET"`

	// AWS S3 configuration for recipe images
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
}

var (
	config   Config
	configMu sync.RWMutex
)

// LoadConfig reads config.yaml, then .env, then lets the process environment
// override any key that is set there.
func LoadConfig() {
	LoadConfigFrom("config.yaml")
}

func LoadConfigFrom(path string) {
	var cfg Config

	file, err := os.ReadFile(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("error reading YAML file")
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		logging.Error().Err(err).Str("path", path).Msg("error parsing YAML file")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Warn().Err(err).Msg("error loading .env file")
	}

	applyEnv(&cfg)

	configMu.Lock()
	config = cfg
	configMu.Unlock()
}

// SetConfig replaces the loaded configuration.
func SetConfig(cfg Config) {
	configMu.Lock()
	config = cfg
	configMu.Unlock()
}

func applyEnv(cfg *Config) {
	override := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override("APP_PORT", &cfg.AppPort)
	override("CORS_ORIGINS", &cfg.CORSOrigins)
	override("LOG_LEVEL", &cfg.LogLevel)
	override("LOG_FORMAT", &cfg.LogFormat)
	override("LOG_FILE", &cfg.LogFile)
	override("DB_USER", &cfg.DBUser)
	override("DB_NAME", &cfg.DBName)
	override("DB_PASSWORD", &cfg.DBPassword)
	override("DB_PORT", &cfg.DBPort)
	override("DB_HOST", &cfg.DBHost)
	override("DB_SSLMODE", &cfg.DBSSLMode)
	override("JWT_SECRET", &cfg.JWTSecret)
	override("AWS_S3_BUCKET", &cfg.AWSS3Bucket)
	override("AWS_S3_REGION", &cfg.AWSS3Region)
	override("AWS_S3_ENDPOINT", &cfg.AWSS3Endpoint)
	override("AWS_ACCESS_KEY", &cfg.AWSAccessKey)
	override("AWS_SECRET_KEY", &cfg.AWSSecretKey)

	if v := os.Getenv("RATE_LIMIT_PER_SECOND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerSecond = n
		}
	}
}

func GetConfig(key string) string {
	configMu.RLock()
	defer configMu.RUnlock()

	switch key {
	case "APP_PORT":
		if config.AppPort == "" {
			return "8000"
		}
		return config.AppPort
	case "CORS_ORIGINS":
		if config.CORSOrigins == "" {
			return "*"
		}
		return config.CORSOrigins
	case "RATE_LIMIT_PER_SECOND":
		if config.RateLimitPerSecond <= 0 {
			return "10"
		}
		return strconv.Itoa(config.RateLimitPerSecond)
	case "LOG_LEVEL":
		return config.LogLevel
	case "LOG_FORMAT":
		return config.LogFormat
	case "LOG_FILE":
		if config.LogFile == "" {
			return "./logs/app.log"
		}
		return config.LogFile
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		if config.DBSSLMode == "" {
			return "disable"
		}
		return config.DBSSLMode
	case "JWT_SECRET":
		return config.JWTSecret
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}
