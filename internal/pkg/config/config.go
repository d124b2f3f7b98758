package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"media-library/pkg/constants"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Upload     UploadConfig
	Queue      QueueConfig
	Conversion ConversionConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StorageConfig struct {
	Disk  string // "local" | "s3"
	Local LocalDiskConfig
	S3    S3DiskConfig
}

type LocalDiskConfig struct {
	Root    string
	BaseURL string
}

type S3DiskConfig struct {
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	RootPrefix string
	PublicURL  string
	PathStyle  bool
}

type UploadConfig struct {
	MaxFileSize    int64 // bytes, 0 disables the ceiling
	AllowedMime    []string
	ForbiddenMime  []string
	NamingStrategy string // "random" | "original" | "uuid"
	PathStrategy   string // "default" | "date" | "flat"
}

type QueueConfig struct {
	Driver    string // "memory" | "redis"
	RedisHost string
	RedisPort string
	Workers   int
}

type ConversionConfig struct {
	Quality         int
	TemporaryURLTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnv("SERVER_PORT", "3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "media_library"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Disk: getEnv("STORAGE_DISK", "local"),
			Local: LocalDiskConfig{
				Root:    getEnv("LOCAL_STORAGE_ROOT", "storage/media"),
				BaseURL: getEnv("LOCAL_STORAGE_BASE_URL", "http://localhost:3000/media"),
			},
			S3: S3DiskConfig{
				Bucket:     getEnv("S3_BUCKET", ""),
				Region:     getEnv("S3_REGION", "us-east-1"),
				Endpoint:   getEnv("S3_ENDPOINT", ""),
				AccessKey:  getEnv("S3_ACCESS_KEY", ""),
				SecretKey:  getEnv("S3_SECRET_KEY", ""),
				RootPrefix: getEnv("S3_ROOT_PREFIX", ""),
				PublicURL:  getEnv("S3_PUBLIC_URL", ""),
				PathStyle:  getEnvAsBool("S3_PATH_STYLE", false),
			},
		},
		Upload: UploadConfig{
			MaxFileSize:    getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 100*1024*1024), // 100MB
			AllowedMime:    getEnvAsSlice("UPLOAD_ALLOWED_MIME", nil),
			ForbiddenMime:  getEnvAsSlice("UPLOAD_FORBIDDEN_MIME", nil),
			NamingStrategy: getEnv("NAMING_STRATEGY", "random"),
			PathStrategy:   getEnv("PATH_STRATEGY", "default"),
		},
		Queue: QueueConfig{
			Driver:    getEnv("QUEUE_DRIVER", "memory"),
			RedisHost: getEnv("REDIS_HOST", "localhost"),
			RedisPort: getEnv("REDIS_PORT", "6379"),
			Workers:   getEnvAsInt("QUEUE_WORKERS", 4),
		},
		Conversion: ConversionConfig{
			Quality:         getEnvAsInt("CONVERSION_QUALITY", constants.DefaultQuality),
			TemporaryURLTTL: time.Duration(getEnvAsInt64("TEMPORARY_URL_TTL_SECONDS", 3600)) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
