// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/image-stats/internal/imaging"
	"github.com/ironsheep/image-stats/internal/stats"
	"github.com/joho/godotenv"
)

type Config struct {
	Host     string
	Port     string
	LogLevel string

	// Pipeline settings
	AveragingMethod     imaging.Method
	MaxProcessDimension int
	ResampleFilter      string

	// Workers bounds how many images a batch request processes at once.
	Workers            int
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64
	MaxImageBytes      int64
	AllowOrigins       []string

	AzureStorageAccount string
	AzureStorageKey     string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// StatsOptions returns the pipeline options described by c.
func (c *Config) StatsOptions() stats.Options {
	return stats.Options{
		Method:       c.AveragingMethod,
		MaxDimension: c.MaxProcessDimension,
		Filter:       c.ResampleFilter,
	}
}

// BlobStorageEnabled reports whether Azure credentials were supplied.
func (c *Config) BlobStorageEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

// Load reads a .env file from the working directory if there is one, then
// builds the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8001"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		AveragingMethod:     imaging.ParseMethod(strings.ToLower(getEnvOrDefault("AVERAGING_METHOD", string(imaging.Arithmetic)))),
		MaxProcessDimension: int(parseIntOrDefault("MAX_PROCESS_DIMENSION", imaging.DefaultMaxDimension)),
		ResampleFilter:      strings.ToLower(getEnvOrDefault("RESAMPLE_FILTER", imaging.DefaultFilter)),
		Workers:             int(parseIntOrDefault("NUM_API_SERVERS", 1)),
		RequestTimeout:      parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:   parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize:  parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB
		MaxImageBytes:       parseIntOrDefault("MAX_IMAGE_BYTES", 20*1024*1024),       // 20MB
		AllowOrigins:        parseListOrDefault("ALLOW_ORIGINS", []string{"*"}),
		AzureStorageAccount: strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureStorageKey:     strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxProcessDimension <= 0 {
		return fmt.Errorf("MAX_PROCESS_DIMENSION must be > 0 (got %d)", c.MaxProcessDimension)
	}
	if !imaging.ValidFilter(c.ResampleFilter) {
		return fmt.Errorf("invalid RESAMPLE_FILTER %q (want one of %s)",
			c.ResampleFilter, strings.Join(imaging.FilterNames(), ", "))
	}
	if c.Workers < 1 {
		return fmt.Errorf("NUM_API_SERVERS must be >= 1 (got %d)", c.Workers)
	}
	if c.MaxRequestBodySize <= 0 || c.MaxImageBytes <= 0 {
		return fmt.Errorf("size limits must be > 0 (got body=%d, image=%d)", c.MaxRequestBodySize, c.MaxImageBytes)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)", c.RequestTimeout, c.ImageFetchTimeout)
	}
	for _, origin := range c.AllowOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid ALLOW_ORIGINS entry %q", origin)
		}
	}
	if (c.AzureStorageAccount == "") != (c.AzureStorageKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
