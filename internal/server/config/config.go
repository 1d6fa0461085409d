// Package config handles configuration for the CropCare server,
// including defaults, JSON overlay, environment overrides and command-line
// flags.
package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/flagx"
)

// Environment variables that override provider keys so they can stay out of
// config files.
const (
	EnvWeatherAPIKey   = "CROPCARE_WEATHER_API_KEY"
	EnvAssistantAPIKey = "CROPCARE_ASSISTANT_API_KEY"
)

// Config holds runtime settings for the CropCare server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the JSON API.
//   - DataDir: base directory for UserFile, ForumFile and ImageDir when they are relative.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use the default in prod.
//   - SessionValidityDuration: how long a session lives without logout.
//   - PasswordScheme: "sha256" (default, legacy compatible) or "argon2id".
//   - Weather*/Geo*/Assistant*: external collaborator endpoints and keys.
//   - ExternalTimeout: per-call timeout for weather and assistant calls; GeoTimeout for geolocation.
//   - ImageBackend: "local" or "s3"; the S3* fields configure the latter.
type Config struct {
	EndpointAddrHTTP        string
	DataDir                 string
	UserFile                string
	ForumFile               string
	ImageDir                string
	SecretKey               string
	SessionValidityDuration time.Duration
	PasswordScheme          string
	LogLevel                string

	WeatherAPIKey     string
	WeatherBaseURL    string
	GeoURL            string
	AssistantAPIKey   string
	AssistantBaseURL  string
	AssistantModel    string
	ExternalTimeout   time.Duration
	GeoTimeout        time.Duration
	AssistantTimeout  time.Duration
	MaxUploadSizeByte int64

	ImageBackend   string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials are insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DataDir = "data"
	c.UserFile = "users.json"
	c.ForumFile = "forum.json"
	c.ImageDir = "forum_images"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 12 * time.Hour
	c.PasswordScheme = "sha256"
	c.LogLevel = "info"

	c.WeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	c.GeoURL = "https://ipinfo.io"
	c.AssistantBaseURL = "https://api.groq.com/openai/v1"
	c.AssistantModel = "llama3-8b-8192"
	c.ExternalTimeout = 8 * time.Second
	c.GeoTimeout = 6 * time.Second
	c.AssistantTimeout = 60 * time.Second
	c.MaxUploadSizeByte = 10 << 20

	c.ImageBackend = "local"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "cropcare"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, then environment variables and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(c *Config) {
	c.WeatherAPIKey = flagx.EnvOr(EnvWeatherAPIKey, c.WeatherAPIKey)
	c.AssistantAPIKey = flagx.EnvOr(EnvAssistantAPIKey, c.AssistantAPIKey)
}

// UserFilePath is the user document location, resolved against DataDir.
func (c *Config) UserFilePath() string { return c.inDataDir(c.UserFile) }

// ForumFilePath is the forum document location, resolved against DataDir.
func (c *Config) ForumFilePath() string { return c.inDataDir(c.ForumFile) }

// ImageDirPath is the local image directory, resolved against DataDir.
func (c *Config) ImageDirPath() string { return c.inDataDir(c.ImageDir) }

func (c *Config) inDataDir(p string) string {
	if filepath.IsAbs(p) || c.DataDir == "" {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
