package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cropcare/internal/flagx"
	"github.com/dmitrijs2005/cropcare/internal/timex"
)

// JsonConfig is the DTO used only for reading the JSON config file. Duration
// fields use timex.Duration so they accept "8s" as well as nanoseconds.
// Zero values mean "not set" and leave the defaults in place.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	DataDir                 string         `json:"data_dir"`
	UserFile                string         `json:"user_file"`
	ForumFile               string         `json:"forum_file"`
	ImageDir                string         `json:"image_dir"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	PasswordScheme          string         `json:"password_scheme"`
	LogLevel                string         `json:"log_level"`

	WeatherAPIKey     string         `json:"weather_api_key"`
	WeatherBaseURL    string         `json:"weather_base_url"`
	GeoURL            string         `json:"geo_url"`
	AssistantAPIKey   string         `json:"assistant_api_key"`
	AssistantBaseURL  string         `json:"assistant_base_url"`
	AssistantModel    string         `json:"assistant_model"`
	ExternalTimeout   timex.Duration `json:"external_timeout"`
	GeoTimeout        timex.Duration `json:"geo_timeout"`
	AssistantTimeout  timex.Duration `json:"assistant_timeout"`
	MaxUploadSizeByte int64          `json:"max_upload_size_bytes"`

	ImageBackend   string `json:"image_backend"`
	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config (if any) and overlays every
// non-empty field onto config. Unreadable or invalid JSON panics: a config
// file the operator asked for must not be silently ignored.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DataDir, c.DataDir)
	setString(&config.UserFile, c.UserFile)
	setString(&config.ForumFile, c.ForumFile)
	setString(&config.ImageDir, c.ImageDir)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordScheme, c.PasswordScheme)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.WeatherAPIKey, c.WeatherAPIKey)
	setString(&config.WeatherBaseURL, c.WeatherBaseURL)
	setString(&config.GeoURL, c.GeoURL)
	setString(&config.AssistantAPIKey, c.AssistantAPIKey)
	setString(&config.AssistantBaseURL, c.AssistantBaseURL)
	setString(&config.AssistantModel, c.AssistantModel)
	setString(&config.ImageBackend, c.ImageBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.SessionValidityDuration.Duration > 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.ExternalTimeout.Duration > 0 {
		config.ExternalTimeout = c.ExternalTimeout.Duration
	}
	if c.GeoTimeout.Duration > 0 {
		config.GeoTimeout = c.GeoTimeout.Duration
	}
	if c.AssistantTimeout.Duration > 0 {
		config.AssistantTimeout = c.AssistantTimeout.Duration
	}
	if c.MaxUploadSizeByte > 0 {
		config.MaxUploadSizeByte = c.MaxUploadSizeByte
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
