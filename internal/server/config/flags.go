package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   data directory
//	-s string   session token HMAC secret
//	-t int      session validity, minutes
//	-p string   password scheme (sha256|argon2id)
//	-w string   weather API key
//	-k string   assistant API key
//	-i string   image backend (local|s3)
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-p", "-w", "-k", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.PasswordScheme, "p", config.PasswordScheme, "password scheme: sha256 or argon2id")
	fs.StringVar(&config.WeatherAPIKey, "w", config.WeatherAPIKey, "weather API key")
	fs.StringVar(&config.AssistantAPIKey, "k", config.AssistantAPIKey, "assistant API key")
	fs.StringVar(&config.ImageBackend, "i", config.ImageBackend, "image backend: local or s3")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
