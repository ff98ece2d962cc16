package appconfig

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host        string         `yaml:"host"`
	BasePath    string         `yaml:"basePath"`
	Environment string         `yaml:"environment"`
	Database    DatabaseConfig `yaml:"database"`
	Auth        AuthConfig     `yaml:"auth"`
}

// DatabaseConfig defines the database connection details
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// AuthConfig defines the identity provider used to verify bearer tokens.
// Provider is one of "oidc", "insecure" or "none".
type AuthConfig struct {
	Provider             string `yaml:"provider"`
	IssuerURL            string `yaml:"issuerURL"`
	Audience             string `yaml:"audience"`
	VerifyTimeoutSeconds int    `yaml:"verifyTimeoutSeconds"`
}

// VerifyTimeout bounds each call to the identity provider.
func (a AuthConfig) VerifyTimeout() time.Duration {
	if a.VerifyTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.VerifyTimeoutSeconds) * time.Second
}

// IsDevelopment reports whether error details may be included in responses.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads and parses the configuration from a given file path. The
// file is rendered as a template with the process environment first, so
// secrets stay out of the file itself.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		err := errors.New("config file path is required")
		log.Error().Err(err).Msg("config file not provided")
		return nil, err
	}

	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	envVars := loadEnvVars()

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, envVars)
	if err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	return &config, nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
