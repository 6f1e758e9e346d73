package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Data modes.
const (
	DataModeUser = "user"
	DataModeSeed = "seed"
)

// AI providers.
const (
	AIProviderDisabled = "disabled"
	AIProviderGemini   = "gemini"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Data  DataConfig        `yaml:"data"`
	Index IndexConfig       `yaml:"index"`
	Auth  AuthConfig        `yaml:"auth"`
	AI    AIConfig          `yaml:"ai"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.AI.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig holds the tracker data directory and data mode.
//
// Mode controls which records the application reads:
//   - "user" (default): the user's own records under Dir.
//   - "seed": static sample records under SeedDir; all mutations are rejected.
type DataConfig struct {
	Dir     string `yaml:"dir"`
	Mode    string `yaml:"mode"`
	SeedDir string `yaml:"seed_dir"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = DataModeUser
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Mode, validation.Required, validation.In(DataModeUser, DataModeSeed)),
	); err != nil {
		return err
	}
	if c.Mode == DataModeSeed && c.SeedDir == "" {
		return fmt.Errorf("data: mode is %q but seed_dir is empty", DataModeSeed)
	}
	return nil
}

// ActiveDir returns the directory records are read from in the current mode.
func (c *DataConfig) ActiveDir() string {
	if c.Mode == DataModeSeed {
		return c.SeedDir
	}
	return c.Dir
}

// IndexConfig holds the SQLite search index configuration.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AIConfig holds generative-model provider configuration.
//
// With Provider "disabled" every AI flow returns its deterministic local
// fallback; "gemini" requires a non-empty APIKey.
type AIConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	if c.Provider == "" {
		c.Provider = AIProviderDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(AIProviderDisabled, AIProviderGemini)),
	); err != nil {
		return err
	}
	if c.Provider == AIProviderGemini && c.APIKey == "" {
		return fmt.Errorf("ai: provider is %q but api_key is empty", AIProviderGemini)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			Dir:  "./data",
			Mode: DataModeUser,
		},
		Index: IndexConfig{
			Path: "./eunoia.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		AI: AIConfig{
			Provider: AIProviderDisabled,
			Model:    "gemini-2.5-flash",
		},
	}
}
