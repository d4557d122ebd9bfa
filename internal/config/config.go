// Package config provides rzen project configuration management.
//
// This package handles reading and writing rzen.yaml files, default value
// resolution, and validation of the deployment target before any remote
// connection is attempted.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file written by `rzen init`.
const DefaultFileName = "rzen.yaml"

// Config represents the rzen.yaml file.
type Config struct {
	// Project contains local project settings.
	Project ProjectConfig `yaml:"project"`

	// Deploy contains remote deployment settings.
	Deploy DeployConfig `yaml:"deploy"`

	// Monitor contains health monitoring settings.
	Monitor MonitorConfig `yaml:"monitor"`
}

// ProjectConfig contains local project settings.
type ProjectConfig struct {
	// Path is the project root, relative to the working directory or absolute.
	Path string `yaml:"path"`

	// Name is the project name, used for the binary and the service unit.
	Name string `yaml:"name"`

	// BuildMode is "debug" or "release".
	BuildMode string `yaml:"build_mode"`

	// BuildCommand overrides the build command run by `rzen build`.
	BuildCommand string `yaml:"build_command,omitempty"`
}

// DeployConfig contains remote deployment settings.
type DeployConfig struct {
	// Host is the target host address.
	Host string `yaml:"host"`

	// User is the SSH username.
	User string `yaml:"user"`

	// KeyPath is the SSH private key path (may use ~). Optional; password
	// auth is used as a fallback.
	KeyPath string `yaml:"key_path,omitempty"`

	// Password is the SSH password. Optional when KeyPath is set.
	Password string `yaml:"password,omitempty"`

	// Path is the remote deployment directory.
	Path string `yaml:"path"`

	// ServiceName overrides the derived systemd unit name.
	ServiceName string `yaml:"service_name,omitempty"`

	// SSHPort is the SSH port.
	SSHPort int `yaml:"ssh_port"`
}

// MonitorConfig contains health monitoring settings.
type MonitorConfig struct {
	// HealthEndpoint is the HTTP(S) health check URL. Optional.
	HealthEndpoint string `yaml:"health_endpoint,omitempty"`

	// LogPath is the remote log file path tailed by `rzen logs`. Optional.
	LogPath string `yaml:"log_path,omitempty"`

	// IntervalSecs is the poll interval for continuous monitoring.
	IntervalSecs int `yaml:"interval_secs"`

	// HealthTimeoutSecs is the HTTP health check timeout.
	HealthTimeoutSecs int `yaml:"health_timeout_secs"`
}

// ConfigurationError reports an invalid or incomplete configuration. It is
// always surfaced before any connection attempt.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// applyDefaults fills zero-valued fields with the documented defaults.
func (c *Config) applyDefaults() {
	if c.Project.Path == "" {
		c.Project.Path = "."
	}
	if c.Project.BuildMode == "" {
		c.Project.BuildMode = "release"
	}
	if c.Deploy.Path == "" {
		c.Deploy.Path = "/opt/rzen-app"
	}
	if c.Deploy.SSHPort == 0 {
		c.Deploy.SSHPort = 22
	}
	if c.Monitor.IntervalSecs == 0 {
		c.Monitor.IntervalSecs = 10
	}
	if c.Monitor.HealthTimeoutSecs == 0 {
		c.Monitor.HealthTimeoutSecs = 5
	}
}

// Validate checks the configuration and returns a *ConfigurationError
// describing the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return &ConfigurationError{Field: "project.name", Reason: "cannot be empty"}
	}
	if c.Project.BuildMode != "debug" && c.Project.BuildMode != "release" {
		return &ConfigurationError{
			Field:  "project.build_mode",
			Reason: fmt.Sprintf("must be 'debug' or 'release', got %q", c.Project.BuildMode),
		}
	}
	if strings.TrimSpace(c.Deploy.Host) == "" {
		return &ConfigurationError{Field: "deploy.host", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(c.Deploy.User) == "" {
		return &ConfigurationError{Field: "deploy.user", Reason: "cannot be empty"}
	}
	if c.Deploy.KeyPath == "" && c.Deploy.Password == "" {
		return &ConfigurationError{
			Field:  "deploy",
			Reason: "either key_path or password must be provided",
		}
	}
	if c.Deploy.KeyPath != "" && strings.TrimSpace(c.Deploy.KeyPath) == "" {
		return &ConfigurationError{Field: "deploy.key_path", Reason: "cannot be blank"}
	}
	if ep := c.Monitor.HealthEndpoint; ep != "" {
		if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
			return &ConfigurationError{
				Field:  "monitor.health_endpoint",
				Reason: "must be an http:// or https:// URL",
			}
		}
	}
	if c.Monitor.IntervalSecs <= 0 {
		return &ConfigurationError{Field: "monitor.interval_secs", Reason: "must be greater than zero"}
	}
	if c.Monitor.HealthTimeoutSecs <= 0 {
		return &ConfigurationError{Field: "monitor.health_timeout_secs", Reason: "must be greater than zero"}
	}
	return nil
}

// BinaryName returns the name of the compiled binary.
func (c *Config) BinaryName() string {
	return c.Project.Name
}

// ServiceName returns the systemd unit name, derived from the project name
// unless deploy.service_name is set.
func (c *Config) ServiceName() string {
	if c.Deploy.ServiceName != "" {
		return c.Deploy.ServiceName
	}
	return c.Project.Name + ".service"
}

// ProjectPath returns the absolute project root.
func (c *Config) ProjectPath() (string, error) {
	if filepath.IsAbs(c.Project.Path) {
		return c.Project.Path, nil
	}
	abs, err := filepath.Abs(c.Project.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path: %w", err)
	}
	return abs, nil
}

// Load reads and validates a configuration file.
//
// Parameters:
//   - path: Path to the rzen.yaml file
//
// Returns:
//   - *Config: The loaded configuration with defaults applied
//   - error: Read, parse, or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault loads the configuration from the first existing default
// location: ./rzen.yaml, ./.rzen.yaml, then ~/.rzen.yaml.
func LoadDefault() (*Config, error) {
	candidates := []string{DefaultFileName, "." + DefaultFileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+DefaultFileName))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return nil, fmt.Errorf("no configuration file found: create %s with 'rzen init' or pass --config", DefaultFileName)
}

// WriteDefault writes a starter configuration to the given path.
//
// Parameters:
//   - path: Destination path (typically rzen.yaml in the project root)
//
// Returns:
//   - error: Any error that occurred during writing
func WriteDefault(path string) error {
	cfg := Config{
		Project: ProjectConfig{
			Path:      ".",
			Name:      "my-app",
			BuildMode: "release",
		},
		Deploy: DeployConfig{
			Host:    "your-vps.example.com",
			User:    "deploy",
			KeyPath: "~/.ssh/id_rsa",
			Path:    "/opt/rzen-app",
			SSHPort: 22,
		},
		Monitor: MonitorConfig{
			HealthEndpoint:    "http://your-vps.example.com:8080/health",
			LogPath:           "/var/log/my-app.log",
			IntervalSecs:      10,
			HealthTimeoutSecs: 5,
		},
	}

	return Write(&cfg, path)
}

// Write marshals a configuration to YAML at the given path.
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# rzen configuration\n# Generated by: rzen init\n\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", path, err)
	}
	return nil
}
