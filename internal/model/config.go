package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the IMAP account settings consumed at session
// construction time. The password is deliberately not part of the
// config file; it is resolved from the environment or the OS keyring.
type Config struct {
	// Host is the IMAP server hostname.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the IMAP server port.
	Port string `mapstructure:"port" yaml:"port"`

	// TLS selects implicit TLS when true, STARTTLS otherwise.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// Username is the account identity used for LOGIN.
	Username string `mapstructure:"username" yaml:"username"`

	// Folder is the mailbox opened when no folder is given explicitly.
	Folder string `mapstructure:"folder" yaml:"folder"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/mailbox/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailbox", "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		Port:   "993",
		TLS:    true,
		Folder: "INBOX",
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default
// configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("port", "993")
	v.SetDefault("tls", true)
	v.SetDefault("folder", "INBOX")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Folder == "" {
		cfg.Folder = "INBOX"
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("host", cfg.Host)
	v.Set("port", cfg.Port)
	v.Set("tls", cfg.TLS)
	v.Set("username", cfg.Username)
	v.Set("folder", cfg.Folder)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
