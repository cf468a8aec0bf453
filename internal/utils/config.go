package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	Log    LoggerConfig `yaml:"log" mapstructure:"log"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

// ReportConfig holds inspection report configuration
type ReportConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`
	FailFast bool   `yaml:"fail_fast" mapstructure:"fail_fast"`
}

// ConfigManager handles configuration loading and management
type ConfigManager struct {
	config *Config
	viper  *viper.Viper
	logger *Logger
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config: &Config{},
		viper:  viper.New(),
		logger: NewDefaultLogger(),
	}
}

// LoadConfig loads configuration from file and environment variables
func (c *ConfigManager) LoadConfig(configFile string) error {
	c.setDefaults()

	c.viper.SetConfigType("yaml")
	c.viper.SetEnvPrefix("EXECFMT")
	c.viper.AutomaticEnv()
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		c.viper.SetConfigFile(configFile)
		if err := c.viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			c.logger.WithComponent("config").Warnf("Config file not found: %s", configFile)
		} else {
			c.logger.WithComponent("config").Infof("Loaded config from: %s", c.viper.ConfigFileUsed())
		}
	} else {
		c.viper.SetConfigName("config")
		c.viper.AddConfigPath(".")
		c.viper.AddConfigPath("$HOME/.execfmt")
		c.viper.AddConfigPath("/etc/execfmt")

		if err := c.viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			c.logger.WithComponent("config").Debug("No config file found, using defaults and environment variables")
		} else {
			c.logger.WithComponent("config").Infof("Loaded config from: %s", c.viper.ConfigFileUsed())
		}
	}

	if err := c.viper.Unmarshal(c.config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// setDefaults sets default configuration values
func (c *ConfigManager) setDefaults() {
	c.viper.SetDefault("log_level", "info")
	c.viper.SetDefault("log_format", "text")
	c.viper.SetDefault("output_dir", ".")

	c.viper.SetDefault("log.level", "info")
	c.viper.SetDefault("log.format", "text")

	c.viper.SetDefault("report.format", "text")
	c.viper.SetDefault("report.fail_fast", false)
}

// validateConfig checks the loaded values against their allowed sets
func (c *ConfigManager) validateConfig() error {
	switch c.config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.config.LogLevel)
	}

	switch c.config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.config.LogFormat)
	}

	switch c.config.Report.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown report format: %s", c.config.Report.Format)
	}

	return nil
}

// Config returns the loaded configuration
func (c *ConfigManager) Config() *Config {
	return c.config
}

// LoadConfigFromFile loads configuration from a specific file
func LoadConfigFromFile(path string) (*Config, error) {
	manager := NewConfigManager()
	if err := manager.LoadConfig(path); err != nil {
		return nil, err
	}
	return manager.Config(), nil
}

// LoadDefaultConfig loads configuration from standard locations
func LoadDefaultConfig() (*Config, error) {
	manager := NewConfigManager()
	if err := manager.LoadConfig(""); err != nil {
		return nil, err
	}
	return manager.Config(), nil
}
