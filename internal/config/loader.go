package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches for storectl.yaml/.yml in
// standard locations. The search requires an explicit YAML extension so
// the binary itself (same base name, no extension) is never matched.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file in any standard location. Set name/type without
		// search paths so ReadInConfig returns ConfigFileNotFoundError
		// (handled gracefully by callers).
		viper.SetConfigName("storectl")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: STORECTL_API_BASE_URL etc.
	viper.SetEnvPrefix("STORECTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for storectl.yaml or .yml.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".storectl"),
		"/etc/storectl",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "storectl"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds nested config keys for environment overrides.
// Example: STORECTL_API_BASE_URL overrides api.base_url.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("api.base_url")
	_ = viper.BindEnv("api.timeout")
	_ = viper.BindEnv("api.page_size")
	_ = viper.BindEnv("search.debounce")
	_ = viper.BindEnv("session.path")
	_ = viper.BindEnv("log_level")
}

// LoadConfig reads the configuration file, applies environment overrides
// and defaults, validates, and returns the Config.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults only.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was
// loaded, empty if none was found.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
