package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyTheme           = "theme"
	cfgKeyRefreshOnAppend = "refresh_on_append"
	cfgKeyAtomicAppend    = "atomic_append"

	envPrefix = "SURU"
)

const defaultConfigYAML = `# suru configuration

# Storage backend: json, sqlite or memory
backend: json

# Data directory (optional; overridable by --data-dir)
# data_dir:

# classic, neon or mono
theme: classic

# Show an entry as soon as its write completes instead of waiting for the
# next draft change.
refresh_on_append: true

# Use compare-and-swap appends (sqlite and memory backends only).
atomic_append: false
`

// loadConfig reads config.yaml from configDir, writing a default one on
// first run. SURU_BACKEND, SURU_THEME, SURU_REFRESH_ON_APPEND and
// SURU_ATOMIC_APPEND override the file. data_dir is file-only; its env
// override is resolved by the paths package.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, backendJSON)
	v.SetDefault(cfgKeyTheme, "classic")
	v.SetDefault(cfgKeyRefreshOnAppend, true)
	v.SetDefault(cfgKeyAtomicAppend, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, k := range []string{cfgKeyBackend, cfgKeyTheme, cfgKeyRefreshOnAppend, cfgKeyAtomicAppend} {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
