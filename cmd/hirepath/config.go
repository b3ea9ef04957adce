package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	session "github.com/hirepath/go-session"
)

// loadConfig builds the SDK config from an optional YAML file and the
// HIREPATH_* environment, env winning over file values.
func loadConfig() (session.SimpleConfig, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return session.SimpleConfig{}, err
	}
	configDir := filepath.Join(home, ".hirepath")

	v.SetEnvPrefix("HIREPATH")
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://localhost:5000/api")
	v.SetDefault("request_timeout", 15)
	v.SetDefault("poll_interval", 10)
	v.SetDefault("storage_path", filepath.Join(configDir, "session.db"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return session.SimpleConfig{}, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		_ = v.ReadInConfig() // missing file is fine
	}

	return session.SimpleConfig{
		BaseURL:        v.GetString("base_url"),
		RequestTimeout: v.GetInt("request_timeout"),
		PollInterval:   v.GetInt("poll_interval"),
		StoragePath:    v.GetString("storage_path"),
	}, nil
}
