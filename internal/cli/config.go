package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
}

func ensureDir(p string) error { return os.MkdirAll(p, 0o755) }

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".authzee"), nil
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server_url", "http://localhost:8085")

	// Env overrides: AUTHZEE_SERVER_URL, etc.
	v.SetEnvPrefix("AUTHZEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Read file if it exists, otherwise return defaults without error.
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func saveConfig(path string, c *Config) error {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("server_url", c.ServerURL)

	if err := v.WriteConfigAs(path); err != nil {
		return err
	}

	_ = os.Chmod(path, 0o600)
	return nil
}
