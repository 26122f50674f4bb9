package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/surajverma/pi-dash/internal/model"
)

// instanceConfig is one source entry from the config file, shared shape
// with pidashd. Enabled is a pointer so an omitted key means enabled.
type instanceConfig struct {
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Enabled  *bool  `mapstructure:"enabled"`
	Link     bool   `mapstructure:"link"`
}

// cliConfig holds only TUI-relevant configuration. The same config.yaml
// drives both binaries; the daemon-only keys are simply ignored here.
type cliConfig struct {
	Piholes        []instanceConfig `mapstructure:"piholes"`
	RefreshMillis  int              `mapstructure:"refresh_interval"`
	ShowQueries    bool             `mapstructure:"show_queries"`
	LogCapacity    int              `mapstructure:"query_log_capacity"`
	QueryLength    int              `mapstructure:"query_length"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	Via            string           `mapstructure:"via"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PIDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("refresh_interval", 5000)
	v.SetDefault("show_queries", true)
	v.SetDefault("query_log_capacity", model.DefaultLogCapacity)
	v.SetDefault("query_length", model.DefaultQueryLength)
	v.SetDefault("request_timeout", model.DefaultRequestTimeout)
	v.SetDefault("via", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", "pidash"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.RefreshMillis <= 0 {
		return cfg, fmt.Errorf("invalid refresh_interval: %d", cfg.RefreshMillis)
	}
	for i, p := range cfg.Piholes {
		if p.Name == "" {
			return cfg, fmt.Errorf("piholes[%d]: name is required", i)
		}
		if p.Address == "" {
			return cfg, fmt.Errorf("piholes[%d] (%s): address is required", i, p.Name)
		}
	}

	return cfg, nil
}

func (c cliConfig) instances() []model.Instance {
	out := make([]model.Instance, 0, len(c.Piholes))
	for _, p := range c.Piholes {
		out = append(out, model.Instance{
			Name:     p.Name,
			Address:  p.Address,
			Password: p.Password,
			Enabled:  p.Enabled == nil || *p.Enabled,
			Link:     p.Link,
		})
	}
	return out
}

func (c cliConfig) refreshInterval() time.Duration {
	return time.Duration(c.RefreshMillis) * time.Millisecond
}
