package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/surajverma/pi-dash/internal/model"
)

const (
	defaultRefreshMillis  = 5000
	defaultLogCapacity    = model.DefaultLogCapacity
	defaultQueryLength    = model.DefaultQueryLength
	defaultRequestTimeout = model.DefaultRequestTimeout
	defaultListenAddr     = model.DefaultListenAddr
)

// instanceConfig is one source entry from the config file. Enabled is a
// pointer so an omitted key means enabled.
type instanceConfig struct {
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Enabled  *bool  `mapstructure:"enabled"`
	Link     bool   `mapstructure:"link"`
}

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Piholes        []instanceConfig `mapstructure:"piholes"`
	RefreshMillis  int              `mapstructure:"refresh_interval"`
	ShowQueries    bool             `mapstructure:"show_queries"`
	LogCapacity    int              `mapstructure:"query_log_capacity"`
	QueryLength    int              `mapstructure:"query_length"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	Listen         string           `mapstructure:"listen"`
	LogFile        string           `mapstructure:"log_file"`
	ConfigPath     string           `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PIDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("refresh_interval", defaultRefreshMillis)
	v.SetDefault("show_queries", false)
	v.SetDefault("query_log_capacity", defaultLogCapacity)
	v.SetDefault("query_length", defaultQueryLength)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("listen", defaultListenAddr)
	v.SetDefault("log_file", "")

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
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.RefreshMillis <= 0 {
		return cfg, fmt.Errorf("invalid refresh_interval: %d", cfg.RefreshMillis)
	}
	if cfg.LogCapacity <= 0 {
		return cfg, fmt.Errorf("invalid query_log_capacity: %d", cfg.LogCapacity)
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

// instances resolves config entries into the shared instance model.
func (c appConfig) instances() []model.Instance {
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

// refreshInterval converts the millisecond config value.
func (c appConfig) refreshInterval() time.Duration {
	return time.Duration(c.RefreshMillis) * time.Millisecond
}

func (c appConfig) enabledCount() int {
	n := 0
	for _, inst := range c.instances() {
		if inst.Enabled {
			n++
		}
	}
	return n
}

// starterInstance and starterConfig mirror the config file shape for
// -write-config; yaml tags keep the emitted keys in sync with loadConfig.
type starterInstance struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Enabled  bool   `yaml:"enabled"`
	Link     bool   `yaml:"link"`
}

type starterConfig struct {
	Piholes          []starterInstance `yaml:"piholes"`
	RefreshInterval  int               `yaml:"refresh_interval"`
	ShowQueries      bool              `yaml:"show_queries"`
	QueryLogCapacity int               `yaml:"query_log_capacity"`
	QueryLength      int               `yaml:"query_length"`
	RequestTimeout   string            `yaml:"request_timeout"`
	Listen           string            `yaml:"listen"`
}

// writeStarterConfig writes a commented starter file and reports its path.
// It refuses to overwrite an existing file.
func writeStarterConfig(configPath string) (string, error) {
	path := configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		dir := filepath.Join(home, ".config", "pidash")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists, refusing to overwrite", path)
	}

	starter := starterConfig{
		Piholes: []starterInstance{{
			Name:    "Primary",
			Address: "http://pi.hole",
			Enabled: true,
			Link:    true,
		}},
		RefreshInterval:  defaultRefreshMillis,
		ShowQueries:      true,
		QueryLogCapacity: defaultLogCapacity,
		QueryLength:      defaultQueryLength,
		RequestTimeout:   defaultRequestTimeout.String(),
		Listen:           defaultListenAddr,
	}

	body, err := yaml.Marshal(starter)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("# pi-dash configuration.\n")
	buf.WriteString("# refresh_interval is in milliseconds; request_timeout accepts Go durations (\"10s\").\n")
	buf.WriteString("# Passwords stay on this machine; API clients only ever see names and links.\n")
	buf.Write(body)

	// The file may hold Pi-hole passwords.
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
