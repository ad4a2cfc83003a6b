package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the command line configuration.
type Config struct {
	Layout  LayoutConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// LayoutConfig names the default layout file and menu for dump and view.
type LayoutConfig struct {
	Path string
	Menu string
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Addr string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// LoadConfig reads configuration from the config file, FLATMENU_ environment
// variables and cmd's flags, in increasing order of precedence. A missing
// default config file is not an error; a missing explicit one is.
func LoadConfig(path string, cmd *cobra.Command) (Config, error) {
	v := viper.New()

	v.SetDefault("layout.path", "")
	v.SetDefault("layout.menu", "main")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "flatmenu"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FLATMENU")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if flag := cmd.Flags().Lookup("metrics-addr"); flag != nil {
			if err := v.BindPFlag("metrics.addr", flag); err != nil {
				return Config{}, fmt.Errorf("bind flag: %w", err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
