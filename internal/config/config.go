// Package config merges command-line flags, environment variables, a .env
// file and an optional .pebble-dbml.yaml file into one configuration.
//
// Precedence, highest first: flags set on the command line, PEBBLE_DBML_*
// environment variables (.env included), the config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/marshallshelly/pebble-dbml/internal/logger"
	"github.com/marshallshelly/pebble-dbml/pkg/generator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable the tool reads.
	EnvPrefix = "PEBBLE_DBML"
	// FileName is the config file looked up in the working directory.
	FileName = ".pebble-dbml"
	// EnvFile is loaded into the environment before anything else is read.
	EnvFile = ".env"
)

// Config is the resolved configuration of one invocation.
type Config struct {
	File        string
	TableFormat string
	TablePrefix string
	TableFilter []string
	Project     generator.Project
	Models      []string
	Manifests   []string
	TypeMap     []string
	Strict      bool
	Log         logger.Config
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"file":         "file",
	"table-format": "table_format",
	"table-prefix": "table_prefix",
	"table-filter": "table_filter",
	"db-name":      "db_name",
	"db-type":      "db_type",
	"db-note":      "db_note",
	"models":       "models",
	"manifest":     "manifest",
	"type-map":     "type_map",
	"strict":       "strict",
	"log-format":   "log.format",
}

// Load resolves the configuration. path names an explicit config file; when
// empty, .pebble-dbml.{yaml,yml,json} is looked up in the working
// directory and may be absent. Flags that exist in flags are bound.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", EnvFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		File:        v.GetString("file"),
		TableFormat: v.GetString("table_format"),
		TablePrefix: v.GetString("table_prefix"),
		TableFilter: generator.ParseFilter(strings.Join(v.GetStringSlice("table_filter"), ",")),
		Project: generator.Project{
			Name:         v.GetString("db_name"),
			DatabaseType: v.GetString("db_type"),
			Note:         v.GetString("db_note"),
		},
		Models:    v.GetStringSlice("models"),
		Manifests: v.GetStringSlice("manifest"),
		TypeMap:   v.GetStringSlice("type_map"),
		Strict:    v.GetBool("strict"),
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("table_format", "identity")
	v.SetDefault("db_name", generator.DefaultProject.Name)
	v.SetDefault("db_type", generator.DefaultProject.DatabaseType)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

func (c *Config) validate() error {
	if c.Project.Name == "" {
		return errors.New("config: db_name must not be empty")
	}
	return nil
}
