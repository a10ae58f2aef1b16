package cli

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings the tool resolves from flags, the environment
// and an optional config file, in that priority order. Environment
// variables use the ROUTEMAP_ prefix (ROUTEMAP_JSON, ROUTEMAP_PREFIX, ...).
type Config struct {
	JSON    bool   `mapstructure:"json"`
	Prefix  string `mapstructure:"prefix"`
	Verbose bool   `mapstructure:"verbose"`
	Quiet   bool   `mapstructure:"quiet"`
	NoColor bool   `mapstructure:"no-color"`
}

// configName is the config file viper looks for in the working directory
// when --config is not given: .routemap.toml.
const configName = ".routemap"

// LoadConfig merges flag, environment and config file settings. A .env file
// in the working directory is loaded first so ROUTEMAP_ variables can live
// there too.
func LoadConfig(flags *pflag.FlagSet, cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ROUTEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading %s.toml: %w", configName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
