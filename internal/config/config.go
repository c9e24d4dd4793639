package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"holdem-engine/internal/util"
)

// Config provides configuration for the hold'em simulator
type Config struct {
	loaded bool

	SmallBlind    int   `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind      int   `yaml:"bigBlind" envconfig:"big_blind"`
	StartingChips int   `yaml:"startingChips" envconfig:"starting_chips"`
	Hands         int   `yaml:"hands" envconfig:"hands"`
	Seed          int64 `yaml:"seed" envconfig:"seed"`

	// Bots lists the personality for each seat at the table
	Bots []string `yaml:"bots" envconfig:"bots"`

	// PersonalitiesFile optionally points at a YAML file with extra
	// personalities beyond the built-in presets
	PersonalitiesFile string `yaml:"personalitiesFile" envconfig:"personalities_file"`

	// ThinkingTimeMS adds up to this many milliseconds of delay before each
	// bot action
	ThinkingTimeMS int `yaml:"thinkingTimeMs" envconfig:"thinking_time_ms"`

	Log struct {
		Level string `yaml:"level" envconfig:"level"`
	} `yaml:"log"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is not an error;
// the defaults are used instead.
func Load() error {
	config = Config{}

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &config); err != nil {
		return err
	}

	setDefaults(&config)

	config.loaded = true
	return nil
}

func setDefaults(c *Config) {
	if c.SmallBlind == 0 {
		c.SmallBlind = 25
	}

	if c.BigBlind == 0 {
		c.BigBlind = c.SmallBlind * 2
	}

	if c.StartingChips == 0 {
		c.StartingChips = 5000
	}

	if c.Hands == 0 {
		c.Hands = 100
	}

	if len(c.Bots) == 0 {
		c.Bots = []string{"tight", "balanced", "aggressive", "bluffer"}
	}
}
