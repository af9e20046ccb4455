package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"kaso/common"
	"kaso/report"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// tomlConfigFile represents the configuration file as it is encoded in TOML.
// Every value is optional: absent values take their defaults.
type tomlConfigFile struct {
	Session *tomlSession `toml:"session"`
	History *tomlHistory `toml:"history"`
}

// tomlSession represents the session configuration as it is encoded in TOML.
type tomlSession struct {
	Verbose  *bool   `toml:"verbose"`
	Optimize *bool   `toml:"optimize"`
	LogLevel *string `toml:"loglevel"`
	Prompt   *string `toml:"prompt"`
	Colour   *bool   `toml:"colour"`
	DumpAST  *bool   `toml:"dump-ast"`
}

// tomlHistory represents the history configuration as it is encoded in TOML.
type tomlHistory struct {
	Enabled *bool   `toml:"enabled"`
	File    *string `toml:"file"`
	Size    *int    `toml:"size"`
}

// Config is the resolved configuration of kaso.
type Config struct {
	Verbose  bool
	Optimize bool
	LogLevel string
	Prompt   string
	Colour   bool
	DumpAST  bool

	HistoryEnabled bool
	HistoryFile    string
	HistorySize    int
}

// DefaultConfig returns the configuration used in absence of a config file.
func DefaultConfig() *Config {
	return &Config{
		Verbose:        true,
		Optimize:       true,
		LogLevel:       "verbose",
		Prompt:         "ready> ",
		Colour:         true,
		HistoryEnabled: true,
		HistoryFile:    filepath.Join(homeDir(), common.HistoryFileName),
		HistorySize:    500,
	}
}

// DefaultConfigPath returns the path of the user's configuration file.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), common.ConfigFileName)
}

// LoadConfig loads the configuration file at path.  A missing file is not an
// error: the default configuration is returned.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return conf, nil
		}

		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, err
	}

	if err := conf.apply(tcf); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}

	return conf, nil
}

// apply overwrites conf with every value set in tcf.
func (conf *Config) apply(tcf *tomlConfigFile) error {
	if ts := tcf.Session; ts != nil {
		setBool(&conf.Verbose, ts.Verbose)
		setBool(&conf.Optimize, ts.Optimize)
		setBool(&conf.Colour, ts.Colour)
		setBool(&conf.DumpAST, ts.DumpAST)

		if ts.LogLevel != nil {
			if _, ok := report.LogLevelFromName(*ts.LogLevel); !ok {
				return fmt.Errorf("invalid log level: `%s`", *ts.LogLevel)
			}

			conf.LogLevel = *ts.LogLevel
		}

		if ts.Prompt != nil {
			conf.Prompt = *ts.Prompt
		}
	}

	if th := tcf.History; th != nil {
		setBool(&conf.HistoryEnabled, th.Enabled)

		if th.File != nil {
			conf.HistoryFile = *th.File
		}

		if th.Size != nil {
			if *th.Size < 0 {
				return fmt.Errorf("history size must be non-negative")
			}

			conf.HistorySize = *th.Size
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

func setBool(dest *bool, v *bool) {
	if v != nil {
		*dest = *v
	}
}

// homeDir returns the user's home directory or the working directory if it
// cannot be determined.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	return "."
}
