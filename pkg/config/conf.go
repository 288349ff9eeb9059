// Package config reads and writes the app configuration file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/leadworks/leadctl/pkg/alert"
	"github.com/leadworks/leadctl/pkg/scoring"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	serverPortDefault = 8080
)

// Config is the app configuration, stored as YAML in the app home dir.
type Config struct {
	Scoring ScoringConfig    `yaml:"scoring"`
	Alerts  alert.Thresholds `yaml:"alerts"`
	Server  ServerConfig     `yaml:"server"`
}

// ScoringConfig carries the weight-calculator options and the lead score
// point tables.
type ScoringConfig struct {
	MinWeight           int                `yaml:"min_weight"`
	Exclude             []string           `yaml:"exclude,omitempty"`
	Boosts              map[string]float64 `yaml:"boosts,omitempty"`
	ChannelScores       map[string]int     `yaml:"channel_scores,omitempty"`
	ChannelScoreDefault int                `yaml:"channel_score_default"`
	GradeScores         map[string]int     `yaml:"grade_scores,omitempty"`
	GradeScoreDefault   int                `yaml:"grade_score_default"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// WeightOptions converts the config into calculator options.
func (c *ScoringConfig) WeightOptions() scoring.Options {
	return scoring.Options{
		MinWeight: c.MinWeight,
		Exclude:   c.Exclude,
		Boosts:    c.Boosts,
	}
}

// LeadScoreTables converts the config into lead scoring tables, falling
// back to the built-in defaults for empty sections.
func (c *ScoringConfig) LeadScoreTables() scoring.LeadScoreTables {
	defaults := scoring.DefaultLeadScoreTables()
	t := scoring.LeadScoreTables{
		Channel:        c.ChannelScores,
		ChannelDefault: c.ChannelScoreDefault,
		Grade:          c.GradeScores,
		GradeDefault:   c.GradeScoreDefault,
	}
	if t.Channel == nil {
		t.Channel = defaults.Channel
		t.ChannelDefault = defaults.ChannelDefault
	}
	if t.Grade == nil {
		t.Grade = defaults.Grade
		t.GradeDefault = defaults.GradeDefault
	}
	return t
}

func getDefaultConfig() *Config {
	tables := scoring.DefaultLeadScoreTables()
	return &Config{
		Scoring: ScoringConfig{
			ChannelScores:       tables.Channel,
			ChannelScoreDefault: tables.ChannelDefault,
			GradeScores:         tables.Grade,
			GradeScoreDefault:   tables.GradeDefault,
		},
		Alerts: alert.DefaultThresholds(),
		Server: ServerConfig{Port: serverPortDefault},
	}
}

// Save writes the config file into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}

// ReadOrCreate reads the config from the directory, writing the default
// config first when none exists.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	return Read(path)
}

// Read loads a config file from the given path.
func Read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the app home directory (~/.name), creating it
// when missing. The create flag reports whether the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
