package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/motherofdaemons/obis-demystifier/obis"
	"github.com/motherofdaemons/obis-demystifier/search"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type config struct {
	Log    logConfig    `yaml:"log"`
	Scan   scanConfig   `yaml:"scan"`
	Search searchConfig `yaml:"search"`
}

type logConfig struct {
	Level string `yaml:"level"`
}

type scanConfig struct {
	Style string `yaml:"style"`
}

type searchConfig struct {
	Keys            []string `yaml:"keys"`
	DescriptionKeys []string `yaml:"description_keys"`
}

func defaultConfig() *config {
	return &config{
		Log: logConfig{
			Level: "info",
		},
		Scan: scanConfig{
			Style: "dec",
		},
		Search: searchConfig{
			Keys:            search.DefaultKeys,
			DescriptionKeys: search.DefaultDescriptionKeys,
		},
	}
}

// loadConfig reads the YAML file at path on top of the defaults. An empty
// path yields the defaults.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()

	if len(path) == 0 {
		return c, nil
	}

	configContent, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(configContent, c)

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return c, c.validate()
}

func (c *config) validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if _, err := parseStyle(c.Scan.Style); err != nil {
		return fmt.Errorf("scan.style: %w", err)
	}

	return nil
}

func (c *config) logLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)

	if err != nil {
		return logrus.InfoLevel
	}

	return level
}

func parseStyle(s string) (obis.Style, error) {
	switch strings.ToLower(s) {
	case "hex":
		return obis.Hex, nil
	case "dec", "decimal":
		return obis.Decimal, nil
	}

	return 0, fmt.Errorf("unknown style %q, expected hex or dec", s)
}
