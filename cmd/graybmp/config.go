package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

const defaultLevels = 4

// config holds defaults that can be overridden on the command line.
type config struct {
	DB          string            `yaml:"db"`
	Workers     int               `yaml:"workers"`
	Levels      int               `yaml:"levels"`
	Expressions map[string]string `yaml:"expressions"`
}

func loadConfig(file string) (*config, error) {
	cfg := &config{}

	b, err := ioutil.ReadFile(file)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return nil, err
	}

	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return cfg, nil
}

// expression resolves a named expression from the config file, or returns
// s unchanged if there is no such name.
func (c *config) expression(s string) string {
	if e, ok := c.Expressions[s]; ok {
		return e
	}
	return s
}
