package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFile is the configuration file looked up in the package directory.
const configFile = ".freebuild.yaml"

// fileConfig is the content of a configuration file:
//
//	types: [Item, Receipt]
//	features: [-mustbuild]
//	tags: [integration]
//	workers: 4
//	log_level: debug
type fileConfig struct {
	Types     []string `yaml:"types"`
	Tags      []string `yaml:"tags"`
	Features  []string `yaml:"features"`
	Header    string   `yaml:"header"`
	Workers   int      `yaml:"workers"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
}

// readConfig reads the configuration file at path, or the default file in
// dir when path is empty. A missing default file yields an empty config.
func readConfig(dir, path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, configFile)
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return &fileConfig{}, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &fileConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// apply copies the configured values into opts.
func (c *fileConfig) apply(opts *options) {
	opts.Types = c.Types
	opts.Tags = c.Tags
	opts.Features = c.Features
	opts.Header = c.Header
	opts.Workers = c.Workers
	opts.LogLevel = c.LogLevel
	opts.LogFormat = c.LogFormat
}
