// Package config manages wikimirror configuration.
package config

import (
	"time"

	"github.com/gaurav-prasanna/wikimirror/core/embed"
	"github.com/gaurav-prasanna/wikimirror/core/fetch"
)

// DefaultOutputFile is the mirror file name used when none is given.
const DefaultOutputFile = "fake_wiki_page.html"

// Config represents the application configuration.
type Config struct {
	Fetch  FetchConfig  `yaml:"fetch"`
	Output OutputConfig `yaml:"output"`
}

// FetchConfig controls how the input page and its resources are retrieved.
type FetchConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 disables rate limiting
	MaxResourceBytes  int64         `yaml:"max_resource_bytes"`
}

// OutputConfig contains output options.
type OutputConfig struct {
	DefaultFile string `yaml:"default_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:          fetch.DefaultTimeout,
			UserAgent:        fetch.DefaultUserAgent,
			Concurrency:      embed.DefaultConcurrency,
			MaxResourceBytes: fetch.DefaultMaxBytes,
		},
		Output: OutputConfig{
			DefaultFile: DefaultOutputFile,
		},
	}
}

// FetchOptions converts the fetch section into fetcher options.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:           c.Fetch.Timeout,
		UserAgent:         c.Fetch.UserAgent,
		RequestsPerSecond: c.Fetch.RequestsPerSecond,
		MaxBytes:          c.Fetch.MaxResourceBytes,
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = def.Fetch.Timeout
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = def.Fetch.UserAgent
	}
	if c.Fetch.Concurrency <= 0 {
		c.Fetch.Concurrency = def.Fetch.Concurrency
	}
	if c.Fetch.MaxResourceBytes <= 0 {
		c.Fetch.MaxResourceBytes = def.Fetch.MaxResourceBytes
	}
	if c.Output.DefaultFile == "" {
		c.Output.DefaultFile = def.Output.DefaultFile
	}
}
