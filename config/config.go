// Package config loads the optional YAML file that tunes code generation
// and the native compiler invocation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/xcc/compiler"
)

type BoundRule struct {
	Contains string `yaml:"contains"`
	Bound    string `yaml:"bound"`
}

// Bounds holds the collection bounds for for:each loops. Configured
// entries are consulted before the built-in rules unless Replace is set.
type Bounds struct {
	Replace bool              `yaml:"replace"`
	Exact   map[string]string `yaml:"exact"`
	Rules   []BoundRule       `yaml:"rules"`
}

type Compiler struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type Config struct {
	Entry    string            `yaml:"entry"`
	Includes map[string]string `yaml:"includes"`
	Bounds   Bounds            `yaml:"bounds"`
	Compiler Compiler          `yaml:"compiler"`
}

func Default() Config {
	cc := compiler.Clang()
	return Config{
		Entry:    "main",
		Compiler: Compiler{Command: cc.Path, Args: cc.Args},
	}
}

// Load reads the file at path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Entry == "" {
		return errors.New("entry must not be empty")
	}
	if c.Compiler.Command == "" {
		return errors.New("compiler.command must not be empty")
	}
	for i, r := range c.Bounds.Rules {
		if r.Contains == "" || r.Bound == "" {
			return fmt.Errorf("bounds.rules[%d]: contains and bound are required", i)
		}
	}
	for name, bound := range c.Bounds.Exact {
		if bound == "" {
			return fmt.Errorf("bounds.exact[%s]: bound is required", name)
		}
	}
	return nil
}
