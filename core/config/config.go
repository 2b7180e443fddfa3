// Package config loads and validates the interpreter's configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file looked up when no --config flag is given.
const ConfigurationName = ".minish.yaml"

// Configuration holds the interpreter's tunable settings.
type Configuration struct {
	// Prompt is printed before each interactive line.
	Prompt string `json:"prompt" validate:"required"`
	// HistoryFile stores readline history; empty disables it.
	HistoryFile string `json:"history_file"`
	// LogFile receives the JSON-lines command log; empty disables it.
	LogFile string `json:"log_file"`
	// Path overrides the inherited PATH variable when set.
	Path string `json:"path"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Default returns the embedded default configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Load reads the configuration file at path, falling back to the embedded
// defaults when the file doesn't exist. Settings in the file override the
// defaults field by field.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	contents, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Default(), nil
	case err != nil:
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
