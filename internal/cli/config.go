package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by every command. Values come from the
// config file first; flags given on the command line win.
type Config struct {
	LogLevel            string `yaml:"log_level" validate:"oneof=debug info warn error"`
	ArrayPolymorphism   bool   `yaml:"array_polymorphism"`
	IgnoreUnknownKeys   bool   `yaml:"ignore_unknown_keys"`
	ValidatePayloads    bool   `yaml:"validate"`
	StrictDiscriminator bool   `yaml:"strict_discriminator"`
}

// DefaultConfig returns the settings used when neither file nor flags say otherwise.
func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadConfigFile reads the "sealed" section of the config file and applies
// every value whose flag was not set explicitly.
func (a *app) loadConfigFile(flags *pflag.FlagSet) error {
	if a.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(a.configPath))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var file struct {
		Sealed struct {
			LogLevel            *string `yaml:"log_level"`
			ArrayPolymorphism   *bool   `yaml:"array_polymorphism"`
			IgnoreUnknownKeys   *bool   `yaml:"ignore_unknown_keys"`
			ValidatePayloads    *bool   `yaml:"validate"`
			StrictDiscriminator *bool   `yaml:"strict_discriminator"`
		} `yaml:"sealed"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg := file.Sealed
	if cfg.LogLevel != nil && !flags.Changed("log-level") {
		a.cfg.LogLevel = *cfg.LogLevel
	}
	if cfg.ArrayPolymorphism != nil && !flags.Changed("array") {
		a.cfg.ArrayPolymorphism = *cfg.ArrayPolymorphism
	}
	if cfg.IgnoreUnknownKeys != nil && !flags.Changed("ignore-unknown-keys") {
		a.cfg.IgnoreUnknownKeys = *cfg.IgnoreUnknownKeys
	}
	if cfg.ValidatePayloads != nil && !flags.Changed("validate") {
		a.cfg.ValidatePayloads = *cfg.ValidatePayloads
	}
	if cfg.StrictDiscriminator != nil && !flags.Changed("strict") {
		a.cfg.StrictDiscriminator = *cfg.StrictDiscriminator
	}
	return nil
}
