// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptoservices.
//
// go-cryptoservices is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads process configuration from a YAML file and
// CRYPTOSVC_* environment variables, environment taking precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// CRYPTOSVC_SERVICE_TYPE=crossPlatform.
const EnvPrefix = "CRYPTOSVC"

// Config is the complete process configuration.
type Config struct {
	// ServiceType selects the algorithm provider (standard,
	// platformNative, crossPlatform).
	ServiceType string `mapstructure:"service_type"`

	// Stage is the deployment stage (development, staging, production).
	Stage string `mapstructure:"stage"`

	// StorageDir is the root directory of the file-backed secure storage.
	StorageDir string `mapstructure:"storage_dir"`

	// HardwareSecurity declares hardware security module availability.
	HardwareSecurity bool `mapstructure:"hardware_security"`

	// EnhancedLogging enables debug-level logging with private field
	// rendering.
	EnhancedLogging bool `mapstructure:"enhanced_logging"`
}

// Load reads configuration from the given file (optional) and the
// environment, filling unset fields with defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("service_type", string(types.ServiceTypeStandard))
	v.SetDefault("stage", string(types.StageDevelopment))
	v.SetDefault("storage_dir", "/var/lib/cryptosvc")
	v.SetDefault("hardware_security", false)
	v.SetDefault("enhanced_logging", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if !types.ParseServiceType(c.ServiceType).Valid() {
		return fmt.Errorf("config: unknown service type %q", c.ServiceType)
	}
	if !types.DeploymentStage(strings.ToLower(c.Stage)).Valid() {
		return fmt.Errorf("config: unknown stage %q", c.Stage)
	}
	if c.StorageDir == "" {
		return fmt.Errorf("config: storage directory is required")
	}
	return nil
}

// Service returns the parsed service type selector.
func (c *Config) Service() types.ServiceType {
	return types.ParseServiceType(c.ServiceType)
}

// Environment returns the environment descriptor passed to the provider
// loader.
func (c *Config) Environment() types.Environment {
	return types.Environment{
		Stage:            types.DeploymentStage(strings.ToLower(c.Stage)),
		HardwareSecurity: c.HardwareSecurity,
		EnhancedLogging:  c.EnhancedLogging,
	}
}
