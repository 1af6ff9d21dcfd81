// Copyright 2025 Playful Tones
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config collects the process configuration in one place: signing
// credentials from the environment, validated once before any bundle is
// touched, and optional non-secret defaults from a YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consumed by quick-actions.
const (
	// EnvSigningIdentity names the Developer ID certificate used by codesign.
	EnvSigningIdentity = "CODESIGN_IDENTITY"
	// EnvNotaryProfile names the notarytool keychain profile.
	EnvNotaryProfile = "NOTARIZATION_PROFILE"
	// EnvVerbose, when set to a non-empty value other than "0", echoes
	// every external command before it runs.
	EnvVerbose = "VERBOSE"
)

// ErrMissingCredentials is returned when required environment variables are
// absent. The run must abort before any input is processed.
var ErrMissingCredentials = errors.New("missing signing credentials")

// Config is the validated process configuration for notarization runs.
type Config struct {
	// SigningIdentity is the codesign certificate identity name.
	SigningIdentity string
	// NotaryProfile is the notarytool keychain profile name.
	NotaryProfile string
	// Verbose echoes every external command invocation.
	Verbose bool
}

// FromEnv reads the configuration from the process environment. It does not
// validate presence; call Validate before using the credentials so that all
// missing variables are reported together.
func FromEnv() *Config {
	verbose := os.Getenv(EnvVerbose)
	return &Config{
		SigningIdentity: strings.TrimSpace(os.Getenv(EnvSigningIdentity)),
		NotaryProfile:   strings.TrimSpace(os.Getenv(EnvNotaryProfile)),
		Verbose:         verbose != "" && verbose != "0",
	}
}

// Validate checks that both credentials are present. All missing variables
// are named in the error.
func (c *Config) Validate() error {
	var missing []string
	if c.SigningIdentity == "" {
		missing = append(missing, EnvSigningIdentity)
	}
	if c.NotaryProfile == "" {
		missing = append(missing, EnvNotaryProfile)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}

// WebpSettings holds defaults for the webp subcommand.
type WebpSettings struct {
	// Quality is the cwebp -q value, 0-100.
	Quality int `yaml:"quality"`
	// Widths are the responsive widths to generate, in pixels.
	Widths []int `yaml:"widths"`
}

// Settings are optional non-secret defaults, loaded from a YAML file.
// Credentials deliberately never live here; they come from the environment.
type Settings struct {
	Webp WebpSettings `yaml:"webp"`
}

// DefaultSettingsFile is looked up in the working directory when no explicit
// settings path is given.
const DefaultSettingsFile = ".quick-actions.yaml"

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Webp: WebpSettings{
			Quality: 80,
			Widths:  []int{400, 800, 1200},
		},
	}
}

// LoadSettings reads settings from path, filling unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading settings %q: %w", path, err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return settings, fmt.Errorf("parsing settings %q: %w", path, err)
	}

	if loaded.Webp.Quality > 0 {
		settings.Webp.Quality = loaded.Webp.Quality
	}
	if len(loaded.Webp.Widths) > 0 {
		settings.Webp.Widths = loaded.Webp.Widths
	}
	return settings, nil
}
