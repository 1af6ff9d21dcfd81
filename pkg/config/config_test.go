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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFromEnv tests reading credentials and the verbose flag.
func TestFromEnv(t *testing.T) {
	t.Setenv(EnvSigningIdentity, "Developer ID Application: Example (TEAMID99)")
	t.Setenv(EnvNotaryProfile, "notary-profile")
	t.Setenv(EnvVerbose, "1")

	cfg := FromEnv()
	if cfg.SigningIdentity != "Developer ID Application: Example (TEAMID99)" {
		t.Errorf("SigningIdentity = %q", cfg.SigningIdentity)
	}
	if cfg.NotaryProfile != "notary-profile" {
		t.Errorf("NotaryProfile = %q", cfg.NotaryProfile)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

// TestFromEnvVerboseDisabled tests that "0" and empty disable verbose mode.
func TestFromEnvVerboseDisabled(t *testing.T) {
	for _, v := range []string{"", "0"} {
		t.Setenv(EnvVerbose, v)
		if FromEnv().Verbose {
			t.Errorf("Verbose = true for %s=%q", EnvVerbose, v)
		}
	}
}

// TestValidate tests that all missing credentials are reported together.
func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		profile  string
		wantErr  bool
		wantIn   []string
	}{
		{
			name:     "both present",
			identity: "Developer ID Application: X",
			profile:  "p",
		},
		{
			name:    "both missing",
			wantErr: true,
			wantIn:  []string{EnvSigningIdentity, EnvNotaryProfile},
		},
		{
			name:    "identity missing",
			profile: "p",
			wantErr: true,
			wantIn:  []string{EnvSigningIdentity},
		},
		{
			name:     "profile missing",
			identity: "Developer ID Application: X",
			wantErr:  true,
			wantIn:   []string{EnvNotaryProfile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{SigningIdentity: tt.identity, NotaryProfile: tt.profile}
			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("Validate() error = %v, want ErrMissingCredentials", err)
			}
			for _, want := range tt.wantIn {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error %q does not name %s", err, want)
				}
			}
		})
	}
}

// TestLoadSettingsDefaults tests that a missing file yields the defaults.
func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), DefaultSettingsFile))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings.Webp.Quality != 80 {
		t.Errorf("Quality = %d, want 80", settings.Webp.Quality)
	}
	want := []int{400, 800, 1200}
	if len(settings.Webp.Widths) != len(want) {
		t.Fatalf("Widths = %v, want %v", settings.Webp.Widths, want)
	}
	for i := range want {
		if settings.Webp.Widths[i] != want[i] {
			t.Errorf("Widths[%d] = %d, want %d", i, settings.Webp.Widths[i], want[i])
		}
	}
}

// TestLoadSettingsFile tests overriding defaults from YAML.
func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultSettingsFile)
	data := []byte("webp:\n  quality: 65\n  widths: [320, 640]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings.Webp.Quality != 65 {
		t.Errorf("Quality = %d, want 65", settings.Webp.Quality)
	}
	if len(settings.Webp.Widths) != 2 || settings.Webp.Widths[0] != 320 || settings.Webp.Widths[1] != 640 {
		t.Errorf("Widths = %v, want [320 640]", settings.Webp.Widths)
	}
}

// TestLoadSettingsPartial tests that unset fields keep their defaults.
func TestLoadSettingsPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultSettingsFile)
	if err := os.WriteFile(path, []byte("webp:\n  quality: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings.Webp.Quality != 90 {
		t.Errorf("Quality = %d, want 90", settings.Webp.Quality)
	}
	if len(settings.Webp.Widths) != 3 {
		t.Errorf("Widths = %v, want defaults", settings.Webp.Widths)
	}
}

// TestLoadSettingsBadYAML tests that malformed YAML is an error.
func TestLoadSettingsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultSettingsFile)
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Error("LoadSettings() accepted malformed YAML")
	}
}
