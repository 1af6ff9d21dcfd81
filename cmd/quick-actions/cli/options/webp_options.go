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

package options

import (
	"github.com/playfultones/quick-actions/pkg/config"
	"github.com/spf13/cobra"
)

// WebpOptions defines flags for the webp subcommand. Flag values override
// the settings file; unset flags fall back to it.
type WebpOptions struct {
	// Quality is the cwebp -q value, 0-100.
	Quality int
	// Widths are the responsive widths to generate; widths at or above the
	// source width are skipped.
	Widths []int
	// SettingsFile is the YAML settings file to read defaults from.
	SettingsFile string
}

var _ Interface = (*WebpOptions)(nil)

// AddFlags adds webp flags to the cobra command.
func (o *WebpOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.Quality, "quality", "q", 0,
		"webp quality 0-100 (overrides the settings file)")
	cmd.Flags().IntSliceVarP(&o.Widths, "widths", "w", nil,
		"responsive widths to generate (overrides the settings file)")
	cmd.Flags().StringVar(&o.SettingsFile, "settings", config.DefaultSettingsFile,
		"settings file with webp defaults")
	_ = cmd.MarkFlagFilename("settings", "yaml", "yml")
}

// Resolve merges the settings file with flag overrides.
func (o *WebpOptions) Resolve() (config.WebpSettings, error) {
	settings, err := config.LoadSettings(o.SettingsFile)
	if err != nil {
		return config.WebpSettings{}, err
	}
	resolved := settings.Webp
	if o.Quality > 0 {
		resolved.Quality = o.Quality
	}
	if len(o.Widths) > 0 {
		resolved.Widths = o.Widths
	}
	return resolved, nil
}
