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
	"github.com/spf13/cobra"
)

// NotarizeOptions defines flags for the notarize subcommand.
type NotarizeOptions struct {
	// BuildImage forces disk-image creation without prompting.
	BuildImage bool
	// SkipImage forces notarize-only mode without prompting.
	SkipImage bool
	// NonInteractive disables the mode picker; without --dmg the run is
	// notarize-only.
	NonInteractive bool
}

var _ Interface = (*NotarizeOptions)(nil)

// AddFlags adds notarize flags to the cobra command.
func (o *NotarizeOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.BuildImage, "dmg", false,
		"build a notarized disk image for each bundle")
	cmd.Flags().BoolVar(&o.SkipImage, "no-dmg", false,
		"sign and notarize only, never build disk images")
	cmd.MarkFlagsMutuallyExclusive("dmg", "no-dmg")

	cmd.Flags().BoolVar(&o.NonInteractive, "non-interactive", false,
		"never prompt; suitable for CI")
}
