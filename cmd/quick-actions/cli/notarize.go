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

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/playfultones/quick-actions/cmd/quick-actions/cli/options"
	"github.com/playfultones/quick-actions/internal/prompt"
	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/config"
	"github.com/playfultones/quick-actions/pkg/logging"
	"github.com/playfultones/quick-actions/pkg/release"
	"github.com/spf13/cobra"
)

// errCancelled is returned when the user backs out of the mode picker.
var errCancelled = errors.New("cancelled")

// processingError carries the failed-input count into the process exit code.
type processingError struct {
	failed int
	total  int
}

func (e *processingError) Error() string {
	return fmt.Sprintf("%d of %d inputs failed", e.failed, e.total)
}

func (e *processingError) ExitCode() int { return 1 }

func Notarize() *cobra.Command {
	o := &options.NotarizeOptions{}

	cmd := &cobra.Command{
		Use:   "notarize [OPTIONS] BUNDLE...",
		Short: "Sign, notarize and staple audio plug-in bundles.",
		Long: `Sign, notarize and staple audio plug-in bundles.

    Each BUNDLE is a .vst3, .component or .app directory. Bundles are
    codesigned with the hardened runtime (bundled dylibs first), zipped and
    submitted to Apple's notary service, and stapled once accepted. Bundles
    that already verify as signed and stapled are left untouched.

    Credentials come from the environment: CODESIGN_IDENTITY names the
    Developer ID certificate and NOTARIZATION_PROFILE names the notarytool
    keychain profile (created with "xcrun notarytool store-credentials").

    With --dmg, each bundle is additionally packaged into a disk image
    containing the bundle and a symlink to its install location; the image
    itself is signed, notarized and stapled. Without --dmg or --no-dmg an
    interactive picker asks which mode to run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotarize(cmd, o, args)
		},
	}

	o.AddFlags(cmd)
	return cmd
}

func runNotarize(cmd *cobra.Command, o *options.NotarizeOptions, args []string) error {
	// Credentials are validated before any input is touched so a
	// misconfigured environment never half-processes a batch.
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	buildImages, err := resolveMode(o)
	if err != nil {
		if errors.Is(err, errCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
		return err
	}

	obs := ro.NewObservability()
	// VERBOSE=1 echoes every external command, regardless of --log-level.
	if cfg.Verbose {
		obs.Logger = logging.NewLoggerWithOptions(logging.LoggerOptions{
			Level:  logging.LevelDebug,
			Format: ro.GetLogFormat(),
		})
	}
	runner := command.NewExecRunner(obs.Logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), ro.Timeout)
	defer cancel()

	pipeline := release.New(cfg, runner, obs.Logger, cmd.OutOrStdout())
	results := pipeline.Run(ctx, args, buildImages)

	if failed := release.Failed(results); failed > 0 {
		return &processingError{failed: failed, total: len(results)}
	}
	return nil
}

// resolveMode decides whether disk images are built: flags first, then the
// interactive picker.
func resolveMode(o *options.NotarizeOptions) (bool, error) {
	switch {
	case o.BuildImage:
		return true, nil
	case o.SkipImage, o.NonInteractive:
		return false, nil
	}

	choice, err := prompt.Run()
	if err != nil {
		return false, err
	}
	switch choice {
	case prompt.ChoiceNotarize:
		return false, nil
	case prompt.ChoiceNotarizeWithImage:
		return true, nil
	default:
		return false, errCancelled
	}
}
