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
	"fmt"

	"github.com/playfultones/quick-actions/cmd/quick-actions/cli/options"
	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/webp"
	"github.com/spf13/cobra"
)

func Webp() *cobra.Command {
	o := &options.WebpOptions{}

	cmd := &cobra.Command{
		Use:   "webp [OPTIONS] IMAGE...",
		Short: "Convert images to WebP with responsive variants.",
		Long: `Convert images to WebP with responsive variants.

    Each IMAGE is converted to a full-size WebP next to the source, plus one
    resized variant per configured width. Variants at or above the source
    image's pixel width are skipped so images are never upscaled. Existing
    outputs are overwritten.

    Defaults (quality 80, widths 400/800/1200) can be changed per project in
    a settings file or per run with --quality and --widths.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebp(cmd, o, args)
		},
	}

	o.AddFlags(cmd)
	return cmd
}

func runWebp(cmd *cobra.Command, o *options.WebpOptions, args []string) error {
	settings, err := o.Resolve()
	if err != nil {
		return err
	}

	obs := ro.NewObservability()
	runner := command.NewExecRunner(obs.Logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), ro.Timeout)
	defer cancel()

	converter := webp.NewConverter(settings.Quality, settings.Widths, runner, obs.Logger)
	written, errs := converter.ConvertAll(ctx, args)

	out := cmd.OutOrStdout()
	for _, path := range written {
		fmt.Fprintln(out, path)
	}

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		obs.Logger.Error("converting %s: %v", args[i], err)
	}
	if failed > 0 {
		return &processingError{failed: failed, total: len(args)}
	}
	return nil
}
