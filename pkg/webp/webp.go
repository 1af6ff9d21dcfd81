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

// Package webp converts images to WebP at responsive widths by driving the
// sips and cwebp command-line tools. The source is converted at its
// original size plus every configured width strictly below the source
// width; images are never upscaled.
package webp

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/logging"
)

// Converter batch-converts images.
type Converter struct {
	// Quality is the cwebp -q value, 0-100.
	Quality int
	// Widths are the candidate responsive widths in pixels.
	Widths []int

	runner command.Runner
	log    logging.Logger
}

// NewConverter returns a Converter with the given quality and widths.
func NewConverter(quality int, widths []int, runner command.Runner, log logging.Logger) *Converter {
	return &Converter{
		Quality: quality,
		Widths:  widths,
		runner:  runner,
		log:     logging.EnsureLogger(log),
	}
}

// SourceWidth probes the image's pixel width via sips.
func (c *Converter) SourceWidth(ctx context.Context, path string) (int, error) {
	out, err := c.runner.Output(ctx, command.Command{
		Desc: "probing image width",
		Name: "sips",
		Args: []string{"-g", "pixelWidth", path},
	})
	if err != nil {
		return 0, err
	}
	return parsePixelWidth(out)
}

// parsePixelWidth extracts the pixelWidth value from sips output, which
// looks like:
//
//	/path/to/image.png
//	  pixelWidth: 1280
func parsePixelWidth(out []byte) (int, error) {
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "pixelWidth:"); ok {
			width, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil || width <= 0 {
				return 0, fmt.Errorf("unexpected pixelWidth %q in sips output", rest)
			}
			return width, nil
		}
	}
	return 0, fmt.Errorf("no pixelWidth in sips output %q", string(out))
}

// ResponsiveWidths returns the candidate widths strictly below the source
// width, sorted ascending. Outputs are never wider than the source.
func ResponsiveWidths(source int, widths []int) []int {
	var out []int
	for _, w := range widths {
		if w < source {
			out = append(out, w)
		}
	}
	sort.Ints(out)
	return out
}

// Convert converts one image: a full-size WebP plus one per responsive
// width. Existing outputs are overwritten. Returns the written paths.
func (c *Converter) Convert(ctx context.Context, path string) ([]string, error) {
	source, err := c.SourceWidth(ctx, path)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	quality := strconv.Itoa(c.Quality)

	outputs := []string{stem + ".webp"}
	if err := c.runner.Run(ctx, command.Command{
		Desc: "converting to webp",
		Name: "cwebp",
		Args: []string{"-q", quality, path, "-o", outputs[0]},
	}); err != nil {
		return nil, err
	}

	for _, width := range ResponsiveWidths(source, c.Widths) {
		out := fmt.Sprintf("%s-%d.webp", stem, width)
		if err := c.runner.Run(ctx, command.Command{
			Desc: fmt.Sprintf("converting to webp at width %d", width),
			Name: "cwebp",
			Args: []string{"-q", quality, "-resize", strconv.Itoa(width), "0", path, "-o", out},
		}); err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	c.log.Info("converted %s at %d widths", filepath.Base(path), len(outputs))
	return outputs, nil
}

// ConvertAll converts each image in order. Per-image failures are collected
// rather than aborting the batch; the error slice is index-aligned with
// the inputs.
func (c *Converter) ConvertAll(ctx context.Context, paths []string) (written []string, errs []error) {
	errs = make([]error, len(paths))
	for i, path := range paths {
		outs, err := c.Convert(ctx, path)
		if err != nil {
			errs[i] = err
			continue
		}
		written = append(written, outs...)
	}
	return written, errs
}
