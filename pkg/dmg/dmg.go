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

// Package dmg builds the distributable disk image for a bundle: a staged
// copy plus an install-directory symlink, compressed into a sized UDZO
// image, then signed, notarized, and stapled like the bundle itself.
package dmg

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"howett.net/plist"

	"github.com/playfultones/quick-actions/pkg/bundle"
	"github.com/playfultones/quick-actions/pkg/codesign"
	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/logging"
	"github.com/playfultones/quick-actions/pkg/notary"
)

// SizeMarginMB is added to the staged content size so hdiutil never runs
// out of capacity while populating the image.
const SizeMarginMB = 50

// Builder creates signed, notarized disk images.
type Builder struct {
	signer *codesign.Signer
	notary *notary.Notarizer
	runner command.Runner
	log    logging.Logger

	// now is stubbed in tests for deterministic staging names.
	now func() time.Time
}

// NewBuilder returns a Builder sharing the pipeline's signer and notarizer.
func NewBuilder(signer *codesign.Signer, notarizer *notary.Notarizer, runner command.Runner, log logging.Logger) *Builder {
	return &Builder{
		signer: signer,
		notary: notarizer,
		runner: runner,
		log:    logging.EnsureLogger(log),
		now:    time.Now,
	}
}

// Complete reports whether a disk image already exists at path and passes
// both the signature and ticket probes. When true, rebuilding is skipped
// entirely.
func (b *Builder) Complete(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return b.signer.Verified(ctx, path) && b.notary.Stapled(ctx, path)
}

// Build stages a fresh copy of the bundle, creates the compressed image,
// signs, notarizes, and staples it, and moves it to its permanent path next
// to the bundle. Returns the final image path.
func (b *Builder) Build(ctx context.Context, bun *bundle.Bundle) (string, error) {
	stamp := b.now().Format("20060102-150405")
	stage := filepath.Join(os.TempDir(), fmt.Sprintf("%s-dmg-%s", bun.Stem(), stamp))
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(stage)

	// ditto preserves metadata and the signature of the already-stapled
	// bundle; cp -R would not keep extended attributes intact.
	if err := b.runner.Run(ctx, command.Command{
		Desc: "staging bundle copy",
		Name: "ditto",
		Args: []string{bun.Path, filepath.Join(stage, bun.Name())},
	}); err != nil {
		return "", err
	}

	installDir := bun.Format.InstallDir()
	link := filepath.Join(stage, filepath.Base(installDir))
	if err := os.Symlink(installDir, link); err != nil {
		return "", fmt.Errorf("creating install symlink: %w", err)
	}

	sizeMB, err := StagedSizeMB(stage)
	if err != nil {
		return "", err
	}
	sizeMB += SizeMarginMB

	tmpImage := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.dmg", bun.Stem(), stamp))
	created, err := b.create(ctx, bun.Stem(), stage, sizeMB, tmpImage)
	if err != nil {
		return "", err
	}

	b.log.Info("signing disk image")
	if err := b.signer.Sign(ctx, created); err != nil {
		return "", err
	}
	if err := b.notary.Submit(ctx, created); err != nil {
		return "", err
	}
	if err := b.notary.Staple(ctx, created); err != nil {
		return "", err
	}

	final := bun.DMGPath()
	if err := moveFile(created, final); err != nil {
		return "", fmt.Errorf("moving disk image into place: %w", err)
	}
	return final, nil
}

// create runs hdiutil and returns the path of the image it reports having
// created. hdiutil may append a missing .dmg extension, so the -plist output
// is authoritative.
func (b *Builder) create(ctx context.Context, volname, srcDir string, sizeMB int64, target string) (string, error) {
	b.log.Info("creating %d MB disk image", sizeMB)
	out, err := b.runner.Output(ctx, command.Command{
		Desc: "creating disk image",
		Name: "hdiutil",
		Args: []string{
			"create",
			"-volname", volname,
			"-srcfolder", srcDir,
			"-ov",
			"-format", "UDZO",
			"-size", fmt.Sprintf("%dm", sizeMB),
			"-plist",
			target,
		},
	})
	if err != nil {
		return "", err
	}

	var paths []string
	if _, err := plist.Unmarshal(out, &paths); err != nil || len(paths) == 0 {
		// Older hdiutil builds print nothing useful with -plist on some
		// formats; fall back to the requested target.
		return target, nil
	}
	return paths[0], nil
}

// StagedSizeMB returns the total size of all regular files under dir,
// rounded up to whole megabytes.
func StagedSizeMB(dir string) (int64, error) {
	var bytes int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		bytes += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sizing staged content: %w", err)
	}

	const mb = 1 << 20
	return (bytes + mb - 1) / mb, nil
}

// moveFile renames src to dst, replacing dst if present. A rename fails
// when the temp dir lives on another volume, so it falls back to a copy.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
