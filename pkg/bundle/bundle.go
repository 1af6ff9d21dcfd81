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

// Package bundle models the plugin and application bundles quick-actions
// operates on: a directory on disk plus a format tag derived from the
// directory's extension. The format decides the canonical install location
// used for the disk image's drag-and-drop symlink.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Format identifies the kind of bundle, derived from its extension.
type Format int

const (
	// FormatUnknown is returned for unrecognized extensions.
	FormatUnknown Format = iota
	// FormatVST3 is a .vst3 plugin bundle.
	FormatVST3
	// FormatAudioUnit is a .component AudioUnit bundle.
	FormatAudioUnit
	// FormatApp is a standalone .app bundle.
	FormatApp
)

// String returns the human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatVST3:
		return "VST3"
	case FormatAudioUnit:
		return "AudioUnit"
	case FormatApp:
		return "App"
	default:
		return "unknown"
	}
}

// InstallDir returns the canonical system install directory for the format.
// The disk image ships a symlink to this location so the user can install by
// dragging the bundle onto it.
func (f Format) InstallDir() string {
	switch f {
	case FormatVST3:
		return "/Library/Audio/Plug-Ins/VST3"
	case FormatAudioUnit:
		return "/Library/Audio/Plug-Ins/Components"
	case FormatApp:
		return "/Applications"
	default:
		return ""
	}
}

// DetectFormat maps a path's extension to a Format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vst3":
		return FormatVST3
	case ".component":
		return FormatAudioUnit
	case ".app":
		return FormatApp
	default:
		return FormatUnknown
	}
}

// ErrUnrecognizedFormat is returned by New for paths whose extension maps to
// no known bundle format.
var ErrUnrecognizedFormat = errors.New("unrecognized bundle format")

// Bundle is a plugin or application bundle on disk.
type Bundle struct {
	// Path is the bundle directory, cleaned.
	Path string
	// Format is the bundle format derived from the extension.
	Format Format
}

// New validates that path is an existing directory with a recognized
// extension and returns the Bundle for it.
func New(path string) (*Bundle, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%q: %w", path, ErrUnrecognizedFormat)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bundle %q: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("bundle %q: not a directory", path)
	}

	return &Bundle{Path: filepath.Clean(path), Format: format}, nil
}

// Name returns the bundle's directory name including the extension.
func (b *Bundle) Name() string {
	return filepath.Base(b.Path)
}

// Stem returns the bundle name without the extension, used for volume and
// archive naming.
func (b *Bundle) Stem() string {
	name := b.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// DMGPath returns the path of the bundle's disk image: alongside the bundle,
// with the extension replaced by .dmg.
func (b *Bundle) DMGPath() string {
	return strings.TrimSuffix(b.Path, filepath.Ext(b.Path)) + ".dmg"
}

// LibrariesDir returns the nested directory that may hold bundled dynamic
// libraries. Those are signed individually before the bundle itself, since
// the outer signature covers the already-signed inner binaries.
func (b *Bundle) LibrariesDir() string {
	return filepath.Join(b.Path, "Contents", "libs")
}

// Libraries returns the dylibs under LibrariesDir in sorted order. A missing
// directory yields an empty list, not an error.
func (b *Bundle) Libraries() ([]string, error) {
	dir := b.LibrariesDir()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", dir, err)
	}

	var libs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".dylib") {
			libs = append(libs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(libs)
	return libs, nil
}
