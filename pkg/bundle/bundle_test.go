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

package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestDetectFormat tests extension to format mapping.
func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"/tmp/Synth.vst3", FormatVST3},
		{"/tmp/Synth.component", FormatAudioUnit},
		{"/tmp/Synth.app", FormatApp},
		{"/tmp/Synth.VST3", FormatVST3},
		{"/tmp/Synth.aaxplugin", FormatUnknown},
		{"/tmp/Synth", FormatUnknown},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// TestFormatInstallDir tests the install directory convention per format.
func TestFormatInstallDir(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatVST3, "/Library/Audio/Plug-Ins/VST3"},
		{FormatAudioUnit, "/Library/Audio/Plug-Ins/Components"},
		{FormatApp, "/Applications"},
		{FormatUnknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.InstallDir(); got != tt.want {
			t.Errorf("%v.InstallDir() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

// TestNew tests bundle validation.
func TestNew(t *testing.T) {
	dir := t.TempDir()
	vst3 := filepath.Join(dir, "Synth.vst3")
	if err := os.Mkdir(vst3, 0o755); err != nil {
		t.Fatal(err)
	}

	b, err := New(vst3)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b.Format != FormatVST3 {
		t.Errorf("Format = %v, want %v", b.Format, FormatVST3)
	}
	if b.Name() != "Synth.vst3" {
		t.Errorf("Name() = %q, want %q", b.Name(), "Synth.vst3")
	}
	if b.Stem() != "Synth" {
		t.Errorf("Stem() = %q, want %q", b.Stem(), "Synth")
	}
	if want := filepath.Join(dir, "Synth.dmg"); b.DMGPath() != want {
		t.Errorf("DMGPath() = %q, want %q", b.DMGPath(), want)
	}
}

// TestNewRejectsUnrecognizedExtension tests the skip condition for inputs
// that are not plugin or app bundles.
func TestNewRejectsUnrecognizedExtension(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "Synth.bundle")
	if err := os.Mkdir(other, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := New(other)
	if !errors.Is(err, ErrUnrecognizedFormat) {
		t.Errorf("New() error = %v, want ErrUnrecognizedFormat", err)
	}
}

// TestNewRejectsMissingPath tests that a nonexistent bundle is an error.
func TestNewRejectsMissingPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "Ghost.vst3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("New() error = %v, want ErrNotExist", err)
	}
}

// TestNewRejectsFile tests that a plain file with a bundle extension is
// rejected: bundles are directories.
func TestNewRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Flat.vst3")
	if err := os.WriteFile(path, []byte("not a bundle"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(path); err == nil {
		t.Error("New() accepted a regular file")
	}
}

// TestLibraries tests dylib discovery in the nested library directory.
func TestLibraries(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "Synth.app")
	libs := filepath.Join(app, "Contents", "libs")
	if err := os.MkdirAll(libs, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"libsamplerate.dylib", "libfft.dylib", "README"} {
		if err := os.WriteFile(filepath.Join(libs, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b, err := New(app)
	if err != nil {
		t.Fatal(err)
	}
	got, err := b.Libraries()
	if err != nil {
		t.Fatalf("Libraries() error = %v", err)
	}
	want := []string{
		filepath.Join(libs, "libfft.dylib"),
		filepath.Join(libs, "libsamplerate.dylib"),
	}
	if len(got) != len(want) {
		t.Fatalf("Libraries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Libraries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestLibrariesMissingDir tests that a bundle without a libs directory has
// no libraries and no error.
func TestLibrariesMissingDir(t *testing.T) {
	dir := t.TempDir()
	vst3 := filepath.Join(dir, "Synth.vst3")
	if err := os.Mkdir(vst3, 0o755); err != nil {
		t.Fatal(err)
	}

	b, err := New(vst3)
	if err != nil {
		t.Fatal(err)
	}
	libs, err := b.Libraries()
	if err != nil {
		t.Errorf("Libraries() error = %v", err)
	}
	if len(libs) != 0 {
		t.Errorf("Libraries() = %v, want empty", libs)
	}
}
