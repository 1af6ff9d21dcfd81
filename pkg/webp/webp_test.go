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

package webp

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/playfultones/quick-actions/pkg/command"
)

// sipsFor answers the width probe with the given pixel width.
func sipsFor(width int) func(c command.Command) ([]byte, error) {
	return func(c command.Command) ([]byte, error) {
		if c.Name == "sips" {
			out := fmt.Sprintf("%s\n  pixelWidth: %d\n", c.Args[len(c.Args)-1], width)
			return []byte(out), nil
		}
		return nil, nil
	}
}

// TestParsePixelWidth tests sips output parsing.
func TestParsePixelWidth(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    int
		wantErr bool
	}{
		{
			name: "normal output",
			out:  "/img/hero.png\n  pixelWidth: 1280\n",
			want: 1280,
		},
		{
			name:    "missing key",
			out:     "/img/hero.png\n  pixelHeight: 720\n",
			wantErr: true,
		},
		{
			name:    "garbage value",
			out:     "pixelWidth: wide\n",
			wantErr: true,
		},
		{
			name:    "empty",
			out:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePixelWidth([]byte(tt.out))
			if tt.wantErr {
				if err == nil {
					t.Errorf("parsePixelWidth() = %d, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePixelWidth() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parsePixelWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestResponsiveWidths tests that only widths strictly below the source
// are kept.
func TestResponsiveWidths(t *testing.T) {
	widths := []int{400, 800, 1200}
	tests := []struct {
		source int
		want   []int
	}{
		{1600, []int{400, 800, 1200}},
		{1200, []int{400, 800}},
		{801, []int{400, 800}},
		{800, []int{400}},
		{400, nil},
		{300, nil},
	}

	for _, tt := range tests {
		if got := ResponsiveWidths(tt.source, widths); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ResponsiveWidths(%d) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

// TestConvert tests the generated outputs for a wide source image.
func TestConvert(t *testing.T) {
	rec := &command.Recorder{Stub: sipsFor(1000)}
	c := NewConverter(80, []int{400, 800, 1200}, rec, nil)

	outputs, err := c.Convert(context.Background(), "/img/hero.png")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := []string{"/img/hero.webp", "/img/hero-400.webp", "/img/hero-800.webp"}
	if !reflect.DeepEqual(outputs, want) {
		t.Errorf("Convert() = %v, want %v", outputs, want)
	}

	// The full-size conversion carries no -resize; the responsive ones do.
	cwebps := rec.CallsTo("cwebp")
	if len(cwebps) != 3 {
		t.Fatalf("cwebp ran %d times, want 3", len(cwebps))
	}
	full := strings.Join(cwebps[0].Args, " ")
	if strings.Contains(full, "-resize") {
		t.Errorf("full-size conversion resized: %q", full)
	}
	for i, width := range []string{"400", "800"} {
		args := strings.Join(cwebps[i+1].Args, " ")
		if !strings.Contains(args, "-resize "+width+" 0") {
			t.Errorf("responsive conversion args = %q, want -resize %s 0", args, width)
		}
		if !strings.Contains(args, "-q 80") {
			t.Errorf("responsive conversion args = %q, want -q 80", args)
		}
	}
}

// TestConvertNarrowSource tests that a source narrower than every candidate
// width produces only the full-size output.
func TestConvertNarrowSource(t *testing.T) {
	rec := &command.Recorder{Stub: sipsFor(300)}
	c := NewConverter(80, []int{400, 800, 1200}, rec, nil)

	outputs, err := c.Convert(context.Background(), "/img/icon.png")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !reflect.DeepEqual(outputs, []string{"/img/icon.webp"}) {
		t.Errorf("Convert() = %v, want full-size only", outputs)
	}
}

// TestConvertProbeFailure tests that a failed width probe aborts before any
// conversion runs.
func TestConvertProbeFailure(t *testing.T) {
	rec := &command.Recorder{Stub: func(c command.Command) ([]byte, error) {
		if c.Name == "sips" {
			return nil, &command.Error{Desc: c.Desc, Code: 1, Output: "no such file"}
		}
		return nil, nil
	}}
	c := NewConverter(80, []int{400}, rec, nil)

	if _, err := c.Convert(context.Background(), "/img/ghost.png"); err == nil {
		t.Fatal("Convert() error = nil, want probe failure")
	}
	if rec.Ran("cwebp") {
		t.Error("cwebp ran after the probe failed")
	}
}

// TestConvertAllIsolatesFailures tests that one bad image does not stop
// the batch.
func TestConvertAllIsolatesFailures(t *testing.T) {
	rec := &command.Recorder{Stub: func(c command.Command) ([]byte, error) {
		if c.Name == "sips" && strings.Contains(c.Args[len(c.Args)-1], "bad") {
			return nil, &command.Error{Desc: c.Desc, Code: 1}
		}
		return sipsFor(500)(c)
	}}
	c := NewConverter(80, []int{400}, rec, nil)

	written, errs := c.ConvertAll(context.Background(), []string{"/img/bad.png", "/img/good.png"})

	if errs[0] == nil {
		t.Error("bad image reported no error")
	}
	if errs[1] != nil {
		t.Errorf("good image error = %v", errs[1])
	}
	want := []string{"/img/good.webp", "/img/good-400.webp"}
	if !reflect.DeepEqual(written, want) {
		t.Errorf("written = %v, want %v", written, want)
	}
}
