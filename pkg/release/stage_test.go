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

package release

import "testing"

// TestTrackProgression tests the full forward progression.
func TestTrackProgression(t *testing.T) {
	track := &Track{}
	for _, next := range []Stage{StageSigned, StageNotarized, StageStapled, StageComplete} {
		if err := track.Advance(next); err != nil {
			t.Fatalf("Advance(%v) error = %v", next, err)
		}
		if track.Stage() != next {
			t.Fatalf("Stage() = %v, want %v", track.Stage(), next)
		}
	}
	if !track.Stage().Terminal() {
		t.Error("final stage is not terminal")
	}
}

// TestTrackShortcut tests the already-complete shortcut from the entry state.
func TestTrackShortcut(t *testing.T) {
	track := &Track{}
	if err := track.Advance(StageComplete); err != nil {
		t.Fatalf("Advance(complete) from entry error = %v", err)
	}
}

// TestTrackInvalidTransitions tests that stages cannot be skipped or
// revisited.
func TestTrackInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Stage
		to   Stage
	}{
		{"skip signing", StageUnsigned, StageNotarized},
		{"skip notarization", StageSigned, StageStapled},
		{"signed straight to complete", StageSigned, StageComplete},
		{"backwards", StageStapled, StageSigned},
		{"past terminal", StageComplete, StageSigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := &Track{stage: tt.from}
			if err := track.Advance(tt.to); err == nil {
				t.Errorf("Advance(%v -> %v) succeeded, want error", tt.from, tt.to)
			}
		})
	}
}

// TestStageString tests the stage names used in status output.
func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageUnsigned, "unsigned"},
		{StageSigned, "signed"},
		{StageNotarized, "notarized"},
		{StageStapled, "stapled"},
		{StageComplete, "complete"},
		{Stage(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.stage), got, tt.want)
		}
	}
}
