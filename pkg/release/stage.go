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

import "fmt"

// Stage is a bundle's position in the release progression. The disk image
// follows the same progression on its own track, gated on the bundle
// reaching StageStapled.
type Stage int

const (
	// StageUnsigned is the entry state: no valid signature.
	StageUnsigned Stage = iota
	// StageSigned means the bundle carries a hardened-runtime signature.
	StageSigned
	// StageNotarized means the notarization service accepted the submission.
	StageNotarized
	// StageStapled means the ticket is attached and validates offline.
	StageStapled
	// StageComplete is the terminal skip state for bundles found already
	// signed and stapled at entry.
	StageComplete
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageUnsigned:
		return "unsigned"
	case StageSigned:
		return "signed"
	case StageNotarized:
		return "notarized"
	case StageStapled:
		return "stapled"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further progression is possible.
func (s Stage) Terminal() bool {
	return s == StageComplete
}

// Track validates the per-bundle stage progression. Each transition either
// moves one step forward or jumps from the entry state straight to
// StageComplete (the already-complete shortcut).
type Track struct {
	stage Stage
}

// Stage returns the track's current stage.
func (t *Track) Stage() Stage {
	return t.stage
}

// Advance moves the track to the given stage, validating the transition.
// An invalid transition is a programming error and is reported as such.
func (t *Track) Advance(to Stage) error {
	if !allowedTransition(t.stage, to) {
		return fmt.Errorf("invalid stage transition: %s -> %s", t.stage, to)
	}
	t.stage = to
	return nil
}

func allowedTransition(from, to Stage) bool {
	switch from {
	case StageUnsigned:
		return to == StageSigned || to == StageComplete
	case StageSigned:
		return to == StageNotarized
	case StageNotarized:
		return to == StageStapled
	case StageStapled:
		return to == StageComplete
	default:
		return false
	}
}
