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

// Package notary wraps Apple's notarization service tools: notarytool for
// submission (blocking until the service returns a verdict) and stapler for
// attaching and validating tickets.
package notary

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/logging"
)

// StatusAccepted is the notarytool verdict for an approved submission.
const StatusAccepted = "Accepted"

// Submission is the JSON verdict printed by notarytool submit --wait.
type Submission struct {
	// ID is the submission identifier assigned by the service.
	ID string `json:"id"`
	// Status is the verdict: Accepted, Invalid, or Rejected.
	Status string `json:"status"`
	// Message is the human-readable summary.
	Message string `json:"message"`
}

// Notarizer submits archives under a fixed keychain profile and staples the
// resulting tickets.
type Notarizer struct {
	// Profile is the notarytool keychain profile name.
	Profile string

	runner command.Runner
	log    logging.Logger

	// now is stubbed in tests for deterministic archive names.
	now func() time.Time
}

// NewNotarizer returns a Notarizer using the given keychain profile.
func NewNotarizer(profile string, runner command.Runner, log logging.Logger) *Notarizer {
	return &Notarizer{
		Profile: profile,
		runner:  runner,
		log:     logging.EnsureLogger(log),
		now:     time.Now,
	}
}

// Stapled reports whether a notarization ticket is already stapled to path
// and validates. Advisory probe, no side effects.
func (n *Notarizer) Stapled(ctx context.Context, path string) bool {
	err := n.runner.Run(ctx, command.Command{
		Desc: "validating notarization ticket",
		Name: "xcrun",
		Args: []string{"stapler", "validate", path},
	})
	return err == nil
}

// Submit compresses path into a timestamped zip in the system temp
// directory, submits it to the notarization service, and blocks until the
// service returns a verdict. Any verdict other than Accepted is an error
// naming the submission id so the operator can fetch the log. The archive
// is removed afterwards either way.
func (n *Notarizer) Submit(ctx context.Context, path string) error {
	archive := n.archivePath(path)
	defer os.Remove(archive)

	n.log.Info("compressing %s for submission", filepath.Base(path))
	if err := n.runner.Run(ctx, command.Command{
		Desc: "compressing for notarization",
		Name: "ditto",
		Args: []string{"-c", "-k", "--keepParent", path, archive},
	}); err != nil {
		return err
	}

	n.log.Info("submitting to the notarization service, this can take a while")
	out, err := n.runner.Output(ctx, command.Command{
		Desc: "submitting for notarization",
		Name: "xcrun",
		Args: []string{
			"notarytool", "submit", archive,
			"--keychain-profile", n.Profile,
			"--wait", "--output-format", "json",
		},
	})
	if err != nil {
		return err
	}

	var sub Submission
	if err := json.Unmarshal(out, &sub); err != nil {
		return fmt.Errorf("parsing notarytool verdict: %w", err)
	}
	if sub.Status != StatusAccepted {
		return fmt.Errorf("notarization of %q was not accepted: status %q (submission %s): %s",
			filepath.Base(path), sub.Status, sub.ID, sub.Message)
	}

	n.log.Info("notarization accepted (submission %s)", sub.ID)
	return nil
}

// Staple attaches the notarization ticket directly onto path so offline
// verification works.
func (n *Notarizer) Staple(ctx context.Context, path string) error {
	n.log.Info("stapling ticket to %s", filepath.Base(path))
	return n.runner.Run(ctx, command.Command{
		Desc: "stapling notarization ticket",
		Name: "xcrun",
		Args: []string{"stapler", "staple", path},
	})
}

// archivePath names the transient submission zip: the target's name plus a
// timestamp, in the system temp directory, to keep parallel manual runs from
// colliding.
func (n *Notarizer) archivePath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stamp := n.now().Format("20060102-150405")
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.zip", stem, stamp))
}
