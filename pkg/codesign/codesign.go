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

// Package codesign wraps Apple's codesign tool: an advisory signature probe
// and hardened-runtime signing of dylibs, bundles, and disk images.
package codesign

import (
	"context"
	"fmt"

	"github.com/playfultones/quick-actions/pkg/bundle"
	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/logging"
)

// Signer signs paths with a fixed certificate identity.
type Signer struct {
	// Identity is the codesign certificate identity name.
	Identity string

	runner command.Runner
	log    logging.Logger
}

// NewSigner returns a Signer using the given identity and runner.
func NewSigner(identity string, runner command.Runner, log logging.Logger) *Signer {
	return &Signer{
		Identity: identity,
		runner:   runner,
		log:      logging.EnsureLogger(log),
	}
}

// Verified reports whether path already passes strict deep signature
// verification. This is an advisory probe with no side effects; any failure
// (including a missing signature) reads as "not signed".
func (s *Signer) Verified(ctx context.Context, path string) bool {
	err := s.runner.Run(ctx, command.Command{
		Desc: "verifying signature",
		Name: "codesign",
		Args: []string{"--verify", "--deep", "--strict", path},
	})
	return err == nil
}

// Sign signs a single path with the hardened runtime and a secure timestamp.
// An existing signature is replaced; signing is idempotent but never skipped
// once this path is reached.
func (s *Signer) Sign(ctx context.Context, path string) error {
	return s.runner.Run(ctx, command.Command{
		Desc: fmt.Sprintf("signing %q", path),
		Name: "codesign",
		Args: []string{"--force", "--options", "runtime", "--timestamp", "--sign", s.Identity, path},
	})
}

// SignBundle signs a bundle inside-out: any dylibs in the bundle's nested
// library directory first, then the bundle itself. The outer signature
// covers the inner binaries, so they must already carry valid signatures.
func (s *Signer) SignBundle(ctx context.Context, b *bundle.Bundle) error {
	libs, err := b.Libraries()
	if err != nil {
		return err
	}
	for _, lib := range libs {
		s.log.Info("signing bundled library %s", lib)
		if err := s.Sign(ctx, lib); err != nil {
			return err
		}
	}

	s.log.Info("signing %s bundle %s", b.Format, b.Name())
	return s.Sign(ctx, b.Path)
}
