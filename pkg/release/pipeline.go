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

// Package release orchestrates the per-bundle progression from unsigned to
// stapled, with an optional disk image track. Bundles are processed
// strictly sequentially; a failure aborts the failing bundle's remaining
// stages and the run continues with the next input.
package release

import (
	"context"
	"io"

	"github.com/fatih/color"

	"github.com/playfultones/quick-actions/pkg/bundle"
	"github.com/playfultones/quick-actions/pkg/codesign"
	"github.com/playfultones/quick-actions/pkg/command"
	"github.com/playfultones/quick-actions/pkg/config"
	"github.com/playfultones/quick-actions/pkg/dmg"
	"github.com/playfultones/quick-actions/pkg/logging"
	"github.com/playfultones/quick-actions/pkg/notary"
)

// Result records the outcome for one input path.
type Result struct {
	// Input is the path as given on the command line.
	Input string
	// Bundle is set when the input parsed as a bundle.
	Bundle *bundle.Bundle
	// Stage is the bundle track's final stage.
	Stage Stage
	// AlreadyComplete is true when the entry probes short-circuited the
	// sign/notarize sequence.
	AlreadyComplete bool
	// ImagePath is the disk image location when one was built or found.
	ImagePath string
	// ImageReused is true when an existing complete image was kept.
	ImageReused bool
	// Skipped is true for inputs that were not processed at all (missing
	// path, unrecognized extension).
	Skipped bool
	// Err is the failure that aborted this input, if any.
	Err error
}

// Pipeline processes bundles one after another.
type Pipeline struct {
	signer *codesign.Signer
	notary *notary.Notarizer
	images *dmg.Builder
	log    logging.Logger
	out    io.Writer

	ok   *color.Color
	warn *color.Color
	fail *color.Color
}

// New builds a Pipeline from validated configuration. All external tools
// run through the given runner; human-readable status goes to out.
func New(cfg *config.Config, runner command.Runner, log logging.Logger, out io.Writer) *Pipeline {
	log = logging.EnsureLogger(log)
	if out == nil {
		out = io.Discard
	}
	signer := codesign.NewSigner(cfg.SigningIdentity, runner, log)
	notarizer := notary.NewNotarizer(cfg.NotaryProfile, runner, log)
	return &Pipeline{
		signer: signer,
		notary: notarizer,
		images: dmg.NewBuilder(signer, notarizer, runner, log),
		log:    log,
		out:    out,
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
	}
}

// Run processes each input path in order. Input errors (missing path,
// unrecognized extension) are warned about and skipped; stage failures
// abort that input and the run continues. The returned results are in
// input order.
func (p *Pipeline) Run(ctx context.Context, paths []string, buildImages bool) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, p.processInput(ctx, path, buildImages))
	}
	return results
}

func (p *Pipeline) processInput(ctx context.Context, path string, buildImage bool) Result {
	res := Result{Input: path}

	b, err := bundle.New(path)
	if err != nil {
		p.warn.Fprintf(p.out, "skipping %s: %v\n", path, err)
		res.Skipped = true
		return res
	}
	res.Bundle = b

	track := &Track{}
	res.AlreadyComplete, res.Err = p.processBundle(ctx, b, track)
	res.Stage = track.Stage()
	if res.Err != nil {
		p.fail.Fprintf(p.out, "✗ %s: %v\n", b.Name(), res.Err)
		return res
	}

	if buildImage {
		p.processImage(ctx, b, &res)
	}
	return res
}

// processBundle drives the bundle track to completion. The boolean reports
// whether the entry probes short-circuited the whole sequence.
func (p *Pipeline) processBundle(ctx context.Context, b *bundle.Bundle, track *Track) (bool, error) {
	p.log.Info("processing %s bundle %s", b.Format, b.Path)

	if p.signer.Verified(ctx, b.Path) && p.notary.Stapled(ctx, b.Path) {
		p.ok.Fprintf(p.out, "✓ %s is already signed and notarized\n", b.Name())
		return true, track.Advance(StageComplete)
	}

	if err := p.signer.SignBundle(ctx, b); err != nil {
		return false, err
	}
	if err := track.Advance(StageSigned); err != nil {
		return false, err
	}
	p.ok.Fprintf(p.out, "✓ signed %s\n", b.Name())

	if err := p.notary.Submit(ctx, b.Path); err != nil {
		return false, err
	}
	if err := track.Advance(StageNotarized); err != nil {
		return false, err
	}

	if err := p.notary.Staple(ctx, b.Path); err != nil {
		return false, err
	}
	if err := track.Advance(StageStapled); err != nil {
		return false, err
	}
	p.ok.Fprintf(p.out, "✓ notarized and stapled %s\n", b.Name())

	return false, track.Advance(StageComplete)
}

// processImage drives the disk image track. It only runs once the bundle
// track is complete.
func (p *Pipeline) processImage(ctx context.Context, b *bundle.Bundle, res *Result) {
	imagePath := b.DMGPath()
	if p.images.Complete(ctx, imagePath) {
		p.ok.Fprintf(p.out, "✓ %s already exists and is notarized\n", imagePath)
		res.ImagePath = imagePath
		res.ImageReused = true
		return
	}

	built, err := p.images.Build(ctx, b)
	if err != nil {
		res.Err = err
		p.fail.Fprintf(p.out, "✗ %s installer image: %v\n", b.Name(), err)
		return
	}
	res.ImagePath = built
	p.ok.Fprintf(p.out, "✓ built installer image %s\n", built)
}

// Failed counts the results that ended in error. Skipped inputs are not
// failures; they were warned about and deliberately left alone.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
