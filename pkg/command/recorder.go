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

package command

import "context"

// Recorder is a Runner for tests. It records every invocation and delegates
// results to the Stub function; with a nil Stub every command succeeds with
// no output.
type Recorder struct {
	// Calls lists the commands run, in order.
	Calls []Command
	// Stub, if set, supplies the output and error for each command.
	Stub func(c Command) ([]byte, error)
}

var _ Runner = (*Recorder)(nil)

// Run implements Runner.
func (r *Recorder) Run(ctx context.Context, c Command) error {
	_, err := r.Output(ctx, c)
	return err
}

// Output implements Runner.
func (r *Recorder) Output(_ context.Context, c Command) ([]byte, error) {
	r.Calls = append(r.Calls, c)
	if r.Stub == nil {
		return nil, nil
	}
	return r.Stub(c)
}

// Ran reports whether any recorded invocation used the given tool name.
func (r *Recorder) Ran(name string) bool {
	for _, c := range r.Calls {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CallsTo returns the recorded invocations of the given tool name.
func (r *Recorder) CallsTo(name string) []Command {
	var out []Command
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
