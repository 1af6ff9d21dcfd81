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

// Package command runs the external macOS tools quick-actions is built
// around (codesign, xcrun, ditto, hdiutil, sips, cwebp). Every invocation
// goes through the Runner interface so the rest of the code can be tested
// without the tools installed, and so each call can be traced and echoed
// in verbose mode.
package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/playfultones/quick-actions/pkg/logging"
	"github.com/playfultones/quick-actions/pkg/tracing"
)

// Command describes a single external tool invocation.
type Command struct {
	// Desc is a short human-readable description of the step, used in
	// error messages ("signing bundle", "creating disk image").
	Desc string
	// Name is the tool name looked up on PATH.
	Name string
	// Args are the tool arguments.
	Args []string
	// Dir, if set, is the working directory for the invocation.
	Dir string
}

// String renders the invocation the way it would be typed in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes external commands synchronously.
type Runner interface {
	// Run executes the command, discarding output on success. On a
	// non-zero exit it returns a *Error carrying the command, exit code,
	// and combined output.
	Run(ctx context.Context, c Command) error
	// Output executes the command and returns its standard output. Errors
	// behave as with Run.
	Output(ctx context.Context, c Command) ([]byte, error)
}

// Error describes a failed external tool invocation.
type Error struct {
	// Desc is the step description from the Command.
	Desc string
	// Cmd is the shell-style rendering of the invocation.
	Cmd string
	// Code is the tool's exit code, or -1 when the tool could not be run.
	Code int
	// Output is the trimmed combined output, if any was captured.
	Output string
	// Err is the underlying error from os/exec.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %q exited with status %d", e.Desc, e.Cmd, e.Code)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Unwrap returns the underlying os/exec error.
func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the failing tool's exit code so main can propagate it.
func (e *Error) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// ExecRunner is the production Runner backed by os/exec. Each invocation is
// logged at debug level and wrapped in a tracing span named after the tool.
type ExecRunner struct {
	Log logging.Logger
}

// NewExecRunner returns an ExecRunner logging through the given logger.
func NewExecRunner(log logging.Logger) *ExecRunner {
	return &ExecRunner{Log: logging.EnsureLogger(log)}
}

var _ Runner = (*ExecRunner)(nil)

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	_, err := r.exec(ctx, c, false)
	return err
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	return r.exec(ctx, c, true)
}

func (r *ExecRunner) exec(ctx context.Context, c Command, wantOutput bool) ([]byte, error) {
	var out []byte
	err := tracing.Run(ctx, "exec."+c.Name, map[string]interface{}{
		"command": c.String(),
		"step":    c.Desc,
	}, func(ctx context.Context) error {
		r.Log.Debug("exec: %s", c.String())

		cmd := exec.CommandContext(ctx, c.Name, c.Args...)
		cmd.Dir = c.Dir

		var runErr error
		if wantOutput {
			out, runErr = cmd.Output()
		} else {
			out, runErr = cmd.CombinedOutput()
		}
		if runErr == nil {
			return nil
		}

		cerr := &Error{
			Desc:   c.Desc,
			Cmd:    c.String(),
			Code:   -1,
			Output: strings.TrimSpace(string(out)),
			Err:    runErr,
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			cerr.Code = exitErr.ExitCode()
			if wantOutput && cerr.Output == "" {
				cerr.Output = strings.TrimSpace(string(exitErr.Stderr))
			}
		}
		return cerr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
