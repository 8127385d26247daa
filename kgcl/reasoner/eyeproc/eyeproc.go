// Package eyeproc implements reasoner.Reasoner by shelling out to the
// EYE (Euler Yet another proof Engine) N3 reasoner executable.
// Grounded on
// _examples/original_source/src/kgcl/hybrid/eye_reasoner.py's
// EYEReasoner: the --nope/--pass flag convention, the
// write-temp-files-then-exec pattern, and the
// not-found/timeout/non-zero-exit error split, reimplemented with
// os/exec.CommandContext so the configured timeout is a context
// deadline rather than a subprocess.run(timeout=...) argument.
package eyeproc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"eve.evalgo.org/common"
	"eve.evalgo.org/kgcl/errs"
	"eve.evalgo.org/kgcl/reasoner"
)

// Config configures EYE subprocess execution, matching
// SPEC_FULL.md §4.2's reasoner configuration block.
type Config struct {
	EyePath           string        // command or path, default "eye"
	Timeout           time.Duration // default 30s
	DisableProofTrace bool          // --nope
	EmitClosure       bool          // --pass
}

// DefaultConfig returns the EYE defaults used by the Python original:
// --nope --pass, 30s timeout.
func DefaultConfig() Config {
	return Config{
		EyePath:           "eye",
		Timeout:           30 * time.Second,
		DisableProofTrace: true,
		EmitClosure:       true,
	}
}

// Reasoner invokes the "eye" executable as a subprocess per tick.
type Reasoner struct {
	cfg Config
}

// New constructs an eyeproc.Reasoner. It does not itself check
// availability; callers should call IsAvailable and surface
// errs.UnavailableError at construction time, per SPEC_FULL.md §4.2.
func New(cfg Config) *Reasoner {
	if cfg.EyePath == "" {
		cfg.EyePath = "eye"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Reasoner{cfg: cfg}
}

func (r *Reasoner) IsAvailable(ctx context.Context) bool {
	_, err := exec.LookPath(r.cfg.EyePath)
	return err == nil
}

func (r *Reasoner) buildArgs(statePath, rulesPath string) []string {
	var args []string
	if r.cfg.DisableProofTrace {
		args = append(args, "--nope")
	}
	if r.cfg.EmitClosure {
		args = append(args, "--pass")
	}
	return append(args, statePath, rulesPath)
}

func (r *Reasoner) Reason(ctx context.Context, state, rulesText string) (reasoner.Result, error) {
	statePath, cleanupState, err := writeTemp("kgcl-state-*.n3", state)
	if err != nil {
		return reasoner.Result{}, &errs.UnavailableError{Component: "eye", Cause: err}
	}
	defer cleanupState()

	rulesPath, cleanupRules, err := writeTemp("kgcl-rules-*.n3", rulesText)
	if err != nil {
		return reasoner.Result{}, &errs.UnavailableError{Component: "eye", Cause: err}
	}
	defer cleanupRules()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.cfg.EyePath, r.buildArgs(statePath, rulesPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	duration := time.Since(start).Seconds() * 1000

	if ctx.Err() == context.DeadlineExceeded {
		msg := fmt.Sprintf("EYE reasoning timed out after %s", r.cfg.Timeout)
		common.Logger.WithField("duration_ms", duration).Warn(msg)
		return reasoner.Result{Success: false, Error: msg, DurationMS: duration},
			&errs.TimeoutError{Operation: "eye.reason", Cause: ctx.Err()}
	}
	if runErr != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = runErr.Error()
		}
		common.Logger.WithFields(map[string]interface{}{
			"duration_ms": duration,
			"error":       errMsg,
		}).Error("eye reasoning failed")
		return reasoner.Result{Success: false, Error: errMsg, DurationMS: duration}, nil
	}

	common.Logger.WithField("duration_ms", duration).Info("eye reasoning completed")
	return reasoner.Result{Success: true, Output: stdout.String(), DurationMS: duration}, nil
}

func writeTemp(pattern, contents string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	if _, err := f.WriteString(contents); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
