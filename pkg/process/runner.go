// Package process runs the local interpreter-runner command that submits the
// worker to the cluster. The launcher core only consumes the runner through
// a narrow surface: start it, read its port and connect timeout, and flip
// its running flag once the worker's endpoint answers.
package process

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
)

// AnonymousUser is never passed to the runner for impersonation.
const AnonymousUser = "anonymous"

// Config carries the inputs needed to construct a Runner.
type Config struct {
	// Path is the interpreter-runner executable.
	Path string
	// InterpreterDir is the directory the remote interpreter runs from.
	InterpreterDir string
	// LocalRepoDir is the local dependency repository directory.
	LocalRepoDir string
	// GroupName is the interpreter group name, e.g. "spark".
	GroupName string
	// Port is the port the remote interpreter server binds.
	Port int
	// ConnectTimeout bounds how long a start may wait for the endpoint.
	ConnectTimeout time.Duration
	// Env is appended to the inherited environment.
	Env []string
	// Logger defaults to the global controller-runtime logger.
	Logger logr.Logger
}

// Runner owns one interpreter-runner subprocess.
type Runner struct {
	cfg Config
	log logr.Logger

	cmd     *exec.Cmd
	mu      sync.Mutex
	output  bytes.Buffer
	running atomic.Bool
}

// NewRunner returns a Runner for the given configuration.
func NewRunner(cfg Config) *Runner {
	log := cfg.Logger
	if log.GetSink() == nil {
		log = ctrl.Log.WithName("process")
	}
	return &Runner{cfg: cfg, log: log}
}

// Args builds the interpreter-runner argument list. Impersonation is skipped
// for the anonymous user.
func (r *Runner) Args(groupLabel, processLabel, user string, impersonate bool) []string {
	args := []string{
		"-d", r.cfg.InterpreterDir,
		"-p", strconv.Itoa(r.cfg.Port),
	}
	if impersonate && user != AnonymousUser {
		args = append(args, "-u", user)
	}
	args = append(args,
		"-l", r.cfg.LocalRepoDir,
		"-g", r.cfg.GroupName,
	)
	if groupLabel != "" {
		args = append(args, "-i", groupLabel)
	}
	if processLabel != "" {
		args = append(args, "-t", processLabel)
	}
	return args
}

// Start launches the runner in the background. Combined output is captured
// for diagnostics; the process is reaped asynchronously.
func (r *Runner) Start(ctx context.Context, groupLabel, processLabel, user string, impersonate bool) error {
	args := r.Args(groupLabel, processLabel, user, impersonate)
	r.log.Info("starting interpreter runner", "path", r.cfg.Path, "args", args)

	cmd := exec.CommandContext(ctx, r.cfg.Path, args...)
	cmd.Env = append(os.Environ(), r.cfg.Env...)
	cmd.Stdout = &lockedWriter{mu: &r.mu, buf: &r.output}
	cmd.Stderr = &lockedWriter{mu: &r.mu, buf: &r.output}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start interpreter runner %s: %w", r.cfg.Path, err)
	}
	r.cmd = cmd
	go func() {
		if err := cmd.Wait(); err != nil {
			r.log.V(1).Info("interpreter runner exited", "error", err)
		}
	}()
	return nil
}

// Kill terminates the subprocess if one was started. Best effort: the error
// from an already-exited process is ignored.
func (r *Runner) Kill() {
	if r.cmd != nil && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	r.running.Store(false)
}

// Port returns the port the remote interpreter server binds.
func (r *Runner) Port() int {
	return r.cfg.Port
}

// ConnectTimeout returns how long a start may wait for the endpoint.
func (r *Runner) ConnectTimeout() time.Duration {
	return r.cfg.ConnectTimeout
}

// Running reports whether the worker reached its running state.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// SetRunning flips the running flag. The launcher sets it true exactly once
// per successful start.
func (r *Runner) SetRunning(v bool) {
	r.running.Store(v)
}

// Output returns the combined output captured so far.
func (r *Runner) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// lockedWriter serializes subprocess writes into the shared output buffer.
type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
