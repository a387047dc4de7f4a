package watch

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/grovetools/vigil/command"
	"github.com/grovetools/vigil/errors"
	"github.com/sirupsen/logrus"
)

// Runner executes one group's build command with at-most-one concurrent
// execution. A trigger arriving while a run is in flight sets a single
// pending flag; when the run completes, exactly one more run starts before
// the runner returns to idle. Multiple triggers during a run still
// collapse to one re-run since only the last state matters.
type Runner struct {
	group    *Group
	builder  *command.Builder
	reporter Reporter
	logger   *logrus.Entry

	mu      sync.Mutex
	state   RunState
	pending bool
	closed  bool
	wg      sync.WaitGroup
}

// NewRunner creates a Runner for the group.
func NewRunner(group *Group, builder *command.Builder, reporter Reporter, logger *logrus.Entry) *Runner {
	return &Runner{
		group:    group,
		builder:  builder,
		reporter: reporter,
		logger:   logger,
	}
}

// Trigger requests a run. Never blocks: if the group is idle a run starts
// on its own goroutine; if it is already running, a re-run is noted.
func (r *Runner) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if r.state == StateRunning {
		r.pending = true
		return
	}

	r.state = StateRunning
	r.wg.Add(1)
	go r.loop()
}

// State returns the current run state.
func (r *Runner) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close prevents any further runs from starting. An in-flight run is not
// interrupted, and a pending re-run is discarded.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.pending = false
	r.mu.Unlock()
}

// Wait blocks until the in-flight run (if any) completes, or the timeout
// elapses. Reports whether the runner drained in time.
func (r *Runner) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (r *Runner) loop() {
	defer r.wg.Done()

	for {
		r.runOnce()

		r.mu.Lock()
		if r.pending && !r.closed {
			// Trailing-edge re-trigger: a change arrived mid-run.
			r.pending = false
			r.mu.Unlock()
			continue
		}
		r.state = StateIdle
		r.mu.Unlock()
		return
	}
}

// runOnce executes the command to completion, streaming output lines as
// they appear. Failures are reported, never propagated: the group stays
// eligible for future triggers regardless of outcome.
func (r *Runner) runOnce() {
	started := time.Now()
	r.reporter.RunStarted(r.group.Name, started)
	r.logger.WithField("command", r.group.Command.String()).Info("Run started")

	// Background context: shutdown waits for runs instead of killing them.
	cmd := r.builder.Build(context.Background(), r.group.Command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.finish(-1, errors.CommandSpawn(r.group.Command.String(), err), started)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		r.finish(-1, errors.CommandSpawn(r.group.Command.String(), err), started)
		return
	}

	if err := cmd.Start(); err != nil {
		spec := r.group.Command.String()
		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			r.finish(-1, errors.CommandNotFound(spec), started)
		} else {
			r.finish(-1, errors.CommandSpawn(spec, err), started)
		}
		return
	}

	var streams sync.WaitGroup
	streams.Add(2)
	go r.stream(stdout, false, &streams)
	go r.stream(stderr, true, &streams)
	streams.Wait()

	err = cmd.Wait()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// Non-zero exit is an outcome, not an infrastructure error.
			exitCode = exitErr.ExitCode()
			err = nil
		} else {
			exitCode = -1
		}
	}
	r.finish(exitCode, err, started)
}

func (r *Runner) stream(pipe io.Reader, stderr bool, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.reporter.RunOutput(r.group.Name, scanner.Text(), stderr)
	}
}

func (r *Runner) finish(exitCode int, err error, started time.Time) {
	duration := time.Since(started)
	if err != nil {
		r.logger.WithError(err).Warn("Run failed to execute")
	} else if exitCode != 0 {
		r.logger.WithField("exit_code", exitCode).Warn("Run exited non-zero")
	} else {
		r.logger.WithField("duration", duration.Round(time.Millisecond)).Info("Run completed")
	}
	r.reporter.RunFinished(r.group.Name, exitCode, err, duration)
}
