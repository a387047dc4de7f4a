package watch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/vigil/command"
	"github.com/grovetools/vigil/config"
	"github.com/grovetools/vigil/errors"
	"github.com/grovetools/vigil/logging"
	"github.com/sirupsen/logrus"
)

// Options configures optional Dispatcher collaborators.
type Options struct {
	// Reporter receives the status stream. Defaults to NopReporter.
	Reporter Reporter

	// Executor creates command processes. Defaults to the real one.
	Executor command.Executor

	// Logger overrides the default "dispatcher" component logger.
	Logger *logrus.Entry
}

// Dispatcher wires PathIndex, Normalizer, one DebounceGate and one Runner
// per group, and owns the run loop over the raw fsnotify stream. Groups
// are fully isolated: each has its own gate, runner, and state; the only
// shared structure is the read-only index.
type Dispatcher struct {
	cfg      *config.Config
	groups   []*Group
	index    *PathIndex
	norm     *Normalizer
	gates    map[string]*DebounceGate
	runners  map[string]*Runner
	watcher  *fsnotify.Watcher
	reporter Reporter
	logger   *logrus.Entry

	// disabled marks groups whose watch setup failed; their signals are
	// dropped while every other group keeps running.
	disabled map[string]bool
	warnings []string
}

// NewDispatcher builds the full engine from a validated configuration and
// subscribes to every needed directory. Watch setup failure is fatal for
// the affected groups only; the constructor errors only when no group
// remains watchable.
func NewDispatcher(cfg *config.Config, opts Options) (*Dispatcher, error) {
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Executor == nil {
		opts.Executor = &command.RealExecutor{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("dispatcher")
	}

	groups, err := BuildGroups(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to normalize tracked paths")
	}

	index := BuildPathIndex(groups, cfg.Settings.Fold())

	norm, err := NewNormalizer(index, cfg.Settings.Ignore, logging.NewLogger("normalizer"))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid ignore pattern")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create filesystem watcher")
	}

	d := &Dispatcher{
		cfg:      cfg,
		groups:   groups,
		index:    index,
		norm:     norm,
		gates:    make(map[string]*DebounceGate, len(groups)),
		runners:  make(map[string]*Runner, len(groups)),
		watcher:  watcher,
		reporter: opts.Reporter,
		logger:   opts.Logger,
		disabled: make(map[string]bool),
	}

	builder := command.NewBuilderWithExecutor(opts.Executor)
	interval := cfg.Debounce()
	for _, group := range groups {
		runner := NewRunner(group, builder, d.reporter, logging.NewLogger("runner").WithField("group", group.Name))
		d.runners[group.Name] = runner
		d.gates[group.Name] = NewDebounceGate(interval, runner.Trigger)
	}

	d.collectWarnings()

	if err := d.subscribe(); err != nil {
		watcher.Close()
		return nil, err
	}

	return d, nil
}

// subscribe adds every parent directory to the watcher. A directory that
// cannot be watched disables the groups tracking files under it.
func (d *Dispatcher) subscribe() error {
	for _, dir := range d.index.Directories() {
		err := d.watcher.Add(dir)
		if err == nil {
			d.logger.WithField("dir", dir).Debug("Watching directory")
			continue
		}
		for _, group := range d.index.GroupsForDirectory(dir) {
			if d.disabled[group.Name] {
				continue
			}
			d.disabled[group.Name] = true
			setupErr := errors.WatchSetup(group.Name, dir, err)
			d.logger.WithError(setupErr).Error("Group disabled")
			d.reporter.Warning(group.Name, setupErr.Error())
		}
	}

	if len(d.disabled) == len(d.groups) {
		return errors.New(errors.ErrCodeWatchSetup, "no group could be watched")
	}
	return nil
}

// collectWarnings records the non-fatal startup conditions: tracked files
// or command programs that do not exist yet. The groups still register; a
// later creation is caught by the parent-directory watch.
func (d *Dispatcher) collectWarnings() {
	for _, group := range d.groups {
		if !command.ProgramExists(group.Command) {
			d.warnings = append(d.warnings,
				fmt.Sprintf("command not found for '%s': %s", group.Name, group.Command.Program))
		}
		for _, path := range group.RawPaths {
			if _, err := os.Stat(path); err != nil {
				d.warnings = append(d.warnings,
					fmt.Sprintf("file not found for '%s': %s", group.Name, path))
			}
		}
	}
}

// Summaries describes every group for the startup report.
func (d *Dispatcher) Summaries() []GroupSummary {
	summaries := make([]GroupSummary, 0, len(d.groups))
	for _, group := range d.groups {
		summary := GroupSummary{
			Name:     group.Name,
			Command:  group.Command.String(),
			Disabled: d.disabled[group.Name],
		}
		for _, path := range group.RawPaths {
			_, err := os.Stat(path)
			summary.Files = append(summary.Files, FileStatus{Path: path, Exists: err == nil})
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Warnings returns the non-fatal startup warnings.
func (d *Dispatcher) Warnings() []string {
	return d.warnings
}

// Run publishes the startup summary and consumes the raw event stream
// until the context is cancelled, then shuts down gracefully: pending
// gate timers are cancelled and in-flight runs are awaited up to the
// configured grace period. Runtime errors are reported and swallowed so
// unaffected groups keep running indefinitely.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.reporter.StartupSummary(d.Summaries(), d.warnings)
	d.logger.WithField("groups", len(d.groups)-len(d.disabled)).Info("Watching for changes")

	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(event)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.WithError(err).Error("Watcher error")
		case <-ctx.Done():
			return d.shutdown()
		}
	}
}

// handleEvent forwards a raw event to each owning group's gate. Routing
// never blocks, so a burst for one group cannot delay another.
func (d *Dispatcher) handleEvent(event fsnotify.Event) {
	for _, signal := range d.norm.Normalize(event) {
		if d.disabled[signal.Group.Name] {
			continue
		}
		d.reporter.ChangeDetected(signal.Group.Name, signal.Path, signal.Kind, signal.Time)
		d.gates[signal.Group.Name].Signal()
	}
}

// shutdown stops the gates first so no trigger fires after this point,
// then waits for in-flight runs within the grace period. Running commands
// are never signalled, only awaited.
func (d *Dispatcher) shutdown() error {
	d.logger.Info("Shutting down")

	for _, gate := range d.gates {
		gate.Stop()
	}
	for _, runner := range d.runners {
		runner.Close()
	}
	d.watcher.Close()

	deadline := time.Now().Add(d.cfg.Settings.ShutdownGrace())
	for name, runner := range d.runners {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		if !runner.Wait(remaining) {
			d.logger.WithField("group", name).Warn("Abandoning run still in flight after grace period")
		}
	}

	d.logger.Info("Watcher stopped")
	return nil
}
