package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/vigil/command"
	"github.com/grovetools/vigil/config"
	"github.com/grovetools/vigil/errors"
	"github.com/grovetools/vigil/logging"
	"github.com/grovetools/vigil/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReporter captures the status stream for assertions. Shared with
// the dispatcher tests.
type recordingReporter struct {
	mu        sync.Mutex
	changes   []string
	starts    []string
	output    []string
	errOutput []string
	finishes  []runResult
}

type runResult struct {
	group    string
	exitCode int
	err      error
}

func (r *recordingReporter) StartupSummary([]GroupSummary, []string) {}

func (r *recordingReporter) Warning(group, msg string) {}

func (r *recordingReporter) ChangeDetected(group, path string, kind ChangeKind, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, group+":"+filepath.Base(path))
}

func (r *recordingReporter) RunStarted(group string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, group)
}

func (r *recordingReporter) RunOutput(group, line string, stderr bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stderr {
		r.errOutput = append(r.errOutput, line)
	} else {
		r.output = append(r.output, line)
	}
}

func (r *recordingReporter) RunFinished(group string, exitCode int, err error, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishes = append(r.finishes, runResult{group: group, exitCode: exitCode, err: err})
}

func (r *recordingReporter) finished() []runResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]runResult, len(r.finishes))
	copy(out, r.finishes)
	return out
}

func (r *recordingReporter) stdout() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.output))
	copy(out, r.output)
	return out
}

func (r *recordingReporter) stderr() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.errOutput))
	copy(out, r.errOutput)
	return out
}

func (r *recordingReporter) changeEvents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.changes))
	copy(out, r.changes)
	return out
}

func waitForFinishes(t *testing.T, rep *recordingReporter, want int, within time.Duration) []runResult {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if results := rep.finished(); len(results) >= want {
			return results
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d finished runs within %v, got %d", want, within, len(rep.finished()))
	return nil
}

func newTestRunner(t *testing.T, program string, args ...string) (*Runner, *recordingReporter) {
	t.Helper()
	group := &Group{
		Name:    "build",
		Command: config.CommandSpec{Program: program, Args: args},
	}
	rep := &recordingReporter{}
	runner := NewRunner(group, command.NewBuilder(), rep, logging.NewLogger("runner-test"))
	return runner, rep
}

func TestRunnerStreamsOutput(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "build.sh", "echo building\necho oops >&2\necho done\n")
	runner, rep := newTestRunner(t, script)

	runner.Trigger()
	results := waitForFinishes(t, rep, 1, 5*time.Second)

	assert.Equal(t, 0, results[0].exitCode)
	assert.NoError(t, results[0].err)
	assert.Equal(t, []string{"building", "done"}, rep.stdout())
	assert.Equal(t, []string{"oops"}, rep.stderr())
	assert.Equal(t, StateIdle, runner.State())
}

func TestRunnerReportsNonZeroExit(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "fail.sh", "echo broken >&2\nexit 3\n")
	runner, rep := newTestRunner(t, script)

	runner.Trigger()
	results := waitForFinishes(t, rep, 1, 5*time.Second)

	// Non-zero exit is an outcome with no error attached.
	assert.Equal(t, 3, results[0].exitCode)
	assert.NoError(t, results[0].err)
	assert.Equal(t, StateIdle, runner.State())
}

func TestRunnerReportsMissingCommand(t *testing.T) {
	runner, rep := newTestRunner(t, "definitely-not-a-real-command-xyz")

	runner.Trigger()
	results := waitForFinishes(t, rep, 1, 5*time.Second)

	assert.Equal(t, -1, results[0].exitCode)
	require.Error(t, results[0].err)
	assert.True(t, errors.Is(results[0].err, errors.ErrCodeCommandNotFound))

	// The failed run leaves the runner eligible for future triggers.
	assert.Equal(t, StateIdle, runner.State())
}

func TestRunnerCollapsesTriggersDuringRun(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "count")
	// Each run appends a line, then holds long enough for triggers to land
	// while it is still in flight.
	script := testutil.WriteScript(t, t.TempDir(), "slow.sh", "echo run >> "+marker+"\nsleep 0.3\n")
	runner, rep := newTestRunner(t, script)

	runner.Trigger()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, StateRunning, runner.State())

	// Three triggers mid-run collapse into exactly one re-run.
	runner.Trigger()
	runner.Trigger()
	runner.Trigger()

	waitForFinishes(t, rep, 2, 5*time.Second)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, rep.finished(), 2)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "run\nrun\n", string(data))
}

func TestRunnerCloseDiscardsPendingRerun(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "slow.sh", "sleep 0.2\n")
	runner, rep := newTestRunner(t, script)

	runner.Trigger()
	time.Sleep(50 * time.Millisecond)
	runner.Trigger() // would be a re-run
	runner.Close()

	assert.True(t, runner.Wait(5*time.Second))
	assert.Len(t, rep.finished(), 1)

	// Triggers after Close are ignored.
	runner.Trigger()
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, rep.finished(), 1)
}

func TestRunnerWaitTimesOut(t *testing.T) {
	script := testutil.WriteScript(t, t.TempDir(), "hang.sh", "sleep 2\n")
	runner, rep := newTestRunner(t, script)

	runner.Trigger()
	time.Sleep(50 * time.Millisecond)

	assert.False(t, runner.Wait(100*time.Millisecond))
	waitForFinishes(t, rep, 1, 5*time.Second)
}
