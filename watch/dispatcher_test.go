package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/vigil/config"
	"github.com/grovetools/vigil/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

// dispatcherFixture builds a two-group config over real temp files whose
// commands append their group name to a shared marker file.
func dispatcherFixture(t *testing.T) (*config.Config, string, string) {
	t.Helper()
	dir := t.TempDir()
	marker := filepath.Join(dir, "runs.log")

	docsFile := filepath.Join(dir, "index.md")
	apiFile := filepath.Join(dir, "api", "openapi.yml")
	testutil.WriteTrackedFile(t, docsFile, "v1\n")
	testutil.WriteTrackedFile(t, apiFile, "v1\n")

	docsScript := testutil.WriteScript(t, t.TempDir(), "docs.sh", "echo docs >> "+marker+"\n")
	apiScript := testutil.WriteScript(t, t.TempDir(), "api.sh", "echo api >> "+marker+"\n")

	cfg := &config.Config{
		Groups: []config.Group{
			{
				Name:    "docs",
				Command: config.CommandSpec{Program: docsScript},
				Files:   []string{docsFile},
			},
			{
				Name:    "api",
				Command: config.CommandSpec{Program: apiScript},
				Files:   []string{apiFile},
			},
		},
		DebounceSeconds: floatPtr(0.1),
		Settings: config.Settings{
			ShutdownGraceSeconds: floatPtr(5),
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg, dir, marker
}

func startDispatcher(t *testing.T, cfg *config.Config, rep Reporter) (context.CancelFunc, chan error) {
	t.Helper()
	d, err := NewDispatcher(cfg, Options{Reporter: rep})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Give the run loop a moment to start consuming events.
	time.Sleep(50 * time.Millisecond)
	return cancel, done
}

func stopDispatcher(t *testing.T, cancel context.CancelFunc, done chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("dispatcher did not shut down")
	}
}

func markerLines(t *testing.T, marker string) []string {
	t.Helper()
	data, err := os.ReadFile(marker)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Fields(string(data))
}

func waitForMarker(t *testing.T, marker string, want int, within time.Duration) []string {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if lines := markerLines(t, marker); len(lines) >= want {
			return lines
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected %d runs within %v, got %v", want, within, markerLines(t, marker))
	return nil
}

func TestDispatcherRunsOnlyTheAffectedGroup(t *testing.T) {
	cfg, dir, marker := dispatcherFixture(t)
	rep := &recordingReporter{}
	cancel, done := startDispatcher(t, cfg, rep)
	defer stopDispatcher(t, cancel, done)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("v2\n"), 0600))

	lines := waitForMarker(t, marker, 1, 5*time.Second)
	assert.Equal(t, []string{"docs"}, lines)
	assert.Contains(t, rep.changeEvents(), "docs:index.md")

	// The untouched group never ran.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, []string{"docs"}, markerLines(t, marker))
}

func TestDispatcherCoalescesBurstIntoOneRun(t *testing.T) {
	cfg, dir, marker := dispatcherFixture(t)
	rep := &recordingReporter{}
	cancel, done := startDispatcher(t, cfg, rep)
	defer stopDispatcher(t, cancel, done)

	path := filepath.Join(dir, "index.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", i+2)+"\n"), 0600))
		time.Sleep(20 * time.Millisecond)
	}

	waitForMarker(t, marker, 1, 5*time.Second)
	// Quiet period long past; the burst produced exactly one run.
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []string{"docs"}, markerLines(t, marker))
}

func TestDispatcherIgnoresUntrackedFiles(t *testing.T) {
	cfg, dir, marker := dispatcherFixture(t)
	rep := &recordingReporter{}
	cancel, done := startDispatcher(t, cfg, rep)
	defer stopDispatcher(t, cancel, done)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi\n"), 0600))

	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, markerLines(t, marker))
	assert.Empty(t, rep.changeEvents())
}

func TestDispatcherSeesRecreatedFile(t *testing.T) {
	cfg, dir, marker := dispatcherFixture(t)
	rep := &recordingReporter{}
	cancel, done := startDispatcher(t, cfg, rep)
	defer stopDispatcher(t, cancel, done)

	path := filepath.Join(dir, "index.md")
	require.NoError(t, os.Remove(path))
	waitForMarker(t, marker, 1, 5*time.Second)

	// The parent-directory watch survives the deletion, so the recreated
	// file triggers again.
	require.NoError(t, os.WriteFile(path, []byte("reborn\n"), 0600))
	waitForMarker(t, marker, 2, 5*time.Second)
}

func TestDispatcherDisablesOnlyTheUnwatchableGroup(t *testing.T) {
	cfg, dir, marker := dispatcherFixture(t)

	// Point one group at a file under a directory that does not exist, so
	// its watch registration fails while the other group stays live.
	cfg.Groups[1].Files = []string{filepath.Join(dir, "missing", "deep", "openapi.yml")}

	rep := &recordingReporter{}
	d, err := NewDispatcher(cfg, Options{Reporter: rep})
	require.NoError(t, err)

	summaries := d.Summaries()
	byName := map[string]GroupSummary{}
	for _, s := range summaries {
		byName[s.Name] = s
	}
	assert.False(t, byName["docs"].Disabled)
	assert.True(t, byName["api"].Disabled)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	defer stopDispatcher(t, cancel, done)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("v2\n"), 0600))
	lines := waitForMarker(t, marker, 1, 5*time.Second)
	assert.Equal(t, []string{"docs"}, lines)
}

func TestDispatcherFailsWhenNoGroupIsWatchable(t *testing.T) {
	cfg, dir, _ := dispatcherFixture(t)
	cfg.Groups[0].Files = []string{filepath.Join(dir, "gone-a", "f")}
	cfg.Groups[1].Files = []string{filepath.Join(dir, "gone-b", "f")}

	_, err := NewDispatcher(cfg, Options{Reporter: &recordingReporter{}})
	require.Error(t, err)
}

func TestDispatcherWarnsAboutMissingFilesAndCommands(t *testing.T) {
	cfg, dir, _ := dispatcherFixture(t)
	cfg.Groups[0].Command = config.CommandSpec{Program: filepath.Join(dir, "no-such-build.sh")}
	cfg.Groups[0].Files = append(cfg.Groups[0].Files, filepath.Join(dir, "later.md"))

	d, err := NewDispatcher(cfg, Options{Reporter: &recordingReporter{}})
	require.NoError(t, err)
	defer d.watcher.Close()

	warnings := strings.Join(d.Warnings(), "\n")
	assert.Contains(t, warnings, "command not found for 'docs'")
	assert.Contains(t, warnings, "later.md")
}

func TestDispatcherShutdownWaitsForInFlightRun(t *testing.T) {
	cfg, dir, marker := dispatcherFixture(t)
	slow := testutil.WriteScript(t, t.TempDir(), "slow.sh", "sleep 0.3\necho docs >> "+marker+"\n")
	cfg.Groups[0].Command = config.CommandSpec{Program: slow}

	rep := &recordingReporter{}
	cancel, done := startDispatcher(t, cfg, rep)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("v2\n"), 0600))

	// Wait for the run to start, then shut down while it is in flight.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rep.mu.Lock()
		started := len(rep.starts) > 0
		rep.mu.Unlock()
		if started {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	stopDispatcher(t, cancel, done)
	assert.Equal(t, []string{"docs"}, markerLines(t, marker))
}
