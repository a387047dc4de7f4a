package watch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// defaultIgnorePatterns drops common editor temp-file noise before group
// resolution: vim swap files and its 4913 write probe, backup suffixes,
// and generic temp files.
var defaultIgnorePatterns = []string{
	"*.swp",
	"*.swx",
	"*.tmp",
	"*~",
	"4913",
	".#*",
}

// Normalizer converts raw fsnotify events into per-group change signals.
// It filters to tracked paths and resolves owners; all timing logic lives
// in the debounce gates. Methods are called from the dispatch loop only,
// so no internal locking is needed.
type Normalizer struct {
	index   *PathIndex
	matcher *patternmatcher.PatternMatcher
	logger  *logrus.Entry

	// mtimes tracks last observed modification times so access-only
	// Write events can be dropped, mirroring the mtime check build
	// scripts rely on. Advisory: a failed stat never drops a signal.
	mtimes map[string]time.Time
}

// NewNormalizer builds a Normalizer over the index. Extra ignore patterns
// extend the built-in editor noise set.
func NewNormalizer(index *PathIndex, ignore []string, logger *logrus.Entry) (*Normalizer, error) {
	patterns := append(append([]string{}, defaultIgnorePatterns...), ignore...)
	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		index:   index,
		matcher: matcher,
		logger:  logger,
		mtimes:  make(map[string]time.Time),
	}, nil
}

// Normalize maps one raw event to zero or more signals, one per owning
// group. A rename surfaces the source path here; the destination path
// arrives as its own Create event and is handled the same way.
func (n *Normalizer) Normalize(event fsnotify.Event) []Signal {
	kind, ok := classify(event.Op)
	if !ok {
		return nil
	}

	if n.ignored(event.Name) {
		n.logger.WithField("path", event.Name).Debug("Ignored by pattern")
		return nil
	}

	groups := n.index.Resolve(event.Name)
	if len(groups) == 0 {
		return nil
	}

	if !n.mtimeAdvanced(event.Name, kind) {
		n.logger.WithField("path", event.Name).Debug("Dropped access-only event")
		return nil
	}

	now := time.Now()
	signals := make([]Signal, 0, len(groups))
	for _, group := range groups {
		signals = append(signals, Signal{
			Group: group,
			Path:  event.Name,
			Kind:  kind,
			Time:  now,
		})
	}
	return signals
}

// classify picks the dominant change kind for an event. Chmod-only events
// are metadata noise and dropped.
func classify(op fsnotify.Op) (ChangeKind, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return KindRemoved, true
	case op.Has(fsnotify.Rename):
		return KindRenamed, true
	case op.Has(fsnotify.Create):
		return KindCreated, true
	case op.Has(fsnotify.Write):
		return KindModified, true
	default:
		return 0, false
	}
}

func (n *Normalizer) ignored(path string) bool {
	base := filepath.Base(path)
	if matched, err := n.matcher.MatchesOrParentMatches(base); err == nil && matched {
		return true
	}
	return false
}

// mtimeAdvanced reports whether the file's modification time moved since
// the last observation. Only Write events are filtered; deletes, renames
// and creates always count, and so does any path that cannot be stat'ed.
func (n *Normalizer) mtimeAdvanced(path string, kind ChangeKind) bool {
	switch kind {
	case KindRemoved, KindRenamed:
		delete(n.mtimes, path)
		return true
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(n.mtimes, path)
		return true
	}

	last, seen := n.mtimes[path]
	n.mtimes[path] = info.ModTime()
	if kind == KindModified && seen && info.ModTime().Equal(last) {
		return false
	}
	return true
}
