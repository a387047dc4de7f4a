package watch

import (
	"path/filepath"
	"sort"

	"github.com/grovetools/vigil/config"
	"github.com/grovetools/vigil/util/pathutil"
)

// PathIndex is the static mapping from normalized tracked path to owning
// groups. Built once at startup; read-only afterwards, so lookups need no
// locking.
type PathIndex struct {
	fold    bool
	entries map[string][]*Group
	dirs    map[string][]*Group
}

// BuildGroups converts configured groups into engine groups with
// normalized paths.
func BuildGroups(cfg *config.Config) ([]*Group, error) {
	fold := cfg.Settings.Fold()
	groups := make([]*Group, 0, len(cfg.Groups))

	for _, gc := range cfg.Groups {
		group := &Group{
			Name:     gc.Name,
			Command:  gc.Command,
			Paths:    make([]string, 0, len(gc.Files)),
			RawPaths: make([]string, 0, len(gc.Files)),
		}
		for _, file := range gc.Files {
			norm, err := pathutil.NormalizeForLookup(file, fold)
			if err != nil {
				return nil, err
			}
			group.Paths = append(group.Paths, norm)
			group.RawPaths = append(group.RawPaths, file)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// BuildPathIndex indexes the groups' tracked paths and their parent
// directories. A file tracked by two groups gets both as owners.
func BuildPathIndex(groups []*Group, fold bool) *PathIndex {
	index := &PathIndex{
		fold:    fold,
		entries: make(map[string][]*Group),
		dirs:    make(map[string][]*Group),
	}

	for _, group := range groups {
		for _, path := range group.Paths {
			if !containsGroup(index.entries[path], group) {
				index.entries[path] = append(index.entries[path], group)
			}
			dir := filepath.Dir(path)
			if !containsGroup(index.dirs[dir], group) {
				index.dirs[dir] = append(index.dirs[dir], group)
			}
		}
	}

	return index
}

// Resolve maps a raw event path to its owning groups. Untracked paths
// return nil and the event is ignored.
func (ix *PathIndex) Resolve(raw string) []*Group {
	norm, err := pathutil.NormalizeForLookup(raw, ix.fold)
	if err != nil {
		return nil
	}
	return ix.entries[norm]
}

// Directories returns the sorted set of parent directories to subscribe
// to. Most watch APIs cannot watch a single file, so the engine watches
// each tracked file's parent instead.
func (ix *PathIndex) Directories() []string {
	dirs := make([]string, 0, len(ix.dirs))
	for dir := range ix.dirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// GroupsForDirectory returns the groups that track at least one file in
// the directory. Used to scope watch setup failures to affected groups.
func (ix *PathIndex) GroupsForDirectory(dir string) []*Group {
	return ix.dirs[dir]
}

func containsGroup(groups []*Group, g *Group) bool {
	for _, existing := range groups {
		if existing == g {
			return true
		}
	}
	return false
}
