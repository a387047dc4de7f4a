package watch

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/vigil/config"
	"github.com/grovetools/vigil/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	docsFile := filepath.Join(dir, "index.md")
	apiFile := filepath.Join(dir, "api", "openapi.yml")
	shared := filepath.Join(dir, "shared.conf")

	for _, f := range []string{docsFile, apiFile, shared} {
		testutil.WriteTrackedFile(t, f, "x\n")
	}

	return &config.Config{
		Groups: []config.Group{
			{
				Name:    "docs",
				Command: config.CommandSpec{Program: "/bin/true"},
				Files:   []string{docsFile, shared},
			},
			{
				Name:    "api",
				Command: config.CommandSpec{Program: "/bin/true"},
				Files:   []string{apiFile, shared},
			},
		},
	}, dir
}

func TestResolveTrackedPaths(t *testing.T) {
	cfg, dir := testConfig(t)
	groups, err := BuildGroups(cfg)
	require.NoError(t, err)
	index := BuildPathIndex(groups, cfg.Settings.Fold())

	owners := index.Resolve(filepath.Join(dir, "index.md"))
	require.Len(t, owners, 1)
	assert.Equal(t, "docs", owners[0].Name)

	// Untracked paths resolve to nothing, even near-misses.
	assert.Empty(t, index.Resolve(filepath.Join(dir, "index.md.bak")))
	assert.Empty(t, index.Resolve(filepath.Join(dir, "api", "other.yml")))
}

func TestSharedFileHasTwoOwners(t *testing.T) {
	cfg, dir := testConfig(t)
	groups, err := BuildGroups(cfg)
	require.NoError(t, err)
	index := BuildPathIndex(groups, cfg.Settings.Fold())

	owners := index.Resolve(filepath.Join(dir, "shared.conf"))
	require.Len(t, owners, 2)

	names := []string{owners[0].Name, owners[1].Name}
	assert.ElementsMatch(t, []string{"docs", "api"}, names)
}

func TestResolveFoldsCase(t *testing.T) {
	cfg, dir := testConfig(t)
	groups, err := BuildGroups(cfg)
	require.NoError(t, err)
	index := BuildPathIndex(groups, true)

	upper := filepath.Join(dir, strings.ToUpper("index.md"))
	owners := index.Resolve(upper)
	require.Len(t, owners, 1)
	assert.Equal(t, "docs", owners[0].Name)
}

func TestDirectoriesAreDeduplicated(t *testing.T) {
	cfg, dir := testConfig(t)
	groups, err := BuildGroups(cfg)
	require.NoError(t, err)
	index := BuildPathIndex(groups, cfg.Settings.Fold())

	dirs := index.Directories()
	// index.md and shared.conf share a parent; api/ has its own.
	assert.Len(t, dirs, 2)

	for _, d := range dirs {
		assert.True(t, strings.HasPrefix(d, strings.ToLower(dir)) || strings.HasPrefix(d, dir))
	}
}

func TestGroupsForDirectory(t *testing.T) {
	cfg, dir := testConfig(t)
	groups, err := BuildGroups(cfg)
	require.NoError(t, err)
	index := BuildPathIndex(groups, cfg.Settings.Fold())

	dirs := index.Directories()
	require.Len(t, dirs, 2)

	total := 0
	for _, d := range dirs {
		total += len(index.GroupsForDirectory(d))
	}
	// root dir serves both groups (shared.conf), api dir serves one.
	assert.Equal(t, 3, total)
	_ = dir
}

func TestMissingFileStillIndexes(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "not-yet.md")

	cfg := &config.Config{
		Groups: []config.Group{
			{
				Name:    "docs",
				Command: config.CommandSpec{Program: "/bin/true"},
				Files:   []string{missing},
			},
		},
	}

	groups, err := BuildGroups(cfg)
	require.NoError(t, err)
	index := BuildPathIndex(groups, cfg.Settings.Fold())

	owners := index.Resolve(missing)
	require.Len(t, owners, 1)
	assert.Equal(t, "docs", owners[0].Name)
}
