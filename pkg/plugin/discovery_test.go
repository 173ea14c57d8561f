package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePluginDir(t *testing.T, root, id, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644))
	return dir
}

func TestPluginDiscovery_DiscoverPlugins(t *testing.T) {
	discovery := NewPluginDiscovery(zerolog.Nop())

	user := t.TempDir()
	workspace := t.TempDir()
	extra := t.TempDir()

	writePluginDir(t, user, "alpha", `{}`)
	writePluginDir(t, user, "shared", `{}`)
	writePluginDir(t, workspace, "shared", `{}`)
	writePluginDir(t, extra, "beta", `{}`)

	// Directories without a manifest and plain files are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(user, "no-manifest"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(user, "README"), []byte("x"), 0644))

	plugins := discovery.DiscoverPlugins(DiscoveryConfig{
		UserDir:      user,
		WorkspaceDir: workspace,
		ExtraDirs:    []string{extra, filepath.Join(extra, "missing"), ""},
	})

	require.Len(t, plugins, 3)
	byID := map[string]DiscoveredPlugin{}
	for _, p := range plugins {
		byID[p.ID] = p
	}

	assert.Equal(t, SourceUser, byID["alpha"].Source)
	assert.Equal(t, SourceWorkspace, byID["shared"].Source)
	assert.Equal(t, filepath.Join(workspace, "shared"), byID["shared"].Path)
	assert.Equal(t, SourceExtra, byID["beta"].Source)
	assert.Equal(t, filepath.Join(extra, "beta", ManifestFile), byID["beta"].ManifestPath)
}

func TestPluginDiscovery_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	plugins := NewPluginDiscovery(zerolog.Nop()).DiscoverPlugins(DiscoveryConfig{UserDir: file})
	assert.Empty(t, plugins)
}
