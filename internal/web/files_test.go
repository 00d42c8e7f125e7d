package web

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasgo/server/internal/config"
)

// writeBundle builds a webapp zip from name→content pairs.
func writeBundle(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webapp.zip")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func TestSettingsRoundTrip(t *testing.T) {
	root := t.TempDir()
	f := NewFiles(root, "1.2.3")
	f.AddMap("over")
	f.AddMap("nether")
	f.RegisterScript("js/x.js")
	require.NoError(t, f.SaveSettings())

	g := NewFiles(root, "1.2.3")
	require.NoError(t, g.LoadSettings())
	s := g.Settings()
	assert.Equal(t, "1.2.3", s.Version)
	assert.Equal(t, []string{"over", "nether"}, s.Maps)
	assert.Equal(t, []string{"js/x.js"}, s.Scripts)
}

func TestAddMapIsUniqueAndRemovable(t *testing.T) {
	f := NewFiles(t.TempDir(), "1")
	f.AddMap("over")
	f.AddMap("over")
	assert.Equal(t, []string{"over"}, f.Settings().Maps)

	f.RemoveMap("over")
	assert.Empty(t, f.Settings().Maps)
	f.RemoveMap("over") // absent is a no-op
}

func TestSetFromClearsRegisteredScripts(t *testing.T) {
	f := NewFiles(t.TempDir(), "1")
	f.RegisterScript("js/runtime-added.js")

	cfg := config.WebappConfig{Scripts: []string{"js/configured.js"}}
	f.SetFrom(cfg)
	assert.Equal(t, []string{"js/configured.js"}, f.Settings().Scripts,
		"SetFrom replaces, it does not merge")

	f.RegisterScript("js/runtime-added.js")
	f.AddFrom(cfg)
	assert.Equal(t, []string{"js/configured.js", "js/runtime-added.js"}, f.Settings().Scripts,
		"AddFrom keeps runtime registrations")
}

func TestDeployExtractsAndStampsVersion(t *testing.T) {
	bundle := writeBundle(t, map[string]string{
		"index.html":  "<html>atlas %version%</html>",
		"js/app.js":   "console.log('hi')",
		"css/app.css": "body{}",
	})

	root := t.TempDir()
	f := NewFiles(root, "9.9.9")
	require.True(t, f.NeedsUpdate())

	require.NoError(t, f.Deploy(bundle))
	assert.False(t, f.NeedsUpdate())

	index, err := os.ReadFile(filepath.Join(root, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>atlas 9.9.9</html>", string(index))

	_, err = os.Stat(filepath.Join(root, "js", "app.js"))
	assert.NoError(t, err)
}

func TestDeployRejectsEscapingEntries(t *testing.T) {
	bundle := writeBundle(t, map[string]string{
		"../outside.txt": "escape",
	})

	parent := t.TempDir()
	root := filepath.Join(parent, "web")
	f := NewFiles(root, "1")

	err := f.Deploy(bundle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes web root")

	_, statErr := os.Stat(filepath.Join(parent, "outside.txt"))
	assert.True(t, os.IsNotExist(statErr), "nothing may be written outside the web root")
}

func TestDeployMissingBundleFails(t *testing.T) {
	f := NewFiles(t.TempDir(), "1")
	assert.Error(t, f.Deploy(filepath.Join(t.TempDir(), "missing.zip")))
}
