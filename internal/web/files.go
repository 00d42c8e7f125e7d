// Package web maintains the web-app root directory for the external map
// viewer: bundled asset deployment, settings.json, and image uploads.
package web

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atlasgo/server/internal/config"
)

// Files manages the web root: deployed viewer assets plus settings.json.
// Not safe for concurrent use; callers serialize access (the plugin facade
// mutates it from the tick goroutine and at boot only).
type Files struct {
	webRoot  string
	version  string
	settings Settings
}

func NewFiles(webRoot, version string) *Files {
	return &Files{
		webRoot:  webRoot,
		version:  version,
		settings: defaultSettings(version),
	}
}

func (f *Files) WebRoot() string { return f.webRoot }

// SettingsPath returns the path of settings.json under the web root.
func (f *Files) SettingsPath() string {
	return filepath.Join(f.webRoot, "settings.json")
}

// LoadSettings reads settings.json from the web root.
func (f *Files) LoadSettings() error {
	data, err := os.ReadFile(f.SettingsPath())
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	f.settings = s
	return nil
}

// SaveSettings writes settings.json, pretty-printed for hand editing.
func (f *Files) SaveSettings() error {
	if err := os.MkdirAll(f.webRoot, 0755); err != nil {
		return fmt.Errorf("create web root: %w", err)
	}
	data, err := json.MarshalIndent(f.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(f.SettingsPath(), data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// ResetSettings restores defaults, dropping registered maps, scripts and
// styles.
func (f *Files) ResetSettings() {
	f.settings = defaultSettings(f.version)
}

// Settings returns the current settings document.
func (f *Files) Settings() Settings { return f.settings }

// AddMap registers a map id in the viewer settings.
func (f *Files) AddMap(mapID string) {
	f.settings.Maps = appendUnique(f.settings.Maps, mapID)
}

// RemoveMap drops a map id from the viewer settings.
func (f *Files) RemoveMap(mapID string) {
	f.settings.Maps = removeString(f.settings.Maps, mapID)
}

// RegisterScript adds a script URL the viewer loads.
func (f *Files) RegisterScript(url string) {
	f.settings.Scripts = appendUnique(f.settings.Scripts, url)
}

// RegisterStyle adds a stylesheet URL the viewer loads.
func (f *Files) RegisterStyle(url string) {
	f.settings.Styles = appendUnique(f.settings.Styles, url)
}

// SetFrom replaces configurable settings from webapp config.
func (f *Files) SetFrom(cfg config.WebappConfig) { f.settings.SetFrom(cfg) }

// AddFrom appends configured scripts/styles to the settings.
func (f *Files) AddFrom(cfg config.WebappConfig) { f.settings.AddFrom(cfg) }

// NeedsUpdate reports whether the web root is missing the deployed viewer.
func (f *Files) NeedsUpdate() bool {
	_, err := os.Stat(filepath.Join(f.webRoot, "index.html"))
	return err != nil
}

// Deploy extracts the bundled viewer zip into the web root and stamps the
// atlas version into index.html.
func (f *Files) Deploy(bundlePath string) error {
	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		return fmt.Errorf("open webapp bundle: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if err := f.extract(entry); err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}

	indexPath := filepath.Join(f.webRoot, "index.html")
	content, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("read index.html: %w", err)
	}
	stamped := strings.ReplaceAll(string(content), "%version%", f.version)
	if err := os.WriteFile(indexPath, []byte(stamped), 0644); err != nil {
		return fmt.Errorf("stamp index.html: %w", err)
	}
	return nil
}

func (f *Files) extract(entry *zip.File) error {
	target, err := f.safePath(entry.Name)
	if err != nil {
		return err
	}
	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safePath rejects zip entries that would escape the web root.
func (f *Files) safePath(name string) (string, error) {
	target := filepath.Join(f.webRoot, filepath.FromSlash(name))
	root := filepath.Clean(f.webRoot) + string(os.PathSeparator)
	if !strings.HasPrefix(target, root) {
		return "", fmt.Errorf("entry %q escapes web root", name)
	}
	return target, nil
}
