package web

import (
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var imagePathSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.\-/]`)

// VisibilityStore tracks which players opted out of the live view.
type VisibilityStore interface {
	SetPlayerHidden(id uuid.UUID, hidden bool)
	PlayerHidden(id uuid.UUID) bool
}

// App is the web-app facade handed to third-party integrations: player
// visibility toggles, script/style registration, image deployment.
type App struct {
	files *Files
	vis   VisibilityStore
}

func NewApp(files *Files, vis VisibilityStore) *App {
	return &App{files: files, vis: vis}
}

func (a *App) WebRoot() string { return a.files.WebRoot() }

// SetPlayerVisibility shows or hides a player on the live view.
func (a *App) SetPlayerVisibility(id uuid.UUID, visible bool) {
	a.vis.SetPlayerHidden(id, !visible)
}

// PlayerVisibility reports whether a player appears on the live view.
func (a *App) PlayerVisibility(id uuid.UUID) bool {
	return !a.vis.PlayerHidden(id)
}

// RegisterScript adds a script URL the viewer loads.
func (a *App) RegisterScript(url string) { a.files.RegisterScript(url) }

// RegisterStyle adds a stylesheet URL the viewer loads.
func (a *App) RegisterStyle(url string) { a.files.RegisterStyle(url) }

// CreateImage writes a PNG under webroot/data/images and returns its
// web-root-relative path with forward slashes. The given path is sanitized
// to a safe character set.
func (a *App) CreateImage(img image.Image, path string) (string, error) {
	path = imagePathSanitizer.ReplaceAllString(path, "_")

	imagePath := filepath.Join(a.imageRoot(), filepath.FromSlash(path)+".png")
	if err := os.MkdirAll(filepath.Dir(imagePath), 0755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	out, err := os.Create(imagePath)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	rel, err := filepath.Rel(a.files.WebRoot(), imagePath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// AvailableImages maps image keys (path without extension) to their
// web-root-relative paths.
func (a *App) AvailableImages() (map[string]string, error) {
	images := make(map[string]string)
	root := a.imageRoot()

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".png") {
			return nil
		}
		key, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		key = filepath.ToSlash(strings.TrimSuffix(key, ".png"))
		value, err := filepath.Rel(a.files.WebRoot(), p)
		if err != nil {
			return nil
		}
		images[key] = filepath.ToSlash(value)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return images, nil
		}
		return nil, err
	}
	return images, nil
}

func (a *App) imageRoot() string {
	return filepath.Join(a.files.WebRoot(), "data", "images")
}
