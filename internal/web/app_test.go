package web

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memVisibility struct {
	hidden map[uuid.UUID]bool
}

func newMemVisibility() *memVisibility {
	return &memVisibility{hidden: make(map[uuid.UUID]bool)}
}

func (v *memVisibility) SetPlayerHidden(id uuid.UUID, hidden bool) { v.hidden[id] = hidden }
func (v *memVisibility) PlayerHidden(id uuid.UUID) bool            { return v.hidden[id] }

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func TestPlayerVisibilityToggles(t *testing.T) {
	app := NewApp(NewFiles(t.TempDir(), "1"), newMemVisibility())
	id := uuid.New()

	assert.True(t, app.PlayerVisibility(id), "players start visible")
	app.SetPlayerVisibility(id, false)
	assert.False(t, app.PlayerVisibility(id))
	app.SetPlayerVisibility(id, true)
	assert.True(t, app.PlayerVisibility(id))
}

func TestCreateImageWritesUnderWebRoot(t *testing.T) {
	root := t.TempDir()
	app := NewApp(NewFiles(root, "1"), newMemVisibility())

	rel, err := app.CreateImage(testImage(), "markers/base")
	require.NoError(t, err)
	assert.Equal(t, "data/images/markers/base.png", rel)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.NoError(t, err)
}

func TestCreateImageSanitizesPath(t *testing.T) {
	root := t.TempDir()
	app := NewApp(NewFiles(root, "1"), newMemVisibility())

	rel, err := app.CreateImage(testImage(), "bad name!/with spaces")
	require.NoError(t, err)
	assert.Equal(t, "data/images/bad_name_/with_spaces.png", rel)
}

func TestAvailableImages(t *testing.T) {
	root := t.TempDir()
	app := NewApp(NewFiles(root, "1"), newMemVisibility())

	_, err := app.CreateImage(testImage(), "markers/base")
	require.NoError(t, err)
	_, err = app.CreateImage(testImage(), "flags/red")
	require.NoError(t, err)

	images, err := app.AvailableImages()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"markers/base": "data/images/markers/base.png",
		"flags/red":    "data/images/flags/red.png",
	}, images)
}

func TestAvailableImagesEmptyRoot(t *testing.T) {
	app := NewApp(NewFiles(t.TempDir(), "1"), newMemVisibility())
	images, err := app.AvailableImages()
	require.NoError(t, err)
	assert.Empty(t, images)
}
