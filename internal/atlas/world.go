package atlas

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/atlasgo/server/internal/registry"
)

// World is atlas's immutable handle over a canonical registry world.
// Two identifiers resolving to the same registry world get independent
// World values; nothing deduplicates wrappers by canonical object.
type World struct {
	id      uuid.UUID
	name    string
	saveDir string
	source  *registry.World
}

// newWorld constructs a wrapper over a resolved registry world. Worlds with
// a storage location must have it readable at construction time; a world
// with no SaveDir is storage-less and always constructs.
func newWorld(rw *registry.World) (*World, error) {
	if rw.SaveDir != "" {
		if _, err := os.Stat(rw.SaveDir); err != nil {
			return nil, fmt.Errorf("world %s storage: %w", rw.ID, err)
		}
	}
	return &World{
		id:      rw.ID,
		name:    rw.Name,
		saveDir: rw.SaveDir,
		source:  rw,
	}, nil
}

func (w *World) ID() uuid.UUID { return w.id }

func (w *World) Name() string { return w.name }

func (w *World) SaveDir() string { return w.saveDir }

// Source returns the canonical registry world this wrapper was built from.
func (w *World) Source() *registry.World { return w.source }
