package registry

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// World is a registered world known to atlas: the canonical object all
// equivalent identifiers resolve to.
type World struct {
	ID      uuid.UUID
	Name    string
	SaveDir string // world storage location; empty for storage-less worlds
}

// MapDef is a registered map definition, loaded from maps.yaml or added at
// runtime. Each map belongs to exactly one world.
type MapDef struct {
	ID        string
	Name      string
	WorldID   uuid.UUID
	SortOrder int
}

// Registry indexes registered worlds and map definitions. Worlds can be
// unregistered at any time; callers get no consistency guarantee between
// two lookups.
type Registry struct {
	mu      sync.RWMutex
	worlds  map[uuid.UUID]*World
	byName  map[string]uuid.UUID // case-folded display name → id
	maps    map[string]*MapDef
	mapList []string // map ids in registration order
	fold    cases.Caser
}

func New() *Registry {
	return &Registry{
		worlds: make(map[uuid.UUID]*World),
		byName: make(map[string]uuid.UUID),
		maps:   make(map[string]*MapDef),
		fold:   cases.Fold(),
	}
}

// RegisterWorld adds or replaces a world. Name lookups are case-folded, so
// two worlds whose names differ only in case collide on the name index;
// the later registration wins the name.
func (r *Registry) RegisterWorld(w *World) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.worlds[w.ID]; ok {
		delete(r.byName, r.fold.String(old.Name))
	}
	r.worlds[w.ID] = w
	r.byName[r.fold.String(w.Name)] = w.ID
}

// UnregisterWorld removes a world by id. Removing an unknown id is a no-op.
func (r *Registry) UnregisterWorld(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.worlds[id]
	if !ok {
		return
	}
	folded := r.fold.String(w.Name)
	if r.byName[folded] == id {
		delete(r.byName, folded)
	}
	delete(r.worlds, id)
}

// WorldByID returns the world with the given stable id, or nil.
func (r *Registry) WorldByID(id uuid.UUID) *World {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.worlds[id]
}

// WorldByName returns the world with the given display name (case-folded),
// or nil.
func (r *Registry) WorldByName(name string) *World {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[r.fold.String(name)]
	if !ok {
		return nil
	}
	return r.worlds[id]
}

// Worlds returns a snapshot of all registered worlds.
func (r *Registry) Worlds() []*World {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*World, 0, len(r.worlds))
	for _, w := range r.worlds {
		out = append(out, w)
	}
	return out
}

// RegisterMap adds or replaces a map definition.
func (r *Registry) RegisterMap(m *MapDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.maps[m.ID]; !ok {
		r.mapList = append(r.mapList, m.ID)
	}
	r.maps[m.ID] = m
}

// UnregisterMap removes a map definition by id. Unknown ids are a no-op.
func (r *Registry) UnregisterMap(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.maps[id]; !ok {
		return
	}
	delete(r.maps, id)
	for i, mid := range r.mapList {
		if mid == id {
			r.mapList = append(r.mapList[:i], r.mapList[i+1:]...)
			break
		}
	}
}

// MapByID returns the map definition with the given id, or nil.
func (r *Registry) MapByID(id string) *MapDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maps[id]
}

// Maps returns all map definitions in registration order.
func (r *Registry) Maps() []*MapDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*MapDef, 0, len(r.mapList))
	for _, id := range r.mapList {
		out = append(out, r.maps[id])
	}
	return out
}

// WorldCount returns the number of registered worlds.
func (r *Registry) WorldCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.worlds)
}

// MapCount returns the number of registered map definitions.
func (r *Registry) MapCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.maps)
}
