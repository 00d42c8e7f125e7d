package atlas

import "github.com/atlasgo/server/internal/registry"

// Map is atlas's immutable handle over a registered map definition plus its
// resolved owning world.
type Map struct {
	def   *registry.MapDef
	world *World
}

func (m *Map) ID() string { return m.def.ID }

func (m *Map) Name() string { return m.def.Name }

func (m *Map) SortOrder() int { return m.def.SortOrder }

// World returns the resolved owning world.
func (m *Map) World() *World { return m.world }
