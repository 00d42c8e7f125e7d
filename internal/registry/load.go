package registry

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// WorldEntry is one world definition in maps.yaml.
type WorldEntry struct {
	ID      string `yaml:"id"` // stable uuid
	Name    string `yaml:"name"`
	SaveDir string `yaml:"save_dir"`
}

// MapEntry is one map definition in maps.yaml.
type MapEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	WorldID   string `yaml:"world_id"`
	SortOrder int    `yaml:"sort_order"`
}

type mapsFile struct {
	Worlds []WorldEntry `yaml:"worlds"`
	Maps   []MapEntry   `yaml:"maps"`
}

// LoadFile loads world and map definitions from a YAML file into a new
// Registry. Maps referencing an unknown world id are rejected.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read maps file %s: %w", path, err)
	}
	return Load(data)
}

// Load parses maps.yaml content into a new Registry.
func Load(data []byte) (*Registry, error) {
	var file mapsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse maps file: %w", err)
	}

	reg := New()
	for _, we := range file.Worlds {
		id, err := uuid.Parse(we.ID)
		if err != nil {
			return nil, fmt.Errorf("world %q: bad id %q: %w", we.Name, we.ID, err)
		}
		reg.RegisterWorld(&World{ID: id, Name: we.Name, SaveDir: we.SaveDir})
	}
	for _, me := range file.Maps {
		wid, err := uuid.Parse(me.WorldID)
		if err != nil {
			return nil, fmt.Errorf("map %q: bad world id %q: %w", me.ID, me.WorldID, err)
		}
		if reg.WorldByID(wid) == nil {
			return nil, fmt.Errorf("map %q: unknown world id %s", me.ID, wid)
		}
		reg.RegisterMap(&MapDef{
			ID:        me.ID,
			Name:      me.Name,
			WorldID:   wid,
			SortOrder: me.SortOrder,
		})
	}
	return reg, nil
}
