// Package atlas resolves heterogeneous world and map identifiers into
// canonical wrapper handles, memoizing results per identifier.
package atlas

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/atlasgo/server/internal/fault"
	"github.com/atlasgo/server/internal/host"
	"github.com/atlasgo/server/internal/registry"
)

// Atlas is the resolution facade. One world cache keyed by Ident, one map
// cache keyed by map id; both single-flight with memoized negatives.
// Safe for concurrent use from any goroutine.
type Atlas struct {
	reg    *registry.Registry
	host   host.Host
	report fault.Reporter

	worlds *Cache[Ident, *World]
	maps   *Cache[string, *Map]
}

func New(reg *registry.Registry, h host.Host, report fault.Reporter) *Atlas {
	a := &Atlas{
		reg:    reg,
		host:   h,
		report: report,
	}
	a.worlds = NewCache(a.WorldUncached, a.identLive)
	a.maps = NewCache(a.MapUncached, nil)
	return a
}

// World resolves a world identifier through the cache. The second return
// is false when the identifier resolves to no world; that outcome is
// memoized and not retried while the entry lives.
func (a *Atlas) World(id Ident) (*World, bool) {
	return a.worlds.Get(id)
}

// WorldUncached resolves a world identifier, bypassing the cache. Exposed
// for pre-warming and tests.
//
// Precedence: an already-resolved Ref short-circuits; an ID is looked up
// by stable id; a Name is tried as a stable id first (when it parses as a
// uuid) and by display name second; a Handle is translated to a stable id
// through the host's storage resolution. Whatever matched flows into
// wrapper construction; construction failure is reported and resolves to
// "no world", exactly like a miss.
func (a *Atlas) WorldUncached(id Ident) (*World, bool) {
	var rw *registry.World

	switch v := id.(type) {
	case Ref:
		rw = v.World
	case ID:
		rw = a.reg.WorldByID(v.UUID)
	case Name:
		if uid, err := uuid.Parse(v.Value); err == nil {
			rw = a.reg.WorldByID(uid)
		}
		if rw == nil {
			rw = a.reg.WorldByName(v.Value)
		}
	case Handle:
		if v.World == nil {
			return nil, false
		}
		uid, ok := a.host.ResolveWorldStorage(v.World)
		if !ok {
			return nil, false
		}
		rw = a.reg.WorldByID(uid)
	}
	if rw == nil {
		return nil, false
	}

	w, err := newWorld(rw)
	if err != nil {
		a.report.ReportError(fmt.Sprintf("atlas: building world %s failed", rw.ID), err)
		return nil, false
	}
	return w, true
}

// Map resolves a map id through the cache.
func (a *Atlas) Map(id string) (*Map, bool) {
	return a.maps.Get(id)
}

// MapUncached resolves a map id, bypassing the map cache. The owning world
// still goes through the world cache; if it resolves to nothing, the map
// resolves to nothing as well — no partially constructed Map escapes.
func (a *Atlas) MapUncached(id string) (*Map, bool) {
	def := a.reg.MapByID(id)
	if def == nil {
		return nil, false
	}
	w, ok := a.World(ID{UUID: def.WorldID})
	if !ok {
		return nil, false
	}
	return &Map{def: def, world: w}, true
}

// Worlds resolves every registered world through the cache. Worlds that
// fail to resolve are skipped.
func (a *Atlas) Worlds() []*World {
	regWorlds := a.reg.Worlds()
	out := make([]*World, 0, len(regWorlds))
	for _, rw := range regWorlds {
		if w, ok := a.World(ID{UUID: rw.ID}); ok {
			out = append(out, w)
		}
	}
	return out
}

// Maps resolves every registered map through the cache, in registration
// order. Maps whose world fails to resolve are skipped.
func (a *Atlas) Maps() []*Map {
	defs := a.reg.Maps()
	out := make([]*Map, 0, len(defs))
	for _, def := range defs {
		if m, ok := a.Map(def.ID); ok {
			out = append(out, m)
		}
	}
	return out
}

// Clean drops world-cache entries keyed by native handles the host no
// longer owns. Returns the number of entries removed.
func (a *Atlas) Clean() int {
	return a.worlds.Clean()
}

// WorldCacheLen reports the world cache size, for tests and diagnostics.
func (a *Atlas) WorldCacheLen() int { return a.worlds.Len() }

// identLive reports key liveness for the world cache. Only handle keys can
// die; ids, names and refs are retained normally.
func (a *Atlas) identLive(id Ident) bool {
	h, ok := id.(Handle)
	if !ok {
		return true
	}
	return a.host.WorldLoaded(h.World)
}
