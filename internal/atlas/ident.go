package atlas

import (
	"github.com/google/uuid"

	"github.com/atlasgo/server/internal/host"
	"github.com/atlasgo/server/internal/registry"
)

// Ident identifies a world to the resolver. It is a closed set of four
// variants; values are comparable and used directly as cache keys.
type Ident interface {
	ident()
}

// Handle identifies a world by the host's native handle. Compared by
// pointer identity. Handle-keyed cache entries are dropped by Clean once
// the host no longer owns the handle.
type Handle struct {
	World *host.World
}

// ID identifies a world by its stable id.
type ID struct {
	UUID uuid.UUID
}

// Name identifies a world by display name. A name that parses as a uuid is
// first tried as a stable id; the id match wins over a name match.
type Name struct {
	Value string
}

// Ref wraps an already-resolved registry world. Resolution skips all
// registry lookups and goes straight to wrapper construction.
type Ref struct {
	World *registry.World
}

func (Handle) ident() {}
func (ID) ident()     {}
func (Name) ident()   {}
func (Ref) ident()    {}
