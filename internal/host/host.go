package host

import "github.com/google/uuid"

// World is the embedding server's native world handle. Atlas compares
// handles by pointer identity only; the handle's lifetime belongs to the
// host, and nothing in atlas may keep one alive after the host unloads it.
type World struct {
	Name    string
	SaveDir string
}

// Host is the narrow surface atlas needs from the embedding server.
type Host interface {
	// ResolveWorldStorage maps a native world handle to the stable id the
	// registry indexes by, usually derived from the world's save location.
	// A failed translation means "not found", never an error.
	ResolveWorldStorage(w *World) (uuid.UUID, bool)

	// LoadedWorlds returns the handles currently loaded by the server.
	// No consistency guarantee across calls.
	LoadedWorlds() []*World

	// WorldLoaded reports whether the handle is still owned by the server.
	// Cache cleanup drops handle-keyed entries that fail this check.
	WorldLoaded(w *World) bool
}
