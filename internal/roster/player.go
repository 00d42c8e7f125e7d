package roster

import (
	"sync"

	"github.com/google/uuid"

	"github.com/atlasgo/server/internal/host"
)

// Source supplies the live state behind a player's refresh. Implementations
// must not block on I/O; Refresh runs on the tick goroutine.
type Source interface {
	// PlayerState returns the player's current state, or false when the
	// player is no longer connected.
	PlayerState(id uuid.UUID) (State, bool)
}

// State is one refreshed player snapshot.
type State struct {
	World   *host.World
	X, Y, Z float64
}

// Player is one roster entry: stable identity, display name, and the
// last-refreshed state snapshot.
type Player struct {
	ID   uuid.UUID
	Name string

	mu    sync.Mutex
	state State
	live  bool
	src   Source
}

func newPlayer(id uuid.UUID, name string, src Source) *Player {
	return &Player{ID: id, Name: name, src: src}
}

// Refresh pulls the player's current state from the source. Called by the
// tick scheduler; a disconnected player keeps its last snapshot and is
// marked not live.
func (p *Player) Refresh() {
	st, ok := p.src.PlayerState(p.ID)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live = ok
	if ok {
		p.state = st
	}
}

// State returns the last refreshed snapshot and whether the player was
// still connected at that refresh.
func (p *Player) State() (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.live
}
