// Package roster tracks the online-player population and hands out
// index-addressable access for the tick scheduler's round-robin refresh.
package roster

import (
	"sync"

	"github.com/google/uuid"
)

// Roster is the concurrently mutable set of online players. An
// identity-indexed map and a dense slice share the same entries; one mutex
// guards every structural mutation and every indexed read, so a leave
// arriving from the notification goroutine can never corrupt an in-progress
// At from the tick goroutine.
type Roster struct {
	mu    sync.Mutex
	index map[uuid.UUID]int // player id → position in list
	list  []*Player
	src   Source
}

func New(src Source) *Roster {
	return &Roster{
		index: make(map[uuid.UUID]int),
		src:   src,
	}
}

// OnPlayerJoin registers a player. Joining an already-present id replaces
// the entry in place; the slice never holds duplicates for one id.
func (r *Roster) OnPlayerJoin(id uuid.UUID, name string) {
	p := newPlayer(id, name, r.src)
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[id]; ok {
		r.list[i] = p
		return
	}
	r.index[id] = len(r.list)
	r.list = append(r.list, p)
}

// OnPlayerLeave removes a player by id. Absent ids are a no-op. Removal
// swaps the last entry into the vacated slot to keep At O(1).
func (r *Roster) OnPlayerLeave(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return
	}
	last := len(r.list) - 1
	if i != last {
		moved := r.list[last]
		r.list[i] = moved
		r.index[moved.ID] = i
	}
	r.list[last] = nil
	r.list = r.list[:last]
	delete(r.index, id)
}

// Size returns the current player count.
func (r *Roster) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}

// At returns the player at position i, or nil if i is out of range. The
// roster may have shrunk since the caller read Size; a nil result means
// "gone, skip", never a fault.
func (r *Roster) At(i int) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.list) {
		return nil
	}
	return r.list[i]
}

// Get returns the player with the given id, or nil.
func (r *Roster) Get(id uuid.UUID) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return r.list[i]
}

// Snapshot returns the identities of all current players.
func (r *Roster) Snapshot() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.list))
	for i, p := range r.list {
		out[i] = p.ID
	}
	return out
}

// Players returns a snapshot of the current player entries.
func (r *Roster) Players() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Player, len(r.list))
	copy(out, r.list)
	return out
}
