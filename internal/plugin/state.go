package plugin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasgo/server/internal/persist"
)

// State is the in-memory plugin state: players hidden from the live view
// and per-map pause flags. Writes go through to the state repo when one is
// configured; repo errors are logged, never propagated — state stays
// authoritative in memory for the process lifetime.
type State struct {
	mu     sync.Mutex
	hidden map[uuid.UUID]struct{}
	paused map[string]bool
	repo   *persist.StateRepo
	log    *zap.Logger
}

func NewState(repo *persist.StateRepo, log *zap.Logger) *State {
	return &State{
		hidden: make(map[uuid.UUID]struct{}),
		paused: make(map[string]bool),
		repo:   repo,
		log:    log,
	}
}

// Load populates state from the repo. No-op without one.
func (s *State) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	ids, err := s.repo.HiddenPlayers(ctx)
	if err != nil {
		return err
	}
	flags, err := s.repo.MapFlags(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.hidden[id] = struct{}{}
	}
	s.paused = flags
	return nil
}

// SetPlayerHidden hides or shows a player on the live view.
func (s *State) SetPlayerHidden(id uuid.UUID, hidden bool) {
	s.mu.Lock()
	if hidden {
		s.hidden[id] = struct{}{}
	} else {
		delete(s.hidden, id)
	}
	s.mu.Unlock()
	s.persistHidden(id, hidden)
}

// PlayerHidden reports whether a player is hidden from the live view.
func (s *State) PlayerHidden(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.hidden[id]
	return ok
}

// SetMapPaused pauses or resumes a map.
func (s *State) SetMapPaused(mapID string, paused bool) {
	s.mu.Lock()
	if paused {
		s.paused[mapID] = true
	} else {
		delete(s.paused, mapID)
	}
	s.mu.Unlock()
	s.persistMapFlag(mapID, paused)
}

// MapPaused reports whether a map is paused.
func (s *State) MapPaused(mapID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused[mapID]
}

func (s *State) persistHidden(id uuid.UUID, hidden bool) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.SetPlayerHidden(ctx, id, hidden); err != nil {
		s.log.Warn("persist hidden player", zap.Stringer("player", id), zap.Error(err))
	}
}

func (s *State) persistMapFlag(mapID string, paused bool) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.SetMapPaused(ctx, mapID, paused); err != nil {
		s.log.Warn("persist map flag", zap.String("map", mapID), zap.Error(err))
	}
}
