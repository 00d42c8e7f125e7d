package system

import (
	"time"

	"github.com/atlasgo/server/internal/atlas"
	coresys "github.com/atlasgo/server/internal/core/system"
	"go.uber.org/zap"
)

// CacheCleanSystem reaps handle-keyed world-cache entries whose native
// world the host no longer owns. Runs every interval ticks; reaping is the
// only eviction the resolution caches have.
type CacheCleanSystem struct {
	atlas    *atlas.Atlas
	log      *zap.Logger
	interval int
	counter  int
}

func NewCacheCleanSystem(a *atlas.Atlas, interval int, log *zap.Logger) *CacheCleanSystem {
	if interval < 1 {
		interval = 1
	}
	return &CacheCleanSystem{atlas: a, log: log, interval: interval}
}

func (s *CacheCleanSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CacheCleanSystem) Update(_ time.Duration) {
	s.counter++
	if s.counter < s.interval {
		return
	}
	s.counter = 0
	if removed := s.atlas.Clean(); removed > 0 {
		s.log.Debug("reaped dead world handles", zap.Int("removed", removed))
	}
}
