package system

import (
	"fmt"
	"time"

	coresys "github.com/atlasgo/server/internal/core/system"
	"github.com/atlasgo/server/internal/fault"
	"github.com/atlasgo/server/internal/roster"
)

// PlayerUpdateSystem refreshes a bounded slice of the roster each tick.
// With batch = max(1, n/20) the whole roster is covered about once every
// 20 ticks regardless of population size. The discipline is approximate:
// joins and leaves mid-tick may skip or double-visit a player across tick
// boundaries, which is fine — only bounded per-tick work matters.
type PlayerUpdateSystem struct {
	roster *roster.Roster
	report fault.Reporter
	cursor int
}

func NewPlayerUpdateSystem(r *roster.Roster, report fault.Reporter) *PlayerUpdateSystem {
	return &PlayerUpdateSystem{roster: r, report: report}
}

func (s *PlayerUpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PlayerUpdateSystem) Update(_ time.Duration) {
	n := s.roster.Size()
	if n == 0 {
		return
	}
	batch := n / 20
	if batch == 0 {
		batch = 1
	}
	for i := 0; i < batch; i++ {
		// Re-read the size every iteration: concurrent leaves may shrink
		// the roster mid-batch and the cursor must wrap against the
		// current length, never a stale one.
		n = s.roster.Size()
		if n == 0 {
			return
		}
		s.cursor++
		if s.cursor >= n {
			s.cursor = 0
		}
		p := s.roster.At(s.cursor)
		if p == nil {
			continue
		}
		s.refresh(p)
	}
}

// refresh runs one player's refresh with panic isolation: a faulting
// refresh is reported and skipped, never aborting the rest of the tick.
func (s *PlayerUpdateSystem) refresh(p *roster.Player) {
	defer func() {
		if r := recover(); r != nil {
			s.report.ReportError(
				fmt.Sprintf("player update: refresh of %s panicked", p.ID),
				fmt.Errorf("%v", r),
			)
		}
	}()
	p.Refresh()
}
