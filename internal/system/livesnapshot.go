package system

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	coresys "github.com/atlasgo/server/internal/core/system"
	"github.com/atlasgo/server/internal/roster"
)

// LiveSnapshotSystem periodically serializes the visible roster to
// players.json under the web root. Marshaling happens on the tick
// goroutine; the file write is handed to a background writer so the tick
// never blocks on disk. A snapshot is dropped when the writer is behind.
type LiveSnapshotSystem struct {
	roster   *roster.Roster
	hidden   func(uuid.UUID) bool
	path     string
	log      *zap.Logger
	interval int
	counter  int
	out      chan []byte
}

type livePlayer struct {
	UUID   string  `json:"uuid"`
	Name   string  `json:"name"`
	World  string  `json:"world,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Online bool    `json:"online"`
}

type liveFile struct {
	Players []livePlayer `json:"players"`
}

// NewLiveSnapshotSystem creates the snapshot system. hidden reports
// whether a player opted out of the live view; webRoot is the deployed
// web-app root.
func NewLiveSnapshotSystem(r *roster.Roster, hidden func(uuid.UUID) bool, webRoot string, interval int, log *zap.Logger) *LiveSnapshotSystem {
	if interval < 1 {
		interval = 1
	}
	s := &LiveSnapshotSystem{
		roster:   r,
		hidden:   hidden,
		path:     filepath.Join(webRoot, "maps", "live", "players.json"),
		log:      log,
		interval: interval,
		out:      make(chan []byte, 1),
	}
	go s.writer()
	return s
}

func (s *LiveSnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *LiveSnapshotSystem) Update(_ time.Duration) {
	s.counter++
	if s.counter < s.interval {
		return
	}
	s.counter = 0

	players := s.roster.Players()
	file := liveFile{Players: make([]livePlayer, 0, len(players))}
	for _, p := range players {
		if s.hidden != nil && s.hidden(p.ID) {
			continue
		}
		st, live := p.State()
		lp := livePlayer{
			UUID:   p.ID.String(),
			Name:   p.Name,
			X:      st.X,
			Y:      st.Y,
			Z:      st.Z,
			Online: live,
		}
		if st.World != nil {
			lp.World = st.World.Name
		}
		file.Players = append(file.Players, lp)
	}

	data, err := json.Marshal(file)
	if err != nil {
		s.log.Error("live snapshot marshal failed", zap.Error(err))
		return
	}
	select {
	case s.out <- data:
	default:
		// writer still busy with the previous snapshot
	}
}

func (s *LiveSnapshotSystem) writer() {
	for data := range s.out {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			s.log.Warn("live snapshot dir", zap.Error(err))
			continue
		}
		if err := os.WriteFile(s.path, data, 0644); err != nil {
			s.log.Warn("live snapshot write", zap.Error(err))
		}
	}
}

// Close stops the background writer.
func (s *LiveSnapshotSystem) Close() {
	close(s.out)
}
