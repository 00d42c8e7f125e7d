package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate Phase = iota // 0: dispatch last tick's events
	PhaseUpdate                 // 1: player slice refresh
	PhasePersist                // 2: live snapshot + state writes
	PhaseCleanup                // 3: cache reaping
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
