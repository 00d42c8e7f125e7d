package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type probe struct {
	phase Phase
	order *[]Phase
}

func (p *probe) Phase() Phase { return p.phase }
func (p *probe) Update(time.Duration) {
	*p.order = append(*p.order, p.phase)
}

func TestRunnerExecutesInPhaseOrder(t *testing.T) {
	var order []Phase
	r := NewRunner()
	r.Register(&probe{PhaseCleanup, &order})
	r.Register(&probe{PhasePreUpdate, &order})
	r.Register(&probe{PhasePersist, &order})
	r.Register(&probe{PhaseUpdate, &order})

	r.Tick(time.Millisecond)
	assert.Equal(t, []Phase{PhasePreUpdate, PhaseUpdate, PhasePersist, PhaseCleanup}, order)
}

func TestRunnerResortsAfterLateRegister(t *testing.T) {
	var order []Phase
	r := NewRunner()
	r.Register(&probe{PhaseUpdate, &order})
	r.Tick(time.Millisecond)

	r.Register(&probe{PhasePreUpdate, &order})
	order = order[:0]
	r.Tick(time.Millisecond)
	assert.Equal(t, []Phase{PhasePreUpdate, PhaseUpdate}, order)
}
