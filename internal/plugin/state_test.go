package plugin

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMemoryStateDefaults(t *testing.T) {
	s := NewState(nil, zap.NewNop())
	id := uuid.New()

	assert.False(t, s.PlayerHidden(id))
	assert.False(t, s.MapPaused("over"))
}

func TestMemoryStateToggles(t *testing.T) {
	s := NewState(nil, zap.NewNop())
	id := uuid.New()

	s.SetPlayerHidden(id, true)
	assert.True(t, s.PlayerHidden(id))
	s.SetPlayerHidden(id, false)
	assert.False(t, s.PlayerHidden(id))

	s.SetMapPaused("over", true)
	assert.True(t, s.MapPaused("over"))
	assert.False(t, s.MapPaused("nether"))
	s.SetMapPaused("over", false)
	assert.False(t, s.MapPaused("over"))
}

func TestMemoryStateLoadWithoutRepo(t *testing.T) {
	s := NewState(nil, zap.NewNop())
	assert.NoError(t, s.Load(context.Background()))
}
