package plugin

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlasgo/server/internal/config"
	"github.com/atlasgo/server/internal/core/event"
	"github.com/atlasgo/server/internal/host"
	"github.com/atlasgo/server/internal/registry"
	"github.com/atlasgo/server/internal/roster"
)

type nullHost struct{}

func (nullHost) ResolveWorldStorage(*host.World) (uuid.UUID, bool) { return uuid.UUID{}, false }
func (nullHost) LoadedWorlds() []*host.World                       { return nil }
func (nullHost) WorldLoaded(*host.World) bool                      { return false }

type nullSource struct{}

func (nullSource) PlayerState(uuid.UUID) (roster.State, bool) { return roster.State{}, false }

func testPlugin(t *testing.T) *Plugin {
	t.Helper()
	cfg := &config.Config{}
	cfg.Webapp.Webroot = filepath.Join(t.TempDir(), "web")
	cfg.Webapp.BundlePath = writeTestBundle(t)
	return New(cfg, zap.NewNop(), registry.New(), nullHost{}, nullSource{}, nil)
}

func writeTestBundle(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webapp.zip")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("index.html")
	require.NoError(t, err)
	_, err = w.Write([]byte("<html>%version%</html>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return path
}

func TestJoinLeaveUpdatesRosterAndForwardsEvents(t *testing.T) {
	p := testPlugin(t)

	var joined []event.PlayerJoined
	var left []event.PlayerLeft
	event.Subscribe(p.Bus(), func(ev event.PlayerJoined) { joined = append(joined, ev) })
	event.Subscribe(p.Bus(), func(ev event.PlayerLeft) { left = append(left, ev) })

	id := uuid.New()
	p.OnPlayerJoin(id, "alice")
	assert.Equal(t, 1, p.Roster().Size())

	p.Bus().SwapBuffers()
	p.Bus().DispatchAll()
	require.Len(t, joined, 1)
	assert.Equal(t, "alice", joined[0].Name)

	p.OnPlayerLeave(id)
	assert.Equal(t, 0, p.Roster().Size())
	p.Bus().SwapBuffers()
	p.Bus().DispatchAll()
	require.Len(t, left, 1)
	assert.Equal(t, id, left[0].PlayerID)
}

func TestRegisterMapExposesAndAnnounces(t *testing.T) {
	p := testPlugin(t)
	wid := uuid.New()
	p.RegisterWorld(&registry.World{ID: wid, Name: "overworld"})

	var announced []string
	event.Subscribe(p.Bus(), func(ev event.MapRegistered) { announced = append(announced, ev.MapID) })

	p.RegisterMap(&registry.MapDef{ID: "over", Name: "Overworld", WorldID: wid})
	p.Bus().SwapBuffers()
	p.Bus().DispatchAll()

	assert.Equal(t, []string{"over"}, announced)
	assert.Contains(t, p.Files().Settings().Maps, "over")

	m, ok := p.Atlas().Map("over")
	require.True(t, ok)
	assert.Equal(t, wid, m.World().ID())

	p.UnregisterMap("over")
	assert.NotContains(t, p.Files().Settings().Maps, "over")
}

func TestDeployWebAppWritesRootAndSettings(t *testing.T) {
	p := testPlugin(t)
	wid := uuid.New()
	p.RegisterWorld(&registry.World{ID: wid, Name: "overworld"})
	p.RegisterMap(&registry.MapDef{ID: "over", Name: "Overworld", WorldID: wid})

	require.NoError(t, p.DeployWebApp())

	index, err := os.ReadFile(filepath.Join(p.Files().WebRoot(), "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>"+Version+"</html>", string(index))

	_, err = os.Stat(p.Files().SettingsPath())
	assert.NoError(t, err)
	assert.Contains(t, p.Files().Settings().Maps, "over")
}
