// Package plugin wires the atlas subsystem together and is the surface the
// embedding server talks to: identifier resolution, the online roster,
// event forwarding, and the web-app files.
package plugin

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasgo/server/internal/atlas"
	"github.com/atlasgo/server/internal/config"
	"github.com/atlasgo/server/internal/core/event"
	"github.com/atlasgo/server/internal/fault"
	"github.com/atlasgo/server/internal/host"
	"github.com/atlasgo/server/internal/persist"
	"github.com/atlasgo/server/internal/registry"
	"github.com/atlasgo/server/internal/roster"
	"github.com/atlasgo/server/internal/web"
)

// Version is stamped into deployed web assets and settings.json.
const Version = "0.1.0"

type Plugin struct {
	cfg    *config.Config
	log    *zap.Logger
	reg    *registry.Registry
	atlas  *atlas.Atlas
	roster *roster.Roster
	bus    *event.Bus
	files  *web.Files
	app    *web.App
	state  *State
}

// New assembles the plugin. src supplies live player state for refreshes;
// repo may be nil for a memory-only state.
func New(cfg *config.Config, log *zap.Logger, reg *registry.Registry, h host.Host, src roster.Source, repo *persist.StateRepo) *Plugin {
	p := &Plugin{
		cfg:    cfg,
		log:    log,
		reg:    reg,
		bus:    event.NewBus(),
		roster: roster.New(src),
		state:  NewState(repo, log),
	}
	p.atlas = atlas.New(reg, h, fault.ZapReporter{Log: log})
	p.files = web.NewFiles(cfg.Webapp.Webroot, Version)
	p.app = web.NewApp(p.files, p.state)
	return p
}

// OnPlayerJoin is the join ingress: updates the roster and forwards the
// event to listeners next tick. Safe to call from any goroutine.
func (p *Plugin) OnPlayerJoin(id uuid.UUID, name string) {
	p.roster.OnPlayerJoin(id, name)
	event.Emit(p.bus, event.PlayerJoined{PlayerID: id, Name: name})
}

// OnPlayerLeave is the leave ingress. Safe to call from any goroutine.
func (p *Plugin) OnPlayerLeave(id uuid.UUID) {
	p.roster.OnPlayerLeave(id)
	event.Emit(p.bus, event.PlayerLeft{PlayerID: id})
}

// RegisterWorld adds a world to the registry at runtime and forwards the
// event to listeners next tick.
func (p *Plugin) RegisterWorld(w *registry.World) {
	p.reg.RegisterWorld(w)
	event.Emit(p.bus, event.WorldRegistered{WorldID: w.ID})
}

// RegisterMap adds a map definition at runtime, exposes it to the viewer
// settings, and forwards the event to listeners next tick.
func (p *Plugin) RegisterMap(def *registry.MapDef) {
	p.reg.RegisterMap(def)
	p.files.AddMap(def.ID)
	event.Emit(p.bus, event.MapRegistered{MapID: def.ID})
}

// UnregisterMap removes a map definition and drops it from the viewer
// settings.
func (p *Plugin) UnregisterMap(id string) {
	p.reg.UnregisterMap(id)
	p.files.RemoveMap(id)
}

// DeployWebApp ensures the web root holds the bundled viewer and a
// settings.json reflecting config plus the registered maps.
func (p *Plugin) DeployWebApp() error {
	if p.files.NeedsUpdate() {
		if err := p.files.Deploy(p.cfg.Webapp.BundlePath); err != nil {
			return fmt.Errorf("deploy webapp: %w", err)
		}
		p.log.Info("web assets deployed", zap.String("webroot", p.files.WebRoot()))
	}
	p.files.SetFrom(p.cfg.Webapp)
	for _, def := range p.reg.Maps() {
		p.files.AddMap(def.ID)
	}
	if err := p.files.SaveSettings(); err != nil {
		return fmt.Errorf("save webapp settings: %w", err)
	}
	return nil
}

func (p *Plugin) Atlas() *atlas.Atlas     { return p.atlas }
func (p *Plugin) Roster() *roster.Roster  { return p.roster }
func (p *Plugin) Bus() *event.Bus         { return p.bus }
func (p *Plugin) Files() *web.Files       { return p.files }
func (p *Plugin) WebApp() *web.App        { return p.app }
func (p *Plugin) State() *State           { return p.state }
func (p *Plugin) Registry() *registry.Registry { return p.reg }
