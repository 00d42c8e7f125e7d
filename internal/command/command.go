// Package command registers the atlas admin commands with the host server.
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasgo/server/internal/plugin"
)

// Registrar is the host-side command table. The embedding server decides
// how commands are parsed and who may run them.
type Registrar interface {
	Register(cmd Command) error
}

// Command is a single admin command with its aliases and handler. Handler
// receives the raw arguments after the command name and returns the text
// shown to the invoker.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Handler func(ctx context.Context, args []string) (string, error)
}

// RegisterAll registers every atlas command against the host registrar.
func RegisterAll(reg Registrar, pl *plugin.Plugin, log *zap.Logger) error {
	cmds := []Command{
		{
			Name:    "atlas-hide",
			Usage:   "atlas-hide <player-uuid>",
			Handler: setVisibility(pl, true),
		},
		{
			Name:    "atlas-show",
			Usage:   "atlas-show <player-uuid>",
			Handler: setVisibility(pl, false),
		},
		{
			Name:    "atlas-pause",
			Usage:   "atlas-pause <map-id>",
			Handler: setMapPaused(pl, true),
		},
		{
			Name:    "atlas-resume",
			Usage:   "atlas-resume <map-id>",
			Handler: setMapPaused(pl, false),
		},
		{
			Name:    "atlas-maps",
			Usage:   "atlas-maps",
			Handler: listMaps(pl),
		},
		{
			Name:    "atlas-players",
			Usage:   "atlas-players",
			Handler: listPlayers(pl),
		},
		{
			Name:    "atlas-webapp",
			Aliases: []string{"atlas-redeploy"},
			Usage:   "atlas-webapp",
			Handler: redeployWebApp(pl),
		},
		{
			Name:    "atlas-clean",
			Usage:   "atlas-clean",
			Handler: cleanCaches(pl),
		},
	}

	for _, cmd := range cmds {
		if err := reg.Register(cmd); err != nil {
			return fmt.Errorf("register %s: %w", cmd.Name, err)
		}
		log.Debug("registered command", zap.String("name", cmd.Name))
	}
	return nil
}

func setVisibility(pl *plugin.Plugin, hidden bool) func(context.Context, []string) (string, error) {
	return func(ctx context.Context, args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("expected a player uuid")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid player uuid %q: %w", args[0], err)
		}
		pl.State().SetPlayerHidden(id, hidden)
		if hidden {
			return fmt.Sprintf("player %s is now hidden from the map", id), nil
		}
		return fmt.Sprintf("player %s is now visible on the map", id), nil
	}
}

func setMapPaused(pl *plugin.Plugin, paused bool) func(context.Context, []string) (string, error) {
	return func(ctx context.Context, args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("expected a map id")
		}
		mapID := args[0]
		if m, ok := pl.Atlas().Map(mapID); !ok || m == nil {
			return "", fmt.Errorf("unknown map %q", mapID)
		}
		pl.State().SetMapPaused(mapID, paused)
		if paused {
			return fmt.Sprintf("map %s paused", mapID), nil
		}
		return fmt.Sprintf("map %s resumed", mapID), nil
	}
}

func listMaps(pl *plugin.Plugin) func(context.Context, []string) (string, error) {
	return func(ctx context.Context, args []string) (string, error) {
		maps := pl.Atlas().Maps()
		if len(maps) == 0 {
			return "no maps configured", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d map(s):\n", len(maps))
		for _, m := range maps {
			status := "live"
			if pl.State().MapPaused(m.ID()) {
				status = "paused"
			}
			world := "?"
			if w := m.World(); w != nil {
				world = w.Name()
			}
			fmt.Fprintf(&b, "  %s (%s) world=%s [%s]\n", m.ID(), m.Name(), world, status)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}
}

func listPlayers(pl *plugin.Plugin) func(context.Context, []string) (string, error) {
	return func(ctx context.Context, args []string) (string, error) {
		players := pl.Roster().Players()
		if len(players) == 0 {
			return "no players online", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d player(s):\n", len(players))
		for _, p := range players {
			st, live := p.State()
			world := "?"
			if st.World != nil {
				world = st.World.Name
			}
			vis := ""
			if pl.State().PlayerHidden(p.ID) {
				vis = " (hidden)"
			}
			if !live {
				vis += " (stale)"
			}
			fmt.Fprintf(&b, "  %s %s world=%s%s\n", p.ID, p.Name, world, vis)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}
}

func redeployWebApp(pl *plugin.Plugin) func(context.Context, []string) (string, error) {
	return func(ctx context.Context, args []string) (string, error) {
		start := time.Now()
		if err := pl.DeployWebApp(); err != nil {
			return "", fmt.Errorf("deploy webapp: %w", err)
		}
		return fmt.Sprintf("webapp redeployed in %s", time.Since(start).Round(time.Millisecond)), nil
	}
}

func cleanCaches(pl *plugin.Plugin) func(context.Context, []string) (string, error) {
	return func(ctx context.Context, args []string) (string, error) {
		removed := pl.Atlas().Clean()
		return fmt.Sprintf("removed %d dead cache entries", removed), nil
	}
}
