package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atlasgo/server/internal/command"
	"github.com/atlasgo/server/internal/config"
	coresys "github.com/atlasgo/server/internal/core/system"
	"github.com/atlasgo/server/internal/fault"
	"github.com/atlasgo/server/internal/host"
	"github.com/atlasgo/server/internal/persist"
	"github.com/atlasgo/server/internal/plugin"
	"github.com/atlasgo/server/internal/registry"
	"github.com/atlasgo/server/internal/roster"
	"github.com/atlasgo/server/internal/scripting"
	"github.com/atlasgo/server/internal/system"
	"github.com/atlasgo/server/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m            atlasd  v%s                 \033[36;1m│\033[0m\n", plugin.Version)
	fmt.Println("\033[36;1m  │\033[0m      live map server for game worlds      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 45 - len(title)
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/atlas.toml"
	if p := os.Getenv("ATLAS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Connect to PostgreSQL and run migrations. An empty DSN runs with
	// in-memory state only.
	var stateRepo *persist.StateRepo
	if cfg.Database.DSN != "" {
		printSection("database")

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("postgresql connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		fmt.Println()

		stateRepo = persist.NewStateRepo(db)
	} else {
		log.Warn("no database dsn configured, state will not survive restarts")
	}

	// 4. Load the world and map registry
	printSection("registry")

	reg, err := registry.LoadFile(cfg.Server.MapsFile)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	printStat("worlds", reg.WorldCount())
	printStat("maps", reg.MapCount())
	fmt.Println()

	// 5. Assemble the plugin over the local host adapter
	h := newLocalHost(reg)
	pl := plugin.New(cfg, log, reg, h, h, stateRepo)

	if err := pl.State().Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if err := pl.DeployWebApp(); err != nil {
		// A missing bundle is survivable; the map UI is just absent.
		log.Warn("webapp deploy failed", zap.Error(err))
	} else {
		printOK("webapp deployed")
	}

	// 6. Lua event hooks
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer engine.Close()
		engine.Bind(pl.Bus())
		printOK("lua hooks loaded")
	}

	// 7. Built-in web server for the deployed webroot
	var webSrv *web.Server
	if cfg.Webapp.ServeAddr != "" {
		webSrv = web.NewServer(cfg.Webapp.ServeAddr, cfg.Webapp.Webroot, log)
		go func() {
			if err := webSrv.Serve(); err != nil {
				log.Error("web server stopped", zap.Error(err))
			}
		}()
	}

	// 8. Console command interface
	console := newConsole(log)
	if err := command.RegisterAll(console, pl, log); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	go console.readLoop()

	// 9. Create systems and register with runner
	reporter := fault.ZapReporter{Log: log}
	snapshotSys := system.NewLiveSnapshotSystem(
		pl.Roster(),
		pl.State().PlayerHidden,
		cfg.Webapp.Webroot,
		cfg.Tick.SnapshotInterval,
		log,
	)
	defer snapshotSys.Close()

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(pl.Bus()))
	runner.Register(system.NewPlayerUpdateSystem(pl.Roster(), reporter))
	runner.Register(snapshotSys)
	runner.Register(system.NewCacheCleanSystem(pl.Atlas(), cfg.Tick.CacheCleanInterval, log))

	// 10. Start tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Tick.Rate)
	defer ticker.Stop()

	printSection("server ready")
	printReady(fmt.Sprintf("webroot %s", cfg.Webapp.Webroot))
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Tick.Rate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Tick.Rate)
		case cmd := <-console.results:
			fmt.Println(cmd)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if webSrv != nil {
				webSrv.Shutdown()
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// ── Local host adapter ─────────────────────────────────────────────

// localHost serves the standalone binary: every registry world is treated
// as a loaded native world, and player state comes from nowhere until a
// real ingest is attached. It implements both host.Host and roster.Source.
type localHost struct {
	worlds []*host.World
	ids    map[*host.World]uuid.UUID
}

func newLocalHost(reg *registry.Registry) *localHost {
	h := &localHost{ids: make(map[*host.World]uuid.UUID)}
	for _, w := range reg.Worlds() {
		hw := &host.World{Name: w.Name, SaveDir: w.SaveDir}
		h.worlds = append(h.worlds, hw)
		h.ids[hw] = w.ID
	}
	return h
}

func (h *localHost) ResolveWorldStorage(w *host.World) (uuid.UUID, bool) {
	id, ok := h.ids[w]
	return id, ok
}

func (h *localHost) LoadedWorlds() []*host.World {
	return h.worlds
}

func (h *localHost) WorldLoaded(w *host.World) bool {
	_, ok := h.ids[w]
	return ok
}

func (h *localHost) PlayerState(id uuid.UUID) (roster.State, bool) {
	return roster.State{}, false
}

// ── Console commands ───────────────────────────────────────────────

// console is a stdin-backed command.Registrar for the standalone binary.
// Output goes through a channel so results print from the main loop.
type console struct {
	cmds    map[string]command.Command
	results chan string
	log     *zap.Logger
}

func newConsole(log *zap.Logger) *console {
	return &console{
		cmds:    make(map[string]command.Command),
		results: make(chan string, 8),
		log:     log,
	}
}

func (c *console) Register(cmd command.Command) error {
	if _, dup := c.cmds[cmd.Name]; dup {
		return fmt.Errorf("duplicate command %q", cmd.Name)
	}
	c.cmds[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		if _, dup := c.cmds[alias]; dup {
			return fmt.Errorf("duplicate command alias %q", alias)
		}
		c.cmds[alias] = cmd
	}
	return nil
}

func (c *console) readLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, ok := c.cmds[fields[0]]
		if !ok {
			c.results <- fmt.Sprintf("unknown command %q", fields[0])
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		out, err := cmd.Handler(ctx, fields[1:])
		cancel()
		if err != nil {
			c.results <- fmt.Sprintf("%s: %v (usage: %s)", cmd.Name, err, cmd.Usage)
			continue
		}
		c.results <- out
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
