// Command axiomd is AXIOM's server entrypoint: it wires every subsystem
// package into a running 60Hz simulation plus HTTP control plane. Grounded
// on cmd/server/main.go construction order (load config,
// build the engine, start it, mount the router, wait on an OS signal) with
// the Kick-specific OAuth/chat/streaming wiring replaced end to end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/api"
	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/config"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/pathfind"
	"github.com/axiom-sim/axiom/internal/presets"
	"github.com/axiom-sim/axiom/internal/runtimestate"
	"github.com/axiom-sim/axiom/internal/save"
	"github.com/axiom-sim/axiom/internal/scheduler"
	"github.com/axiom-sim/axiom/internal/script"
	"github.com/axiom-sim/axiom/internal/simdriver"
	"github.com/axiom-sim/axiom/internal/snapshot"
	"github.com/axiom-sim/axiom/internal/spatial"
	"github.com/axiom-sim/axiom/internal/telemetry"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

const defaultTileSize = 32

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, v, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("axiomd: config load: %v", err)
	}
	log.Printf("axiomd: starting, addr=%s", cfg.Server.Addr)

	for _, dir := range []string{cfg.Dirs.SaveDir, cfg.Dirs.ReplayDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("axiomd: mkdir %s: %v", dir, err)
		}
	}

	world := ecsworld.New()
	tm, err := defaultTilemap()
	if err != nil {
		log.Fatalf("axiomd: default tilemap: %v", err)
	}
	hash := spatial.New(float32(defaultTileSize))
	bus := eventbus.New()
	runtime := runtimestate.New()
	runtime.OnTransition(func(m *runtimestate.Machine, from, to runtimestate.State) {
		bus.Emit(eventbus.Event{Name: "game_transition", Data: map[string]any{
			"from": from.String(), "to": to.String(),
		}})
	})

	animReg := animation.NewRegistry()
	presetReg := presets.NewRegistry()
	scriptEngine := script.New(cfg.Script.ToBudgets())
	pathCache := pathfind.NewCache()
	platformCfg := pathfind.PlatformerConfig{
		MoveSpeed:      200,
		JumpVelocity:   420,
		Gravity:        980,
		FallMultiplier: 1.5,
		TileSize:       defaultTileSize,
	}

	queue := command.New()
	configStore := command.NewConfigStore()
	staging := command.NewStaging()

	saveModel := &save.Model{
		World:     world,
		Tilemap:   &tm,
		Presets:   presetReg,
		AnimReg:   animReg,
		Scripts:   scriptEngine,
		Config:    configStore,
		GameState: func() string { return runtime.Current().String() },
	}

	disp := &command.Dispatcher{
		World:     world,
		Tilemap:   &tm,
		Presets:   presetReg,
		AnimReg:   animReg,
		Bus:       bus,
		Config:    configStore,
		Staging:   staging,
		Runtime:   runtime,
		PathCache: pathCache,
		Pools:     command.NewPoolRegistry(),
		Save:      saveModel,
		Script:    scriptEngine,
		Frame:     bus.Frame,
	}

	snapPool := snapshot.NewPool(256)

	sched := scheduler.New(world, &tm, hash, bus, runtime, scriptEngine, animReg,
		queue, disp, snapPool, pathCache, platformCfg)

	disp.Perf = sched

	disp.Sim = &simdriver.Driver{
		LiveWorld:   world,
		LiveTilemap: &tm,
		Scheduler:   sched,
		SaveModel:   saveModel,
		PlatformCfg: platformCfg,
	}
	telemetry.StartDebugServer(telemetry.DebugServerConfig{
		Enabled:    true,
		ListenAddr: cfg.Server.DebugAddr,
	})

	if cfg.WatchConfig && v != nil {
		config.Watch(v, func(next *config.AppConfig) {
			log.Printf("axiomd: config reloaded (script budgets entity=%dms global=%dms)",
				next.Script.EntityBudgetMs, next.Script.GlobalBudgetMs)
		})
	}

	sched.Start()
	log.Println("axiomd: scheduler started")

	corsOrigins := append([]string(nil), api.AllowedOrigins...)
	server := api.NewServer(queue, bus, corsOrigins)

	go func() {
		if err := server.Start(cfg.Server.Addr); err != nil {
			log.Printf("axiomd: server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("axiomd: shutting down")
	sched.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("axiomd: server shutdown: %v", err)
	}
	log.Println("axiomd: goodbye")
}

// defaultTilemap builds a flat, bordered room so the server has a live
// level to spawn into before any set_level command arrives.
func defaultTilemap() (*tilemap.Tilemap, error) {
	const w, h = 24, 16
	tiles := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				tiles[y*w+x] = 1
			}
		}
	}
	registry := []tilemap.TileType{
		{Name: "empty", Flags: 0, Friction: 1},
		{Name: "wall", Flags: tilemap.Solid, Friction: 1},
	}
	return tilemap.New(w, h, tiles, registry, tilemap.Point{X: w / 2, Y: h / 2}, nil)
}
