package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/tankfield/config"
	"github.com/plus3/tankfield/debugui"
	debugui_ebiten "github.com/plus3/tankfield/debugui/ebiten"
	"github.com/plus3/tankfield/ecs"
	"github.com/plus3/tankfield/logging"
	"github.com/plus3/tankfield/tanks"
	"github.com/rs/zerolog"
)

// statsLogInterval is the simulated time between progress log lines.
const statsLogInterval = 5.0

type Game struct {
	world  *tanks.World
	logger zerolog.Logger
	dt     float64

	ui           *ecs.Scheduler
	render       *ecs.Scheduler
	screen       *ecs.Singleton[Screen]
	inputState   *ecs.Singleton[debugui.ImguiInputState]
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]

	nextLog float64
}

func main() {
	configPath := flag.String("config", "", "Optional YAML config file.")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective configuration and exit.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tanks: %v\n", err)
		os.Exit(1)
	}
	if *dumpConfig {
		if err := cfg.Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "tanks: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tanks: %v\n", err)
		os.Exit(1)
	}

	opts := cfg.WorldOptions()
	opts.Logger = logger
	world, err := tanks.NewWorld(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating world")
	}

	backend := debugui_ebiten.NewImguiBackend("Tankfield", cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	storage := world.Storage()
	debugui.RegisterComponents(storage.Registry())

	game := &Game{
		world:        world,
		logger:       logger,
		dt:           cfg.TickInterval(),
		screen:       ecs.NewSingleton(storage, Screen{}),
		inputState:   ecs.NewSingleton(storage, debugui.ImguiInputState{}),
		imguiBackend: ecs.NewSingleton(storage, backend),
		nextLog:      statsLogInterval,
	}

	game.ui = ecs.NewScheduler(storage)
	game.ui.Register(&debugui.ImguiSystem{})
	game.render = ecs.NewScheduler(storage)
	game.render.Register(&RenderSystem{Scale: cfg.Viewer.Scale})

	storage.Spawn(debugui.NewPerformancePanel(120).Item(storage, world.Scheduler()))
	spawnSimulationWindow(storage, cfg.Seed)

	logger.Info().
		Int("width", cfg.Viewer.Width).
		Int("height", cfg.Viewer.Height).
		Int("tickRate", cfg.TickRate).
		Msg("starting viewer")

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("viewer stopped")
	}
	logger.Info().Uint64("ticks", world.Stats().Tick).Msg("viewer closed")
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	return g.imguiBackend.MustGet().Frame(func() error {
		g.world.SetInput(g.readInput())
		g.world.Step(g.dt)
		g.ui.Once(g.dt)

		if stats := g.world.Stats(); stats.Elapsed >= g.nextLog {
			g.nextLog += statsLogInterval
			g.logger.Info().
				Uint64("tick", stats.Tick).
				Int("projectiles", stats.Projectiles).
				Uint64("spawned", stats.Spawned).
				Uint64("despawned", stats.Despawned).
				Msg("simulation")
		}
		return nil
	})
}

func (g *Game) readInput() tanks.PlayerInput {
	var input tanks.PlayerInput
	if g.inputState.MustGet().WantCaptureKeyboard {
		return input
	}

	pressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	if pressed(ebiten.KeyW, ebiten.KeyArrowUp) {
		input.Throttle++
	}
	if pressed(ebiten.KeyS, ebiten.KeyArrowDown) {
		input.Throttle--
	}
	if pressed(ebiten.KeyA, ebiten.KeyArrowLeft) {
		input.Turn++
	}
	if pressed(ebiten.KeyD, ebiten.KeyArrowRight) {
		input.Turn--
	}
	return input
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.MustGet().Image = screen
	g.render.Once(0)
	g.imguiBackend.MustGet().Overlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.MustGet().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
