package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"piano-viewer/internal/action"
	"piano-viewer/internal/animation"
	"piano-viewer/internal/assets"
	"piano-viewer/internal/camera"
	"piano-viewer/internal/commands"
	"piano-viewer/internal/config"
	"piano-viewer/internal/debug"
	"piano-viewer/internal/fonts"
	"piano-viewer/internal/graphics"
	"piano-viewer/internal/importer"
	"piano-viewer/internal/input"
	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/logger"
	"piano-viewer/internal/prototype"
	"piano-viewer/internal/render"
	"piano-viewer/internal/scene"
	"piano-viewer/internal/terminal"
)

func main() {
	cfg, cfgErr := config.Load(config.Dir)
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File, Console: os.Stdout})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Close()

	zl := log.Zerolog()
	if cfgErr != nil {
		zl.Error().Err(cfgErr).Msg("config")
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		zl.Error().Err(err).Msg("startup failed")
		_ = log.Close()
		os.Exit(1)
	}
}

func loadTables(cfg config.Prefs) (prototype.Table, keyboard.Layout, error) {
	var (
		table  prototype.Table
		layout keyboard.Layout
		err    error
	)
	if cfg.Assets.Parts != "" {
		table, err = prototype.LoadTable(cfg.Assets.Parts)
	} else {
		table, err = prototype.DefaultTable()
	}
	if err != nil {
		return table, layout, err
	}
	if cfg.Assets.Layout != "" {
		layout, err = keyboard.LoadLayout(cfg.Assets.Layout)
	} else {
		layout, err = keyboard.DefaultLayout()
	}
	return table, layout, err
}

func run(cfg config.Prefs, log *logger.Logger) error {
	zl := log.Zerolog()

	table, layout, err := loadTables(cfg)
	if err != nil {
		return err
	}
	// fail before opening a window when model files are missing
	if err := assets.Check(cfg.Assets.Dir, table.Files()); err != nil {
		return err
	}

	graphics.Open(graphics.Window{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		Title:      cfg.Window.Title,
		FPS:        cfg.Window.FPS,
	})
	defer graphics.Close()

	im := importer.New(cfg.Assets.Dir, zl)
	defer im.Close()
	models, err := im.LoadAll(table.Parts)
	if err != nil {
		return err
	}
	root := cfg.Scene.Root
	renderer := render.New(models, render.RootTransform(mgl32.Vec3{root.X, root.Y, root.Z}, root.Scale), zl)
	defer renderer.Close()

	lib, err := prototype.Build(table, importer.Elements(models), zl)
	if err != nil {
		return err
	}
	arena, err := keyboard.Assemble(lib, layout, zl)
	if err != nil {
		return err
	}
	if cfg.Scene.ApplyScale {
		arena.SetApplyScale(true)
	}

	cam := camera.New(mgl32.Vec3{0, 0, 3})
	cam.Speed = cfg.Camera.Speed
	cam.Sensitivity = cfg.Camera.Sensitivity
	cam.ZoomSeconds = cfg.Camera.ZoomSeconds
	cam.SetZoom(cfg.Camera.Zoom)

	scn := scene.New(cam, arena, renderer)
	scn.SetGridVisible(cfg.Scene.Grid)

	dispatcher := action.New(arena, zl)
	state := action.NewState(arena.Keys())
	driver := animation.New(arena, cfg.Clock(), zl)

	reg := commands.NewRegistry()
	commands.RegisterPiano(reg, commands.Bindings{
		Arena:      arena,
		Dispatcher: dispatcher,
		State:      state,
		Out:        log.Writer(),
		SetGrid:    scn.SetGridVisible,
	})
	text := loadText(cfg.Assets, zl)
	defer text.Unload()
	term := terminal.New(log, reg)
	term.SetText(text)

	dbg := debug.New()
	dbg.ShowFPS = cfg.Debug.ShowFPS
	dbg.ShowMemAlloc = cfg.Debug.ShowMemAlloc
	dbg.ShowHUD = cfg.Debug.ShowHUD
	dbg.Text = text

	held := input.NewHeld()
	consoleWasOpen := false

	update := func(dt time.Duration) {
		term.Update()
		open := term.IsOpen()
		if open && !consoleWasOpen {
			// key-up events are not delivered while the console has the keyboard
			held = input.NewHeld()
		}
		consoleWasOpen = open

		secs := float32(dt.Seconds())
		frame := poll(dt, !open)
		for _, ev := range frame.Events {
			held.Apply(ev)
			if !dispatcher.Handle(state, ev) {
				cam.Handle(ev, held, secs)
			}
		}
		cam.Drive(held, secs)
		driver.Tick(frame.Delta)
	}
	draw := func() {
		scn.Draw()
		dbg.Draw(func() []string { return dispatcher.Status(state).Lines() })
		term.Draw()
	}

	zl.Info().Int("parts", arena.Len()).Int("keys", arena.Keys()).Msg("viewer ready")
	graphics.Run(update, draw)
	logSummary(zl, driver)
	return nil
}

// loadText picks the overlay font. Without one the built-in raylib font is used.
func loadText(a config.Assets, zl zerolog.Logger) graphics.Text {
	path, err := fonts.Find(fonts.Dir(a.Dir), a.Font)
	if err != nil {
		zl.Debug().Err(err).Str("search", a.Font).Msg("using built-in font")
		return graphics.Text{}
	}
	text := graphics.LoadText(path)
	if !text.Loaded() {
		zl.Warn().Str("path", path).Msg("font failed to load, using built-in font")
	}
	return text
}

func logSummary(zl zerolog.Logger, d *animation.Driver) {
	zl.Info().Uint64("frames", d.Frames()).Msg("viewer closed")
}
