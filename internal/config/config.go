package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"piano-viewer/internal/animation"
)

// Dir and FileName locate the optional config file, relative to the working directory.
const (
	Dir      = "config"
	FileName = "piano.json"
)

// EnvPrefix prefixes environment overrides, e.g. PIANO_LOG_LEVEL=debug.
const EnvPrefix = "PIANO"

var ErrInvalidConfig = errors.New("invalid config")

type Window struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Fullscreen bool   `mapstructure:"fullscreen"`
	Title      string `mapstructure:"title"`
	FPS        int    `mapstructure:"fps"`
}

// Assets points at the model/texture directory and optional table overrides.
// Empty Parts or Layout means the embedded tables are used.
type Assets struct {
	Dir    string `mapstructure:"dir"`
	Parts  string `mapstructure:"parts"`
	Layout string `mapstructure:"layout"`
	// Font is matched loosely against files under Dir/fonts; empty takes any.
	Font string `mapstructure:"font"`
}

type Animation struct {
	TickRate float32       `mapstructure:"tickRate"`
	MinDelta time.Duration `mapstructure:"minDelta"`
	MaxDelta time.Duration `mapstructure:"maxDelta"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Debug holds the on-screen overlay toggles.
type Debug struct {
	ShowFPS      bool `mapstructure:"showFps"`
	ShowMemAlloc bool `mapstructure:"showMemAlloc"`
	ShowHUD      bool `mapstructure:"showHud"`
}

// Root is the model transform applied to the whole instrument: translate, then uniform scale.
type Root struct {
	X     float32 `mapstructure:"x"`
	Y     float32 `mapstructure:"y"`
	Z     float32 `mapstructure:"z"`
	Scale float32 `mapstructure:"scale"`
}

type Scene struct {
	Grid       bool `mapstructure:"grid"`
	ApplyScale bool `mapstructure:"applyScale"`
	Root       Root `mapstructure:"root"`
}

type Camera struct {
	Speed       float32 `mapstructure:"speed"`
	Sensitivity float32 `mapstructure:"sensitivity"`
	Zoom        float32 `mapstructure:"zoom"`
	ZoomSeconds float32 `mapstructure:"zoomSeconds"`
}

// Prefs is the full viewer configuration. It is persisted across runs; animation state is not.
type Prefs struct {
	Window    Window    `mapstructure:"window"`
	Assets    Assets    `mapstructure:"assets"`
	Animation Animation `mapstructure:"animation"`
	Log       Log       `mapstructure:"log"`
	Debug     Debug     `mapstructure:"debug"`
	Scene     Scene     `mapstructure:"scene"`
	Camera    Camera    `mapstructure:"camera"`
}

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		Window: Window{
			Width:  1280,
			Height: 800,
			Title:  "piano mechanism",
			FPS:    60,
		},
		Assets: Assets{Dir: "assets"},
		Animation: Animation{
			TickRate: 60,
			MaxDelta: 100 * time.Millisecond,
		},
		Log: Log{Level: "info", File: "logs/piano.log"},
		Debug: Debug{
			ShowHUD: true,
		},
		Scene: Scene{
			Grid: true,
			Root: Root{Y: -1.75, Scale: 0.2},
		},
		Camera: Camera{
			Speed:       6,
			Sensitivity: 0.25,
			Zoom:        45,
			ZoomSeconds: 0.2,
		},
	}
}

func setDefaults(v *viper.Viper, p Prefs) {
	v.SetDefault("window.width", p.Window.Width)
	v.SetDefault("window.height", p.Window.Height)
	v.SetDefault("window.fullscreen", p.Window.Fullscreen)
	v.SetDefault("window.title", p.Window.Title)
	v.SetDefault("window.fps", p.Window.FPS)

	v.SetDefault("assets.dir", p.Assets.Dir)
	v.SetDefault("assets.parts", p.Assets.Parts)
	v.SetDefault("assets.layout", p.Assets.Layout)
	v.SetDefault("assets.font", p.Assets.Font)

	v.SetDefault("animation.tickRate", p.Animation.TickRate)
	v.SetDefault("animation.minDelta", p.Animation.MinDelta.String())
	v.SetDefault("animation.maxDelta", p.Animation.MaxDelta.String())

	v.SetDefault("log.level", p.Log.Level)
	v.SetDefault("log.file", p.Log.File)

	v.SetDefault("debug.showFps", p.Debug.ShowFPS)
	v.SetDefault("debug.showMemAlloc", p.Debug.ShowMemAlloc)
	v.SetDefault("debug.showHud", p.Debug.ShowHUD)

	v.SetDefault("scene.grid", p.Scene.Grid)
	v.SetDefault("scene.applyScale", p.Scene.ApplyScale)
	v.SetDefault("scene.root.x", p.Scene.Root.X)
	v.SetDefault("scene.root.y", p.Scene.Root.Y)
	v.SetDefault("scene.root.z", p.Scene.Root.Z)
	v.SetDefault("scene.root.scale", p.Scene.Root.Scale)

	v.SetDefault("camera.speed", p.Camera.Speed)
	v.SetDefault("camera.sensitivity", p.Camera.Sensitivity)
	v.SetDefault("camera.zoom", p.Camera.Zoom)
	v.SetDefault("camera.zoomSeconds", p.Camera.ZoomSeconds)
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(filepath.Join(dir, FileName))
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads dir/piano.json over the defaults and applies PIANO_* environment overrides.
// A missing file is not an error. An unreadable or invalid file returns the defaults with
// the error so the caller can decide whether to abort.
func Load(dir string) (Prefs, error) {
	v := newViper(dir)
	if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Default(), fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Default(), fmt.Errorf("error reading config file: %w", err)
	}
	var p Prefs
	if err := v.Unmarshal(&p); err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Default(), err
	}
	return p, nil
}

// Save writes p to dir/piano.json, creating dir if needed.
func Save(dir string, p Prefs) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v, p)
	// defaults are not written, so copy them into the config layer
	for _, k := range v.AllKeys() {
		v.Set(k, v.Get(k))
	}
	return v.WriteConfigAs(filepath.Join(dir, FileName))
}

// Validate rejects settings the viewer cannot run with.
func (p Prefs) Validate() error {
	switch {
	case p.Window.Width <= 0 || p.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, p.Window.Width, p.Window.Height)
	case p.Window.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, p.Window.FPS)
	case p.Animation.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %v", ErrInvalidConfig, p.Animation.TickRate)
	case p.Animation.MinDelta < 0 || p.Animation.MaxDelta < 0:
		return fmt.Errorf("%w: negative frame delta bound", ErrInvalidConfig)
	case p.Animation.MaxDelta > 0 && p.Animation.MaxDelta < p.Animation.MinDelta:
		return fmt.Errorf("%w: max delta %v below min delta %v", ErrInvalidConfig, p.Animation.MaxDelta, p.Animation.MinDelta)
	case p.Scene.Root.Scale <= 0:
		return fmt.Errorf("%w: root scale %v", ErrInvalidConfig, p.Scene.Root.Scale)
	}
	return nil
}

// Clock returns the animation clock described by the config.
func (p Prefs) Clock() animation.Clock {
	return animation.Clock{
		TickRate: p.Animation.TickRate,
		MinDelta: p.Animation.MinDelta,
		MaxDelta: p.Animation.MaxDelta,
	}
}
