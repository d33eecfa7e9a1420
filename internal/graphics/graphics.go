package graphics

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window describes the window to open.
type Window struct {
	Width, Height int
	Fullscreen    bool
	Title         string
	FPS           int
}

// Open creates the window and GL context. ESC is left to the console, so the window only
// closes from its close button. Call Close when done.
func Open(w Window) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	width, height := int32(w.Width), int32(w.Height)
	rl.InitWindow(width, height, w.Title)
	if w.Fullscreen {
		mon := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(mon), rl.GetMonitorHeight(mon))
		rl.ToggleFullscreen()
	}
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(w.FPS))
}

// Close closes the window.
func Close() {
	rl.CloseWindow()
}

// Run drives the main loop until the window is closed. Each frame it calls update with the
// measured frame time, then clears the screen and calls draw.
func Run(update func(dt time.Duration), draw func()) {
	for !rl.WindowShouldClose() {
		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		update(dt)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(18, 18, 22, 255))
		draw()
		rl.EndDrawing()
	}
}

// Text draws strings in a loaded font, or in raylib's built-in font when none was loaded.
// The zero value uses the built-in font.
type Text struct {
	font   rl.Font
	loaded bool
}

// LoadText loads the TTF or OTF at path. Call Unload when done.
func LoadText(path string) Text {
	f := rl.LoadFontEx(path, 48, nil, 0)
	if f.Texture.ID == 0 {
		return Text{}
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	return Text{font: f, loaded: true}
}

// Loaded reports whether t uses a font from disk.
func (t Text) Loaded() bool {
	return t.loaded
}

func (t Text) Draw(s string, x, y, size int32, c rl.Color) {
	if !t.loaded {
		rl.DrawText(s, x, y, size, c)
		return
	}
	rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
}

func (t Text) Measure(s string, size int32) int32 {
	if !t.loaded {
		return rl.MeasureText(s, size)
	}
	return int32(rl.MeasureTextEx(t.font, s, float32(size), 1).X)
}

func (t *Text) Unload() {
	if t.loaded {
		rl.UnloadFont(t.font)
		t.loaded = false
	}
}
