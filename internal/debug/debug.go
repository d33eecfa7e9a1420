package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano-viewer/internal/graphics"
)

const (
	fontSize   = 20
	pad        = 12
	lineHeight = fontSize + 4
	// refreshEvery limits how often the overlay text is rebuilt, in frames.
	refreshEvery = 30
)

// Debug draws the optional overlays: FPS and heap use at the top right, and a status
// panel at the top left. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowHUD      bool
	Text         graphics.Text

	frame    uint32
	fpsText  string
	memText  string
	memStats runtime.MemStats
}

// New returns a Debug with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// Draw renders the enabled overlays. hud supplies the status lines and is only called when
// the status panel is shown.
func (d *Debug) Draw(hud func() []string) {
	d.frame++
	refresh := d.frame%refreshEvery == 0

	screenW := int32(rl.GetScreenWidth())
	y := int32(pad)
	if d.ShowFPS {
		if refresh || d.fpsText == "" {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawRight(d.fpsText, screenW, y)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if refresh || d.memText == "" {
			runtime.ReadMemStats(&d.memStats)
			d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		d.drawRight(d.memText, screenW, y)
	}

	if d.ShowHUD && hud != nil {
		for i, line := range hud() {
			d.Text.Draw(line, pad, int32(pad+i*lineHeight), fontSize, rl.RayWhite)
		}
	}
}

func (d *Debug) drawRight(text string, screenW, y int32) {
	w := d.Text.Measure(text, fontSize)
	d.Text.Draw(text, screenW-w-pad, y, fontSize, rl.Green)
}
