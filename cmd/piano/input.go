package main

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano-viewer/internal/input"
)

// keyMap ties raylib keys to input codes. Arrows and space are edge-triggered;
// WASD and shift are tracked while held.
var keyMap = []struct {
	key  int32
	code input.Code
}{
	{rl.KeyLeft, input.CodeLeft},
	{rl.KeyRight, input.CodeRight},
	{rl.KeyUp, input.CodeUp},
	{rl.KeyDown, input.CodeDown},
	{rl.KeySpace, input.CodeSpace},
	{rl.KeyW, input.CodeW},
	{rl.KeyA, input.CodeA},
	{rl.KeyS, input.CodeS},
	{rl.KeyD, input.CodeD},
	{rl.KeyLeftShift, input.CodeShift},
	{rl.KeyRightShift, input.CodeShift},
}

// poll collects this frame's input events from raylib. Keyboard events are skipped while
// the console has the keyboard.
func poll(dt time.Duration, keyboard bool) input.Frame {
	f := input.Frame{Delta: dt}
	if keyboard {
		for _, k := range keyMap {
			if rl.IsKeyPressed(k.key) {
				f.Events = append(f.Events, input.Press(k.code))
			}
			if rl.IsKeyReleased(k.key) {
				f.Events = append(f.Events, input.Release(k.code))
			}
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonMiddle) {
		f.Events = append(f.Events, input.Event{Kind: input.ButtonDown, Code: input.CodeMouseMiddle})
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonMiddle) {
		f.Events = append(f.Events, input.Event{Kind: input.ButtonUp, Code: input.CodeMouseMiddle})
	}
	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		// screen y grows downward; the camera wants up positive
		f.Events = append(f.Events, input.Event{Kind: input.MouseMove, DX: d.X, DY: -d.Y})
	}
	if w := rl.GetMouseWheelMove(); w != 0 {
		f.Events = append(f.Events, input.Event{Kind: input.Scroll, DY: w})
	}
	return f
}
