package part

import "github.com/chewxy/math32"

// StartRising sets the part moving toward its rotation limit. Calling it while already
// rising changes nothing; calling it while falling reverses from the current angle.
func (p *Part) StartRising() {
	p.Falling = false
	p.Rising = true
}

// StartFalling sets the part moving back to rest (angle 0).
func (p *Part) StartFalling() {
	p.Rising = false
	p.Falling = true
}

// Stop clears both motion flags and leaves the part at its current angle.
func (p *Part) Stop() {
	p.Rising = false
	p.Falling = false
}

// Advance moves the animated axis by ticks reference ticks. Rising covers Motion.Rise*Limit
// per tick and stops exactly on Limit; falling covers Motion.Fall*Limit per tick and stops
// exactly on 0. The flag that finished is cleared. An idle part is left untouched.
func (p *Part) Advance(ticks float32) {
	if ticks <= 0 || !p.Moving() {
		return
	}
	axis := p.Motion.Axis
	angle := p.Rotation[axis]
	dir := direction(p.Limit)

	if p.Rising {
		angle += p.Motion.Rise * p.Limit * ticks
		// progress is measured along the limit's sign so negative limits need no special case
		if angle*dir >= math32.Abs(p.Limit) {
			angle = p.Limit
			p.Rising = false
		}
	} else {
		angle -= p.Motion.Fall * p.Limit * ticks
		if angle*dir <= 0 {
			angle = 0
			p.Falling = false
		}
	}
	p.Rotation[axis] = angle
}

// Progress returns how far the animated axis is toward the limit, in [0, 1].
// Parts with a zero limit always report 0.
func (p *Part) Progress() float32 {
	if p.Limit == 0 {
		return 0
	}
	return math32.Max(0, math32.Min(1, p.Angle()/p.Limit))
}

func direction(limit float32) float32 {
	switch {
	case limit > 0:
		return 1
	case limit < 0:
		return -1
	}
	return 0
}
