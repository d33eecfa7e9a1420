package part

import "github.com/go-gl/mathgl/mgl32"

// rotationAbout returns the homogeneous rotation by deg degrees about the given axis.
func rotationAbout(axis Axis, deg float32) mgl32.Mat4 {
	if deg == 0 {
		return mgl32.Ident4()
	}
	rad := mgl32.DegToRad(deg)
	switch axis {
	case AxisY:
		return mgl32.HomogRotate3DY(rad)
	case AxisZ:
		return mgl32.HomogRotate3DZ(rad)
	}
	return mgl32.HomogRotate3DX(rad)
}

// LocalTransform returns T(Position)·Rx·Ry·Rz, followed by the scale when ApplyScale is set.
func (p *Part) LocalTransform() mgl32.Mat4 {
	m := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	m = m.Mul4(rotationAbout(AxisX, p.Rotation[0]))
	m = m.Mul4(rotationAbout(AxisY, p.Rotation[1]))
	m = m.Mul4(rotationAbout(AxisZ, p.Rotation[2]))
	if p.ApplyScale {
		m = m.Mul4(mgl32.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2]))
	}
	return m
}

// PivotTransform returns the rotation of space about the part's own position by its current
// angle on its animated axis: T(pos)·R(angle)·T(-pos). Children are swung by this matrix
// without inheriting the parent's position offset.
func (p *Part) PivotTransform() mgl32.Mat4 {
	pos := p.Position
	m := mgl32.Translate3D(pos[0], pos[1], pos[2])
	m = m.Mul4(rotationAbout(p.Motion.Axis, p.Angle()))
	return m.Mul4(mgl32.Translate3D(-pos[0], -pos[1], -pos[2]))
}

// ComputeWorldTransform rebuilds World from the part's local transform and, when parent is
// not nil, the parent's current pivot rotation. parent must already hold its state for the
// frame being drawn. The result is also returned.
func (p *Part) ComputeWorldTransform(parent *Part) mgl32.Mat4 {
	m := mgl32.Ident4()
	if parent != nil {
		m = parent.PivotTransform()
	}
	p.World = m.Mul4(p.LocalTransform())
	return p.World
}
