package metadata

import "github.com/spaghettifunk/seethrough/engine/math"

/**
 * @brief A triangle soup in object space together with its bounds.
 */
type Mesh struct {
	Name      string
	Triangles []math.Triangle
	Bounds    math.Extents3D
}

func NewMesh(name string, triangles []math.Triangle) *Mesh {
	m := &Mesh{Name: name, Triangles: triangles}
	m.RecalculateBounds()
	return m
}

func (m *Mesh) RecalculateBounds() {
	if len(m.Triangles) == 0 {
		m.Bounds = math.Extents3D{}
		return
	}
	lo := m.Triangles[0].A
	hi := lo
	for _, t := range m.Triangles {
		for _, p := range [3]math.Vec3{t.A, t.B, t.C} {
			lo = math.NewVec3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
			hi = math.NewVec3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
		}
	}
	m.Bounds = math.Extents3D{Min: lo, Max: hi}
}

// NewQuadMesh builds a width x height quad in the XY plane facing +Z.
func NewQuadMesh(name string, width, height float32) *Mesh {
	hw, hh := width*0.5, height*0.5
	a := math.NewVec3(-hw, -hh, 0)
	b := math.NewVec3(hw, -hh, 0)
	c := math.NewVec3(hw, hh, 0)
	d := math.NewVec3(-hw, hh, 0)
	return NewMesh(name, []math.Triangle{{A: a, B: b, C: c}, {A: a, B: c, C: d}})
}

// NewBoxMesh builds a closed, outward facing box centred on the origin.
func NewBoxMesh(name string, size math.Vec3) *Mesh {
	h := size.MulScalar(0.5)
	x := math.NewVec3(h.X, 0, 0)
	y := math.NewVec3(0, h.Y, 0)
	z := math.NewVec3(0, 0, h.Z)

	// Each face: centre offset, then u and v with u x v pointing outwards.
	faces := [6][3]math.Vec3{
		{z, x, y},
		{z.MulScalar(-1), y, x},
		{x, y, z},
		{x.MulScalar(-1), z, y},
		{y, z, x},
		{y.MulScalar(-1), x, z},
	}

	triangles := make([]math.Triangle, 0, 12)
	for _, f := range faces {
		c, u, v := f[0], f[1], f[2]
		p0 := c.Sub(u).Sub(v)
		p1 := c.Add(u).Sub(v)
		p2 := c.Add(u).Add(v)
		p3 := c.Sub(u).Add(v)
		triangles = append(triangles,
			math.Triangle{A: p0, B: p1, C: p2},
			math.Triangle{A: p0, B: p2, C: p3},
		)
	}
	return NewMesh(name, triangles)
}
