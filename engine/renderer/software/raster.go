package software

import (
	"image/color"

	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

// drawRenderer rasterises every triangle of r with the resolved state and a
// flat colour. Returns how many fragments reached the stencil test and how
// many passed both tests.
func (t *RenderTarget) drawRenderer(r *metadata.Renderer, viewProj math.Mat4, state metadata.RenderState, colour math.Vec4) (tested, passed int) {
	if r.Mesh == nil {
		return 0, 0
	}
	mvp := r.Model().Mul(viewProj)
	c := toRGBA(colour)
	for _, tri := range r.Mesh.Triangles {
		tt, pp := t.drawTriangle(tri, mvp, state, c)
		tested += tt
		passed += pp
	}
	return tested, passed
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (t *RenderTarget) drawTriangle(tri math.Triangle, mvp math.Mat4, state metadata.RenderState, c color.RGBA) (tested, passed int) {
	var ndc [3]math.Vec3
	for i, p := range [3]math.Vec3{tri.A, tri.B, tri.C} {
		clip := p.ToVec4(1.0).Transform(mvp)
		// No near plane clipping: triangles reaching behind the eye are dropped.
		if clip.W <= math.K_FLOAT_EPSILON {
			return 0, 0
		}
		ndc[i] = math.NewVec3(clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W)
	}

	// Counter-clockwise in NDC is front facing.
	area := (ndc[1].X-ndc[0].X)*(ndc[2].Y-ndc[0].Y) - (ndc[2].X-ndc[0].X)*(ndc[1].Y-ndc[0].Y)
	if area == 0 {
		return 0, 0
	}
	switch state.CullMode {
	case metadata.FaceCullModeBack:
		if area < 0 {
			return 0, 0
		}
	case metadata.FaceCullModeFront:
		if area > 0 {
			return 0, 0
		}
	case metadata.FaceCullModeFrontAndBack:
		return 0, 0
	}

	w, h := float32(t.Width), float32(t.Height)
	var sx, sy, sz [3]float32
	for i := range ndc {
		sx[i] = (ndc[i].X*0.5 + 0.5) * w
		sy[i] = (0.5 - ndc[i].Y*0.5) * h
		sz[i] = ndc[i].Z*0.5 + 0.5
	}

	sarea := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
	if sarea == 0 {
		return 0, 0
	}
	sign := float32(1.0)
	if sarea < 0 {
		sign = -1.0
	}
	inv := 1.0 / (sarea * sign)

	minX := max(int(min(sx[0], sx[1], sx[2])), 0)
	maxX := min(int(max(sx[0], sx[1], sx[2])), t.Width-1)
	minY := max(int(min(sy[0], sy[1], sy[2])), 0)
	maxY := min(int(max(sy[0], sy[1], sy[2])), t.Height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(sx[1], sy[1], sx[2], sy[2], px, py) * sign
			w1 := edge(sx[2], sy[2], sx[0], sy[0], px, py) * sign
			w2 := edge(sx[0], sy[0], sx[1], sy[1], px, py) * sign
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			// Relative to vertex 0 so coplanar triangles produce identical depth.
			z := sz[0] + (w1*inv)*(sz[1]-sz[0]) + (w2*inv)*(sz[2]-sz[0])
			if z < 0 || z > 1 {
				continue
			}
			tested++
			if t.shadeFragment(x, y, z, state, c) {
				passed++
			}
		}
	}
	return tested, passed
}

// shadeFragment runs the stencil test, then the depth test, updates the
// stencil with the selected op and writes depth and colour on success.
func (t *RenderTarget) shadeFragment(x, y int, z float32, state metadata.RenderState, c color.RGBA) bool {
	i := y*t.Width + x
	stored := t.stencil[i]
	stencilPassed := state.Stencil.Test(stored)
	depthPassed := stencilPassed && state.Depth.Compare.CompareFloat(z, t.depth[i])
	t.stencil[i] = state.Stencil.Update(stored, stencilPassed, depthPassed)
	if !depthPassed {
		return false
	}
	if state.Depth.WriteEnabled {
		t.depth[i] = z
	}
	t.writeColour(i, c, state.ColorMask)
	return true
}

func (t *RenderTarget) writeColour(i int, c color.RGBA, mask metadata.ColorWriteMask) {
	if mask == metadata.ColorWriteMaskNone {
		return
	}
	p := t.colour.Pix[i*4 : i*4+4 : i*4+4]
	if mask&metadata.ColorWriteMaskRed != 0 {
		p[0] = c.R
	}
	if mask&metadata.ColorWriteMaskGreen != 0 {
		p[1] = c.G
	}
	if mask&metadata.ColorWriteMaskBlue != 0 {
		p[2] = c.B
	}
	if mask&metadata.ColorWriteMaskAlpha != 0 {
		p[3] = c.A
	}
}
