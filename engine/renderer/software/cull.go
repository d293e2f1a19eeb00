package software

import (
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

// Cull keeps the renderers whose world bounds overlap the view volume of
// camera. Bounds reaching behind the eye are kept.
func Cull(camera *components.Camera, renderers []*metadata.Renderer) *metadata.CullingResults {
	results := &metadata.CullingResults{}
	viewProj := camera.GetViewProjection()
	for _, r := range renderers {
		if r == nil || r.Mesh == nil {
			continue
		}
		if boundsVisible(r.WorldBounds(), viewProj) {
			results.VisibleRenderers = append(results.VisibleRenderers, r)
		}
	}
	return results
}

func boundsVisible(b math.Extents3D, viewProj math.Mat4) bool {
	lo := math.NewVec3(1e30, 1e30, 1e30)
	hi := lo.MulScalar(-1)
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		clip := corner.ToVec4(1.0).Transform(viewProj)
		if clip.W <= math.K_FLOAT_EPSILON {
			return true
		}
		p := math.NewVec3(clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W)
		lo = math.NewVec3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math.NewVec3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	return hi.X >= -1 && lo.X <= 1 &&
		hi.Y >= -1 && lo.Y <= 1 &&
		hi.Z >= -1 && lo.Z <= 1
}
