package metadata

import (
	"github.com/spaghettifunk/seethrough/engine/math"
)

/** @brief The layer every renderer lives on unless told otherwise. */
const DefaultLayer uint8 = 0

/**
 * @brief A drawable object: a mesh placed in the world, drawn with a
 * material, living on exactly one layer.
 */
type Renderer struct {
	/** @brief Unique per scene. */
	Name     string
	Layer    uint8
	Mesh     *Mesh
	Material *Material
	Position math.Vec3
	Scale    math.Vec3
}

func NewRenderer(name string, layer uint8, mesh *Mesh, material *Material) *Renderer {
	return &Renderer{
		Name:     name,
		Layer:    layer,
		Mesh:     mesh,
		Material: material,
		Scale:    math.NewVec3One(),
	}
}

// Model returns the object to world matrix.
func (r *Renderer) Model() math.Mat4 {
	return math.NewMat4Scale(r.Scale).Mul(math.NewMat4Translation(r.Position))
}

// WorldBounds returns the axis aligned bounds of the mesh in world space.
func (r *Renderer) WorldBounds() math.Extents3D {
	if r.Mesh == nil {
		return math.Extents3D{Min: r.Position, Max: r.Position}
	}
	model := r.Model()
	a := r.Mesh.Bounds.Min.Transform(model)
	b := r.Mesh.Bounds.Max.Transform(model)
	return math.Extents3D{
		Min: math.NewVec3(min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)),
		Max: math.NewVec3(max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)),
	}
}

// Center returns the centre of the world bounds, used for distance sorting.
func (r *Renderer) Center() math.Vec3 {
	b := r.WorldBounds()
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// RenderQueue returns the queue of the renderer's material.
func (r *Renderer) RenderQueue() int {
	if r.Material == nil {
		return RenderQueueGeometry
	}
	return r.Material.RenderQueue
}

/**
 * @brief The renderers that survived culling for one camera this frame.
 * Produced by the host and consumed read-only.
 */
type CullingResults struct {
	VisibleRenderers []*Renderer
}
