package components

import (
	"github.com/spaghettifunk/seethrough/engine/math"
)

type ProjectionType uint8

const (
	ProjectionPerspective ProjectionType = iota
	ProjectionOrthographic
)

/**
 * @brief Represents a camera that can be used for
 * a variety of things, especially rendering.
 */
type Camera struct {
	Name string
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	Up     math.Vec3

	Projection ProjectionType
	/** @brief Vertical field of view in radians, perspective only. */
	FOV float32
	/** @brief Half of the visible height in world units, orthographic only. */
	OrthographicSize float32
	NearClip         float32
	FarClip          float32

	/** @brief The viewport size in pixels. */
	Width  uint32
	Height uint32

	/** @brief Internal flag used to determine when the matrices need to be rebuilt. */
	IsDirty          bool
	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera() *Camera {
	camera := &Camera{Name: DEFAULT_CAMERA_NAME}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec3(0, 0, 10)
	c.Target = math.NewVec3Zero()
	c.Up = math.NewVec3Up()
	c.Projection = ProjectionPerspective
	c.FOV = math.DegToRad(45.0)
	c.OrthographicSize = 5
	c.NearClip = 0.1
	c.FarClip = 1000.0
	c.Width = 1280
	c.Height = 720
	c.IsDirty = true
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

func (c *Camera) SetViewport(width, height uint32) {
	c.Width = width
	c.Height = height
	c.IsDirty = true
}

func (c *Camera) SetOrthographic(size, near, far float32) {
	c.Projection = ProjectionOrthographic
	c.OrthographicSize = size
	c.NearClip = near
	c.FarClip = far
	c.IsDirty = true
}

func (c *Camera) SetPerspective(fovRadians, near, far float32) {
	c.Projection = ProjectionPerspective
	c.FOV = fovRadians
	c.NearClip = near
	c.FarClip = far
	c.IsDirty = true
}

func (c *Camera) Aspect() float32 {
	if c.Height == 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

func (c *Camera) GetView() math.Mat4 {
	c.rebuild()
	return c.viewMatrix
}

func (c *Camera) GetProjection() math.Mat4 {
	c.rebuild()
	return c.projectionMatrix
}

// GetViewProjection returns view * projection, ready for row vectors.
func (c *Camera) GetViewProjection() math.Mat4 {
	c.rebuild()
	return c.viewMatrix.Mul(c.projectionMatrix)
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	c.viewMatrix = math.NewMat4LookAt(c.Position, c.Target, c.Up)
	switch c.Projection {
	case ProjectionOrthographic:
		h := c.OrthographicSize
		w := h * c.Aspect()
		c.projectionMatrix = math.NewMat4Orthographic(-w, w, -h, h, c.NearClip, c.FarClip)
	default:
		c.projectionMatrix = math.NewMat4Perspective(c.FOV, c.Aspect(), c.NearClip, c.FarClip)
	}
	c.IsDirty = false
}
