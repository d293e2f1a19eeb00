package engine

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/assets/loaders"
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/spaghettifunk/seethrough/engine/systems"
)

const (
	defaultFOVDegrees       float32 = 45.0
	defaultOrthographicSize float32 = 5.0
	defaultNearClip         float32 = 0.1
	defaultFarClip          float32 = 1000.0
)

/** @brief The renderers and camera of a loaded scene. */
type Scene struct {
	Name        string
	ClearColour math.Vec4
	Renderers   []*metadata.Renderer
}

// buildScene creates the materials of config and the renderers of its
// objects. Materials that already exist are updated in place, and only
// once the scene validates and every material shader resolves.
func buildScene(config *loaders.SceneConfig, ms *systems.MaterialSystem) (*Scene, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := ms.CreateAll(config.Materials); err != nil {
		return nil, err
	}

	c := config.ClearColour
	scene := &Scene{
		Name:        config.Name,
		ClearColour: math.NewVec4(c[0], c[1], c[2], c[3]),
	}
	for _, o := range config.Objects {
		material := ms.GetDefault()
		if o.Material != "" {
			m, err := ms.Acquire(o.Material)
			if err != nil {
				return nil, fmt.Errorf("object '%s': %w", o.Name, err)
			}
			material = m
		}

		var mesh *metadata.Mesh
		switch o.Shape {
		case loaders.ShapeQuad:
			mesh = metadata.NewQuadMesh(o.Name, o.Size[0], o.Size[1])
		default:
			mesh = metadata.NewBoxMesh(o.Name, math.NewVec3(o.Size[0], o.Size[1], o.Size[2]))
		}
		r := metadata.NewRenderer(o.Name, o.Layer, mesh, material)
		r.Position = math.NewVec3(o.Position[0], o.Position[1], o.Position[2])
		scene.Renderers = append(scene.Renderers, r)
	}
	return scene, nil
}

// applyCamera configures camera from config, filling in defaults.
func applyCamera(camera *components.Camera, config loaders.CameraConfig) {
	near, far := config.Near, config.Far
	if near <= 0 {
		near = defaultNearClip
	}
	if far <= near {
		far = defaultFarClip
	}
	switch config.Projection {
	case loaders.ProjectionOrthographic:
		size := config.OrthographicSize
		if size <= 0 {
			size = defaultOrthographicSize
		}
		camera.SetOrthographic(size, near, far)
	default:
		fov := config.FOV
		if fov <= 0 {
			fov = defaultFOVDegrees
		}
		camera.SetPerspective(math.DegToRad(fov), near, far)
	}
	p, t := config.Position, config.Target
	if p == t {
		p = [3]float32{t[0], t[1], t[2] + 10}
	}
	camera.SetPosition(math.NewVec3(p[0], p[1], p[2]))
	camera.LookAt(math.NewVec3(t[0], t[1], t[2]))
}
