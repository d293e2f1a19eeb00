package loaders

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

const (
	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"

	ShapeBox  = "box"
	ShapeQuad = "quad"
)

type CameraConfig struct {
	Position [3]float32 `toml:"position" yaml:"position"`
	Target   [3]float32 `toml:"target" yaml:"target"`
	/** @brief perspective (default) or orthographic. */
	Projection string `toml:"projection" yaml:"projection"`
	/** @brief Vertical field of view in degrees, perspective only. */
	FOV float32 `toml:"fov" yaml:"fov"`
	/** @brief Half of the visible height in world units, orthographic only. */
	OrthographicSize float32 `toml:"orthographic_size" yaml:"orthographic_size"`
	Near             float32 `toml:"near" yaml:"near"`
	Far              float32 `toml:"far" yaml:"far"`
}

type ObjectConfig struct {
	Name  string `toml:"name" yaml:"name"`
	Layer uint8  `toml:"layer" yaml:"layer"`
	/** @brief box (default) or quad. A quad uses the first two sizes. */
	Shape    string     `toml:"shape" yaml:"shape"`
	Size     [3]float32 `toml:"size" yaml:"size"`
	Position [3]float32 `toml:"position" yaml:"position"`
	/** @brief The material name. Empty uses the default material. */
	Material string `toml:"material" yaml:"material"`
}

/**
 * @brief A scene description: a camera, the materials it defines and the
 * objects to draw.
 */
type SceneConfig struct {
	Name        string                    `toml:"name" yaml:"name"`
	Width       uint32                    `toml:"width" yaml:"width"`
	Height      uint32                    `toml:"height" yaml:"height"`
	ClearColour [4]float32                `toml:"clear_colour" yaml:"clear_colour"`
	Camera      CameraConfig              `toml:"camera" yaml:"camera"`
	Materials   []metadata.MaterialConfig `toml:"materials" yaml:"materials"`
	Objects     []ObjectConfig            `toml:"objects" yaml:"objects"`
}

func LoadScene(path string) (*SceneConfig, error) {
	scene := &SceneConfig{}
	if err := decodeFile(path, scene); err != nil {
		return nil, err
	}
	if scene.Name == "" {
		scene.Name = path
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	core.LogDebug("scene '%s' loaded with %d object(s)", scene.Name, len(scene.Objects))
	return scene, nil
}

func (s *SceneConfig) Validate() error {
	switch s.Camera.Projection {
	case "", ProjectionPerspective, ProjectionOrthographic:
	default:
		return fmt.Errorf("unknown camera projection '%s'", s.Camera.Projection)
	}

	materials := make(map[string]bool, len(s.Materials))
	for _, m := range s.Materials {
		if m.Name == "" {
			return fmt.Errorf("material without a name")
		}
		materials[m.Name] = true
	}

	names := make(map[string]bool, len(s.Objects))
	for _, o := range s.Objects {
		if o.Name == "" {
			return fmt.Errorf("object without a name")
		}
		if names[o.Name] {
			return fmt.Errorf("duplicate object '%s'", o.Name)
		}
		names[o.Name] = true
		if o.Layer >= metadata.MaxLayers {
			return fmt.Errorf("object '%s': layer %d out of range", o.Name, o.Layer)
		}
		switch o.Shape {
		case "", ShapeBox:
			if o.Size[0] <= 0 || o.Size[1] <= 0 || o.Size[2] <= 0 {
				return fmt.Errorf("object '%s': box sizes must be positive", o.Name)
			}
		case ShapeQuad:
			if o.Size[0] <= 0 || o.Size[1] <= 0 {
				return fmt.Errorf("object '%s': quad sizes must be positive", o.Name)
			}
		default:
			return fmt.Errorf("object '%s': unknown shape '%s'", o.Name, o.Shape)
		}
		if o.Material != "" && o.Material != metadata.DefaultMaterialName && !materials[o.Material] {
			return fmt.Errorf("object '%s': material '%s': %w", o.Name, o.Material, core.ErrUnknownMaterial)
		}
	}
	return nil
}
