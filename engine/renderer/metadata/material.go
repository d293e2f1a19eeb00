package metadata

import (
	"sync"

	"github.com/spaghettifunk/seethrough/engine/math"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string `toml:"name" yaml:"name"`
	/** @brief The name of the shader the material uses. */
	ShaderName string `toml:"shader" yaml:"shader"`
	/** @brief The diffuse colour of the material, RGBA in [0, 1]. */
	DiffuseColour [4]float32 `toml:"diffuse_colour" yaml:"diffuse_colour"`
	/** @brief The render queue. 0 means RenderQueueGeometry. */
	RenderQueue int `toml:"render_queue" yaml:"render_queue"`
}

/**
 * @brief A material, which binds a shader to the properties
 * used when drawing with it.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material name. */
	Name string
	/** @brief The shader. A nil shader makes the material non-functional. */
	Shader *Shader
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief The render queue used to filter renderer lists. */
	RenderQueue int

	mu   sync.RWMutex
	ints map[string]int32
}

func NewMaterial(name string, shader *Shader) *Material {
	return &Material{
		Name:          name,
		Shader:        shader,
		DiffuseColour: math.NewVec4(1, 1, 1, 1),
		RenderQueue:   RenderQueueGeometry,
		ints:          make(map[string]int32),
	}
}

// IsFunctional reports whether draws with this material can produce anything.
func (m *Material) IsFunctional() bool {
	return m != nil && m.Shader != nil
}

func (m *Material) SetInt(name string, value int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ints == nil {
		m.ints = make(map[string]int32)
	}
	m.ints[name] = value
}

func (m *Material) GetInt(name string) (int32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.ints[name]
	return v, ok
}

// FindPass returns the index of the named pass of the material's shader, or -1.
func (m *Material) FindPass(name string) int {
	if m == nil {
		return -1
	}
	return m.Shader.FindPass(name)
}

func (m *Material) PassCount() int {
	if m == nil || m.Shader == nil {
		return 0
	}
	return len(m.Shader.Passes)
}
