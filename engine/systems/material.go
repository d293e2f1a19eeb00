package systems

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/** @brief The configuration for the material system. */
type MaterialSystemConfig struct {
	/** @brief The initial capacity of the id pool. */
	MaxMaterialCount uint32
}

/**
 * @brief Creates, names and destroys materials. Named materials are the
 * ones configuration refers to; engine materials are anonymous and owned
 * by whoever created them.
 */
type MaterialSystem struct {
	Config *MaterialSystemConfig

	ids             *core.IdentifierPool
	named           map[string]*metadata.Material
	engine          map[uint32]*metadata.Material
	defaultMaterial *metadata.Material
	shaderSystem    *ShaderSystem
}

func NewMaterialSystem(config *MaterialSystemConfig, ss *ShaderSystem) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	ms := &MaterialSystem{
		Config:       config,
		ids:          core.NewIdentifierPool(int(config.MaxMaterialCount)),
		named:        make(map[string]*metadata.Material),
		engine:       make(map[uint32]*metadata.Material),
		shaderSystem: ss,
	}
	ms.defaultMaterial = metadata.NewMaterial(metadata.DefaultMaterialName, ss.FindShader(BuiltinShaderLit))
	ms.defaultMaterial.ID = ms.ids.AquireNewID(ms.defaultMaterial)
	ms.named[metadata.DefaultMaterialName] = ms.defaultMaterial
	return ms, nil
}

// CreateEngineMaterial creates an anonymous material using shader. A nil
// shader produces a material that is not functional.
func (ms *MaterialSystem) CreateEngineMaterial(shader *metadata.Shader) *metadata.Material {
	shaderName := "<none>"
	if shader != nil {
		shaderName = shader.Name
	}
	m := metadata.NewMaterial(fmt.Sprintf("%s (%s)", shaderName, uuid.NewString()), shader)
	m.ID = ms.ids.AquireNewID(m)
	ms.engine[m.ID] = m
	core.LogDebug("engine material '%s' created (id=%d)", m.Name, m.ID)
	return m
}

// DestroyMaterial releases a material created by this system. Destroying
// nil or an unknown material does nothing.
func (ms *MaterialSystem) DestroyMaterial(m *metadata.Material) {
	if m == nil {
		return
	}
	if ms.ids.Owner(m.ID) != m {
		core.LogWarn("material '%s' was not created by the material system. Nothing was done", m.Name)
		return
	}
	if err := ms.ids.ReleaseID(m.ID); err != nil {
		core.LogError(err.Error())
		return
	}
	delete(ms.engine, m.ID)
	if ms.named[m.Name] == m {
		delete(ms.named, m.Name)
	}
	core.LogDebug("material '%s' destroyed", m.Name)
}

// Create builds a named material from config. An existing material with the
// same name is updated in place so references to it stay valid.
func (ms *MaterialSystem) Create(config metadata.MaterialConfig) (*metadata.Material, error) {
	shader, err := ms.resolve(config)
	if err != nil {
		return nil, err
	}
	return ms.commit(config, shader), nil
}

// CreateAll is Create for a batch. Every config is resolved before any
// material is touched, so on error no material has changed.
func (ms *MaterialSystem) CreateAll(configs []metadata.MaterialConfig) ([]*metadata.Material, error) {
	shaders := make([]*metadata.Shader, len(configs))
	for i, config := range configs {
		shader, err := ms.resolve(config)
		if err != nil {
			return nil, err
		}
		shaders[i] = shader
	}
	materials := make([]*metadata.Material, len(configs))
	for i, config := range configs {
		materials[i] = ms.commit(config, shaders[i])
	}
	return materials, nil
}

func (ms *MaterialSystem) resolve(config metadata.MaterialConfig) (*metadata.Shader, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("material config requires a name")
	}
	shader, err := ms.shaderSystem.Get(config.ShaderName)
	if err != nil {
		return nil, fmt.Errorf("material '%s': %w", config.Name, err)
	}
	return shader, nil
}

func (ms *MaterialSystem) commit(config metadata.MaterialConfig, shader *metadata.Shader) *metadata.Material {
	m, ok := ms.named[config.Name]
	if !ok {
		m = metadata.NewMaterial(config.Name, shader)
		m.ID = ms.ids.AquireNewID(m)
		ms.named[config.Name] = m
	}
	m.Shader = shader
	c := config.DiffuseColour
	m.DiffuseColour = math.NewVec4(c[0], c[1], c[2], c[3])
	m.RenderQueue = config.RenderQueue
	if m.RenderQueue == 0 {
		m.RenderQueue = metadata.RenderQueueGeometry
	}
	return m
}

// Acquire returns the named material, or ErrUnknownMaterial.
func (ms *MaterialSystem) Acquire(name string) (*metadata.Material, error) {
	m, ok := ms.named[name]
	if !ok {
		return nil, fmt.Errorf("'%s': %w", name, core.ErrUnknownMaterial)
	}
	return m, nil
}

func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.defaultMaterial
}

// LiveCount returns how many engine materials have not been destroyed.
func (ms *MaterialSystem) LiveCount() int {
	return len(ms.engine)
}

func (ms *MaterialSystem) Shutdown() error {
	if n := len(ms.engine); n > 0 {
		core.LogWarn("material system shutting down with %d engine material(s) still alive", n)
	}
	for _, m := range ms.engine {
		ms.DestroyMaterial(m)
	}
	for _, m := range ms.named {
		ms.DestroyMaterial(m)
	}
	return nil
}
