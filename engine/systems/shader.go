package systems

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/spaghettifunk/seethrough/engine/renderer/passes"
)

const (
	/** @brief The default opaque shader. */
	BuiltinShaderLit string = "Anima/Lit"
	/** @brief The default see-through override shader. */
	BuiltinShaderXRay string = "Anima/XRay"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
	/** @brief When false the built-in shaders are not registered. */
	RegisterBuiltins bool
}

type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for shader name->id
	Lookup map[string]uint32
	// A collection of created shaders, indexed by id.
	Shaders []*metadata.Shader
}

func NewShaderSystem(config *ShaderSystemConfig) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	shaderSystem := &ShaderSystem{
		Config:  config,
		Lookup:  make(map[string]uint32),
		Shaders: make([]*metadata.Shader, 0, config.MaxShaderCount),
	}
	if config.RegisterBuiltins {
		for _, shader := range builtinShaders() {
			if err := shaderSystem.Register(shader); err != nil {
				return nil, err
			}
		}
	}
	return shaderSystem, nil
}

// Register adds shader to the system and assigns its id. Names are unique.
func (shaderSystem *ShaderSystem) Register(shader *metadata.Shader) error {
	if shader == nil || shader.Name == "" {
		return fmt.Errorf("cannot register a shader without a name")
	}
	if _, ok := shaderSystem.Lookup[shader.Name]; ok {
		return fmt.Errorf("shader '%s' is already registered", shader.Name)
	}
	if len(shaderSystem.Shaders) >= int(shaderSystem.Config.MaxShaderCount) {
		err := fmt.Errorf("unable to find free slot to create new shader '%s'. Adjust the shader system config", shader.Name)
		core.LogError(err.Error())
		return err
	}
	shader.ID = uint32(len(shaderSystem.Shaders))
	shaderSystem.Shaders = append(shaderSystem.Shaders, shader)
	shaderSystem.Lookup[shader.Name] = shader.ID
	core.LogDebug("shader '%s' registered with %d pass(es)", shader.Name, len(shader.Passes))
	return nil
}

// FindShader returns the shader called name, or nil.
func (shaderSystem *ShaderSystem) FindShader(name string) *metadata.Shader {
	id, ok := shaderSystem.Lookup[name]
	if !ok {
		return nil
	}
	return shaderSystem.Shaders[id]
}

// Get is FindShader returning ErrShaderNotFound for unknown names.
func (shaderSystem *ShaderSystem) Get(name string) (*metadata.Shader, error) {
	shader := shaderSystem.FindShader(name)
	if shader == nil {
		return nil, fmt.Errorf("'%s': %w", name, core.ErrShaderNotFound)
	}
	return shader, nil
}

func (shaderSystem *ShaderSystem) Shutdown() error {
	shaderSystem.Lookup = make(map[string]uint32)
	shaderSystem.Shaders = shaderSystem.Shaders[:0]
	return nil
}

func builtinShaders() []*metadata.Shader {
	return []*metadata.Shader{
		{
			Name:   passes.StencilShaderName,
			Hidden: true,
			Passes: []metadata.ShaderPass{{
				Name:      "StencilWrite",
				LightMode: metadata.ShaderTagFirstPass,
				State: metadata.RenderState{
					Depth: metadata.DepthState{WriteEnabled: false, Compare: metadata.CompareFunctionLessEqual},
					Stencil: metadata.StencilState{
						Enabled: true,
						Compare: metadata.CompareFunctionAlways,
						PassOp:  metadata.StencilOpReplace,
					},
					ColorMask: metadata.ColorWriteMaskNone,
					CullMode:  metadata.FaceCullModeBack,
				},
				StencilWriteMaskProperty: passes.StencilWriteMaskProperty,
			}},
		},
		{
			Name: BuiltinShaderLit,
			Passes: []metadata.ShaderPass{{
				Name:      "Forward",
				LightMode: metadata.ShaderTagForward,
				State: metadata.RenderState{
					Depth:     metadata.DepthState{WriteEnabled: true, Compare: metadata.CompareFunctionLess},
					ColorMask: metadata.ColorWriteMaskAll,
					CullMode:  metadata.FaceCullModeBack,
				},
			}},
		},
		{
			Name: BuiltinShaderXRay,
			Passes: []metadata.ShaderPass{
				{
					Name:      "Forward",
					LightMode: metadata.ShaderTagForward,
					State: metadata.RenderState{
						Depth:     metadata.DepthState{WriteEnabled: true, Compare: metadata.CompareFunctionLess},
						ColorMask: metadata.ColorWriteMaskAll,
						CullMode:  metadata.FaceCullModeBack,
					},
				},
				{
					Name:      passes.CompositingPassName,
					LightMode: metadata.ShaderTagForwardOnly,
					State: metadata.RenderState{
						Depth:     metadata.DepthState{WriteEnabled: false, Compare: metadata.CompareFunctionGreater},
						ColorMask: metadata.ColorWriteMaskAll,
						CullMode:  metadata.FaceCullModeBack,
					},
				},
			},
		},
	}
}
