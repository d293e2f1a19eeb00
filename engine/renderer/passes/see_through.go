package passes

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

const (
	/** @brief The internal shader used to mark the exclusion bit. */
	StencilShaderName string = "Hidden/Renderers/SeeThroughStencil"
	/** @brief The integer property of the stencil material holding the bit to write. */
	StencilWriteMaskProperty string = "_StencilWriteMask"
	/** @brief The pass of the override material used for compositing. */
	CompositingPassName string = "ForwardOnly"
)

type PassState uint8

const (
	PassStateUninitialized PassState = iota
	PassStateReady
	PassStateDisposed
)

func (s PassState) String() string {
	switch s {
	case PassStateReady:
		return "Ready"
	case PassStateDisposed:
		return "Disposed"
	}
	return "Uninitialized"
}

/**
 * @brief Draws the occluded parts of the see-through layer with an override
 * material, except where the exclusion layer covers them.
 *
 * Every frame the pass first marks the exclusion bit in the stencil buffer
 * for every pixel of the exclusion layer and for the front-most pixels of
 * the see-through layer, then draws the see-through layer with the override
 * material where it is behind the depth buffer and the bit is still unset.
 */
type SeeThroughPass struct {
	name      string
	config    Config
	shaders   renderer.ShaderLibrary
	materials renderer.MaterialFactory

	// The built-in stencil shader, resolved by name once found.
	builtinStencilShader *metadata.Shader
	stencilMaterial      *metadata.Material
	shaderTags           []metadata.ShaderTagID
	state                PassState

	warnedNoMaterial bool
}

func NewSeeThroughPass(name string, config Config, shaders renderer.ShaderLibrary, materials renderer.MaterialFactory) *SeeThroughPass {
	return &SeeThroughPass{
		name:      name,
		config:    config,
		shaders:   shaders,
		materials: materials,
		state:     PassStateUninitialized,
	}
}

func (p *SeeThroughPass) Name() string {
	return p.name
}

func (p *SeeThroughPass) State() PassState {
	return p.state
}

func (p *SeeThroughPass) Config() Config {
	return p.config
}

// SetConfig replaces the configuration. It is used by the next Execute; a
// changed stencil shader override, or its removal, is only picked up by the
// next Setup cycle.
func (p *SeeThroughPass) SetConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	p.config = config
	p.warnedNoMaterial = false
	return nil
}

// StencilMaterial returns the material owned by the pass, nil unless Ready.
func (p *SeeThroughPass) StencilMaterial() *metadata.Material {
	return p.stencilMaterial
}

// ShaderTags returns a copy of the pass tags selected at Setup.
func (p *SeeThroughPass) ShaderTags() []metadata.ShaderTagID {
	return append([]metadata.ShaderTagID(nil), p.shaderTags...)
}

// Materials returns the materials referenced by the configuration, for
// inspection. The pass does not own them.
func (p *SeeThroughPass) Materials() []*metadata.Material {
	if p.config.SeeThroughMaterial == nil {
		return nil
	}
	return []*metadata.Material{p.config.SeeThroughMaterial}
}

// Setup creates the stencil material and selects the pass tags. Calling it
// on a Ready pass does nothing; on a Disposed pass it starts a new cycle.
// A missing stencil shader degrades the pass without failing. A missing
// compositing pass on the override material is reported as ErrPassNotFound.
func (p *SeeThroughPass) Setup(ctx renderer.RenderContext, cmd renderer.CommandBuffer) error {
	if err := p.config.Validate(); err != nil {
		return err
	}

	if p.state != PassStateReady {
		shader := p.config.StencilShader
		if shader == nil {
			if p.builtinStencilShader == nil {
				p.builtinStencilShader = p.shaders.FindShader(StencilShaderName)
			}
			shader = p.builtinStencilShader
			if shader == nil {
				core.LogWarn("%s: shader '%s' not found, stencil marking draws will be skipped", p.name, StencilShaderName)
			}
		}
		p.stencilMaterial = p.materials.CreateEngineMaterial(shader)
		p.shaderTags = []metadata.ShaderTagID{
			metadata.ShaderTagForward,
			metadata.ShaderTagForwardOnly,
			metadata.ShaderTagSRPDefaultUnlit,
			metadata.ShaderTagFirstPass,
		}
		p.state = PassStateReady
		p.warnedNoMaterial = false
		core.LogDebug("%s: ready (see-through %s, exclude %s, bit 0x%02X)", p.name, p.config.SeeThroughLayer, p.config.ExcludeLayer, p.config.ExclusionBit)
	}

	_, err := p.compositingPass()
	return err
}

// Execute records the marking draws and then the compositing draw into
// ctx.Cmd. Nothing is recorded when the override material lacks the
// compositing pass.
func (p *SeeThroughPass) Execute(ctx *renderer.CustomPassContext) error {
	if p.state != PassStateReady {
		return fmt.Errorf("%s: %w", p.name, core.ErrPassNotReady)
	}
	if ctx == nil || ctx.RenderContext == nil || ctx.Cmd == nil {
		return fmt.Errorf("%s: incomplete custom pass context", p.name)
	}
	passIndex, err := p.compositingPass()
	if err != nil {
		return err
	}

	p.markStencil(ctx)
	if passIndex < 0 {
		if !p.warnedNoMaterial {
			core.LogWarn("%s: no usable see-through material, compositing is skipped", p.name)
			p.warnedNoMaterial = true
		}
		return nil
	}
	p.composite(ctx, passIndex)
	return nil
}

// Cleanup destroys the stencil material. Safe without Setup and safe twice.
func (p *SeeThroughPass) Cleanup() {
	if p.stencilMaterial != nil {
		p.materials.DestroyMaterial(p.stencilMaterial)
		p.stencilMaterial = nil
	}
	if p.state == PassStateReady {
		p.state = PassStateDisposed
	}
}

// compositingPass returns the index of the compositing pass of the
// override material, or -1 when there is no usable override material.
func (p *SeeThroughPass) compositingPass() (int, error) {
	m := p.config.SeeThroughMaterial
	if m == nil || !m.IsFunctional() {
		return -1, nil
	}
	index := m.FindPass(CompositingPassName)
	if index < 0 {
		return -1, fmt.Errorf("%s: material '%s' has no '%s' pass: %w", p.name, m.Name, CompositingPassName, core.ErrPassNotFound)
	}
	return index, nil
}

// markStencil sets the exclusion bit for every pixel of the exclusion layer
// and for the front-most pixels of the see-through layer.
func (p *SeeThroughPass) markStencil(ctx *renderer.CustomPassContext) {
	bit := p.config.ExclusionBit
	p.stencilMaterial.SetInt(StencilWriteMaskProperty, int32(bit))

	write := metadata.StencilState{
		Enabled:   true,
		ReadMask:  0,
		WriteMask: bit,
		Reference: bit,
		Compare:   metadata.CompareFunctionAlways,
		PassOp:    metadata.StencilOpReplace,
		FailOp:    metadata.StencilOpKeep,
		ZFailOp:   metadata.StencilOpKeep,
	}
	p.renderObjectsWithStencil(ctx, p.stencilMaterial, 0, metadata.CompareFunctionAlways, p.config.ExcludeLayer, write)
	p.renderObjectsWithStencil(ctx, p.stencilMaterial, 0, metadata.CompareFunctionLessEqual, p.config.SeeThroughLayer, write)
}

// composite draws the occluded parts of the see-through layer where the
// exclusion bit is unset.
func (p *SeeThroughPass) composite(ctx *renderer.CustomPassContext, passIndex int) {
	read := metadata.StencilState{
		Enabled:   true,
		ReadMask:  p.config.ExclusionBit,
		WriteMask: 0,
		Reference: 0,
		Compare:   metadata.CompareFunctionEqual,
		PassOp:    metadata.StencilOpKeep,
		FailOp:    metadata.StencilOpKeep,
		ZFailOp:   metadata.StencilOpKeep,
	}
	p.renderObjectsWithStencil(ctx, p.config.SeeThroughMaterial, passIndex, metadata.CompareFunctionGreater, p.config.SeeThroughLayer, read)
}
