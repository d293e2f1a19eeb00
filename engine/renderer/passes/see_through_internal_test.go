package passes

import (
	"image/color"
	"testing"

	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/spaghettifunk/seethrough/engine/renderer/software"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShaders map[string]*metadata.Shader

func (f fakeShaders) FindShader(name string) *metadata.Shader {
	return f[name]
}

type fakeMaterials struct {
	live      map[*metadata.Material]struct{}
	destroyed []*metadata.Material
}

func (f *fakeMaterials) CreateEngineMaterial(shader *metadata.Shader) *metadata.Material {
	m := metadata.NewMaterial("engine", shader)
	f.live[m] = struct{}{}
	return m
}

func (f *fakeMaterials) DestroyMaterial(m *metadata.Material) {
	delete(f.live, m)
	f.destroyed = append(f.destroyed, m)
}

var (
	litShader = &metadata.Shader{
		Name: "Lit",
		Passes: []metadata.ShaderPass{{
			Name:      "Forward",
			LightMode: metadata.ShaderTagForward,
			State: metadata.RenderState{
				Depth:     metadata.DepthState{WriteEnabled: true, Compare: metadata.CompareFunctionLess},
				ColorMask: metadata.ColorWriteMaskAll,
			},
		}},
	}
	xrayShader = &metadata.Shader{
		Name: "XRay",
		Passes: []metadata.ShaderPass{
			litShader.Passes[0],
			{
				Name:      CompositingPassName,
				LightMode: metadata.ShaderTagForwardOnly,
				State: metadata.RenderState{
					Depth:     metadata.DepthState{Compare: metadata.CompareFunctionGreater},
					ColorMask: metadata.ColorWriteMaskAll,
				},
			},
		},
	}
	stencilShader = &metadata.Shader{
		Name:   StencilShaderName,
		Hidden: true,
		Passes: []metadata.ShaderPass{{
			Name:      "StencilWrite",
			LightMode: metadata.ShaderTagFirstPass,
			State: metadata.RenderState{
				Depth: metadata.DepthState{Compare: metadata.CompareFunctionLessEqual},
				Stencil: metadata.StencilState{
					Enabled: true,
					Compare: metadata.CompareFunctionAlways,
					PassOp:  metadata.StencilOpReplace,
				},
				ColorMask: metadata.ColorWriteMaskNone,
			},
			StencilWriteMaskProperty: StencilWriteMaskProperty,
		}},
	}
)

var magenta = color.RGBA{R: 0xFF, B: 0xFF, A: 0xFF}

type scene struct {
	camera    *components.Camera
	renderers []*metadata.Renderer
	xray      *metadata.Material
}

// newScene places a wall in front of a character on layer 1, with a prop
// on layer 2 between them covering the right half of the character.
func newScene() *scene {
	camera := components.NewCamera()
	camera.SetViewport(100, 100)
	camera.SetOrthographic(5, 0.1, 100)
	camera.SetPosition(math.NewVec3(0, 0, 10))
	camera.LookAt(math.NewVec3Zero())

	quad := func(name string, layer uint8, w, h float32, pos math.Vec3) *metadata.Renderer {
		m := metadata.NewMaterial(name, litShader)
		r := metadata.NewRenderer(name, layer, metadata.NewQuadMesh(name, w, h), m)
		r.Position = pos
		return r
	}
	xray := metadata.NewMaterial("xray", xrayShader)
	xray.DiffuseColour = math.NewVec4(1, 0, 1, 1)
	return &scene{
		camera: camera,
		renderers: []*metadata.Renderer{
			quad("wall", 0, 6, 6, math.NewVec3(0, 0, 0)),
			quad("character", 1, 2, 4, math.NewVec3(0, 0, -2)),
			quad("prop", 2, 2, 2, math.NewVec3(1, 0, -1)),
		},
		xray: xray,
	}
}

func (s *scene) pass(t *testing.T) (*SeeThroughPass, *fakeMaterials) {
	t.Helper()
	materials := &fakeMaterials{live: make(map[*metadata.Material]struct{})}
	config := DefaultConfig()
	config.SeeThroughLayer = metadata.LayerMask(1 << 1)
	config.ExcludeLayer = metadata.LayerMask(1 << 2)
	config.SeeThroughMaterial = s.xray
	p := NewSeeThroughPass("test", config, fakeShaders{StencilShaderName: stencilShader}, materials)
	require.NoError(t, p.Setup(nil, nil))
	return p, materials
}

// render draws the opaque geometry, lets record add its draws and submits.
func (s *scene) render(t *testing.T, record func(ctx *renderer.CustomPassContext)) (*software.RenderTarget, *software.CommandBuffer) {
	t.Helper()
	target := software.NewRenderTarget(100, 100)
	ctx := software.NewContext(target)
	cmd := software.NewCommandBuffer("frame")
	cmd.Clear(renderer.ClearAll, math.NewVec4(0, 0, 0, 1))

	culling := software.Cull(s.camera, s.renderers)
	opaque, err := ctx.CreateRendererList(&metadata.RendererListDesc{
		PassTags:         []metadata.ShaderTagID{metadata.ShaderTagForward},
		CullingResults:   culling,
		Camera:           s.camera,
		RenderQueueRange: metadata.RenderQueueRangeOpaque,
		SortingCriteria:  metadata.SortingCriteriaCommonOpaque,
		LayerMask:        metadata.LayerMaskEverything,
	})
	require.NoError(t, err)
	cmd.DrawRendererList(opaque)

	record(&renderer.CustomPassContext{
		RenderContext:  ctx,
		Cmd:            cmd,
		CullingResults: culling,
		Camera:         s.camera,
	})
	ctx.Submit(cmd)
	return target, cmd
}

func countColour(target *software.RenderTarget, c color.RGBA) int {
	n := 0
	for y := 0; y < target.Height; y++ {
		for x := 0; x < target.Width; x++ {
			if target.ColourAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestMarkingMustPrecedeCompositing(t *testing.T) {
	s := newScene()
	p, _ := s.pass(t)
	passIndex, err := p.compositingPass()
	require.NoError(t, err)
	require.Equal(t, 1, passIndex)

	inOrder, _ := s.render(t, func(ctx *renderer.CustomPassContext) {
		require.NoError(t, p.Execute(ctx))
	})
	reversed, _ := s.render(t, func(ctx *renderer.CustomPassContext) {
		p.composite(ctx, passIndex)
		p.markStencil(ctx)
	})

	assert.Equal(t, 600, countColour(inOrder, magenta))
	assert.Equal(t, 800, countColour(reversed, magenta), "the prop no longer hides the effect")
	assert.NotEqual(t, inOrder.Pixels(), reversed.Pixels())
}

func TestOnlyTheExclusionBitIsWritten(t *testing.T) {
	s := newScene()
	p, _ := s.pass(t)

	target, _ := s.render(t, func(ctx *renderer.CustomPassContext) {
		// Another pass owns bit 0x01 on the wall.
		list, err := ctx.RenderContext.CreateRendererList(&metadata.RendererListDesc{
			PassTags:         []metadata.ShaderTagID{metadata.ShaderTagForward},
			CullingResults:   ctx.CullingResults,
			Camera:           ctx.Camera,
			RenderQueueRange: metadata.RenderQueueRangeAll,
			OverrideMaterial: metadata.NewMaterial("other", stencilShader),
			LayerMask:        metadata.LayerMask(1),
			StateBlock: &metadata.RenderStateBlock{
				Mask:       metadata.RenderStateMaskDepth | metadata.RenderStateMaskStencil,
				DepthState: metadata.DepthState{Compare: metadata.CompareFunctionLessEqual},
				StencilState: metadata.StencilState{
					Enabled:   true,
					WriteMask: 0x01,
					Reference: 0x01,
					Compare:   metadata.CompareFunctionAlways,
					PassOp:    metadata.StencilOpReplace,
				},
			},
		})
		require.NoError(t, err)
		ctx.Cmd.DrawRendererList(list)
		require.NoError(t, p.Execute(ctx))
	})

	assert.Equal(t, uint8(0x81), target.StencilAt(55, 50), "prop over the wall")
	assert.Equal(t, uint8(0x01), target.StencilAt(45, 50), "wall only")
	assert.Equal(t, 3600, target.CountStencil(0x01))
	assert.Equal(t, 400, target.CountStencil(0x80))
	assert.Zero(t, target.CountStencil(0x7E))
	assert.Equal(t, 600, countColour(target, magenta), "bit 0x01 does not affect compositing")
}

func TestEmptyLayerMaskRecordsNoDraw(t *testing.T) {
	s := newScene()
	p, _ := s.pass(t)
	config := p.Config()
	config.ExcludeLayer = metadata.LayerMaskNothing
	require.NoError(t, p.SetConfig(config))

	target, cmd := s.render(t, func(ctx *renderer.CustomPassContext) {
		require.NoError(t, p.Execute(ctx))
	})
	// Clear, opaque, see-through marking, compositing.
	assert.Len(t, cmd.Commands(), 4)
	assert.Equal(t, 800, countColour(target, magenta))
	assert.Zero(t, target.CountStencil(0xFF))
}

func TestStencilMaterialCarriesTheBit(t *testing.T) {
	s := newScene()
	p, _ := s.pass(t)
	config := p.Config()
	config.ExclusionBit = 0x20
	require.NoError(t, p.SetConfig(config))

	target, _ := s.render(t, func(ctx *renderer.CustomPassContext) {
		require.NoError(t, p.Execute(ctx))
	})
	v, ok := p.StencilMaterial().GetInt(StencilWriteMaskProperty)
	require.True(t, ok)
	assert.Equal(t, int32(0x20), v)
	assert.Equal(t, 400, target.CountStencil(0x20))
	assert.Zero(t, target.CountStencil(0x80))
}

func TestCleanupDestroysOnlyTheStencilMaterial(t *testing.T) {
	s := newScene()
	p, materials := s.pass(t)
	require.Len(t, materials.live, 1)
	stencil := p.StencilMaterial()
	assert.Same(t, stencilShader, stencil.Shader)

	p.Cleanup()
	assert.Empty(t, materials.live)
	require.Len(t, materials.destroyed, 1)
	assert.Same(t, stencil, materials.destroyed[0])
	assert.Equal(t, PassStateDisposed, p.State())
	assert.Equal(t, "Disposed", p.State().String())
}

func TestStencilShaderOverride(t *testing.T) {
	s := newScene()
	materials := &fakeMaterials{live: make(map[*metadata.Material]struct{})}
	config := DefaultConfig()
	config.SeeThroughMaterial = s.xray
	config.StencilShader = stencilShader
	p := NewSeeThroughPass("test", config, fakeShaders{}, materials)
	require.NoError(t, p.Setup(nil, nil))
	assert.Same(t, stencilShader, p.StencilMaterial().Shader)

	// The resolved shader survives a cleanup and setup cycle.
	p.Cleanup()
	require.NoError(t, p.Setup(nil, nil))
	assert.Same(t, stencilShader, p.StencilMaterial().Shader)
	p.Cleanup()
}

func TestRemovingStencilShaderOverrideRestoresBuiltin(t *testing.T) {
	s := newScene()
	materials := &fakeMaterials{live: make(map[*metadata.Material]struct{})}
	custom := &metadata.Shader{Name: "Custom/Stencil", Passes: stencilShader.Passes}
	config := DefaultConfig()
	config.SeeThroughMaterial = s.xray
	config.StencilShader = custom
	p := NewSeeThroughPass("test", config, fakeShaders{StencilShaderName: stencilShader}, materials)
	require.NoError(t, p.Setup(nil, nil))
	assert.Same(t, custom, p.StencilMaterial().Shader)

	config.StencilShader = nil
	require.NoError(t, p.SetConfig(config))
	assert.Same(t, custom, p.StencilMaterial().Shader, "kept until the next cycle")

	p.Cleanup()
	require.NoError(t, p.Setup(nil, nil))
	assert.Same(t, stencilShader, p.StencilMaterial().Shader)
	p.Cleanup()
	assert.Empty(t, materials.live)
}
