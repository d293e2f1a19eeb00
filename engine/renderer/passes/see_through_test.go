package passes_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/spaghettifunk/seethrough/engine/renderer/passes"
	"github.com/spaghettifunk/seethrough/engine/renderer/software"
	"github.com/spaghettifunk/seethrough/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	seeThroughLayer uint8 = 3
	excludeLayer    uint8 = 5
)

var (
	white   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	blue    = color.RGBA{B: 0xFF, A: 0xFF}
	magenta = color.RGBA{R: 0xFF, B: 0xFF, A: 0xFF}
)

// harness is a 100x100 software host with an orthographic camera showing
// 10 pixels per world unit, centred on the origin.
type harness struct {
	t         *testing.T
	backend   *software.Backend
	sm        *systems.SystemManager
	camera    *components.Camera
	renderers []*metadata.Renderer
}

func newHarness(t *testing.T, shaderConfig *systems.ShaderSystemConfig) *harness {
	t.Helper()
	backend := software.New()
	sm, err := systems.NewSystemManager(backend, &systems.RendererSystemConfig{ClearColour: math.NewVec4(0, 0, 0, 1)})
	require.NoError(t, err)
	if shaderConfig != nil {
		ss, err := systems.NewShaderSystem(shaderConfig)
		require.NoError(t, err)
		ms, err := systems.NewMaterialSystem(&systems.MaterialSystemConfig{MaxMaterialCount: 16}, ss)
		require.NoError(t, err)
		sm.ShaderSystem = ss
		sm.MaterialSystem = ms
	}
	require.NoError(t, sm.RendererSystem.Initialize(100, 100))

	camera := components.NewCamera()
	camera.SetViewport(100, 100)
	camera.SetOrthographic(5, 0.1, 100)
	camera.SetPosition(math.NewVec3(0, 0, 10))
	camera.LookAt(math.NewVec3Zero())

	h := &harness{t: t, backend: backend, sm: sm, camera: camera}
	t.Cleanup(func() {
		assert.NoError(t, sm.Shutdown())
	})
	return h
}

func (h *harness) quad(name string, layer uint8, w, ht float32, pos math.Vec3, colour math.Vec4) *metadata.Renderer {
	h.t.Helper()
	shader := h.sm.ShaderSystem.FindShader(systems.BuiltinShaderLit)
	if shader == nil {
		shader = h.sm.ShaderSystem.FindShader("Test/Lit")
	}
	require.NotNil(h.t, shader)
	m := metadata.NewMaterial(name, shader)
	m.DiffuseColour = colour
	r := metadata.NewRenderer(name, layer, metadata.NewQuadMesh(name, w, ht), m)
	r.Position = pos
	h.renderers = append(h.renderers, r)
	return r
}

func (h *harness) xray() *metadata.Material {
	h.t.Helper()
	m, err := h.sm.MaterialSystem.Create(metadata.MaterialConfig{
		Name:          "xray",
		ShaderName:    systems.BuiltinShaderXRay,
		DiffuseColour: [4]float32{1, 0, 1, 1},
	})
	require.NoError(h.t, err)
	return m
}

func (h *harness) pass(config passes.Config) *passes.SeeThroughPass {
	h.t.Helper()
	p := passes.NewSeeThroughPass("see-through", config, h.sm.ShaderSystem, h.sm.MaterialSystem)
	require.NoError(h.t, h.sm.CustomPassSystem.Register(p))
	return p
}

func (h *harness) frame() *systems.FrameStats {
	h.t.Helper()
	stats, err := h.sm.RendererSystem.DrawFrame(&systems.RenderPacket{
		DeltaTime: 1.0 / 60.0,
		Camera:    h.camera,
		Renderers: h.renderers,
	})
	require.NoError(h.t, err)
	return stats
}

func (h *harness) count(c color.RGBA) int {
	target := h.backend.Target()
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

func layers(t *testing.T, l ...uint8) metadata.LayerMask {
	m, err := metadata.LayerMaskFromLayers(l...)
	require.NoError(t, err)
	return m
}

func config(t *testing.T, material *metadata.Material) passes.Config {
	c := passes.DefaultConfig()
	c.SeeThroughLayer = layers(t, seeThroughLayer)
	c.ExcludeLayer = layers(t, excludeLayer)
	c.SeeThroughMaterial = material
	return c
}

func TestScenarioWallCharacterProp(t *testing.T) {
	h := newHarness(t, nil)
	h.quad("wall", metadata.DefaultLayer, 6, 6, math.NewVec3(0, 0, 0), math.NewVec4(1, 1, 1, 1))
	h.quad("character", seeThroughLayer, 2, 4, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))
	h.quad("prop", excludeLayer, 2, 2, math.NewVec3(1, 0, -1), math.NewVec4(0, 1, 0, 1))

	p := h.pass(config(t, h.xray()))
	require.NoError(t, h.sm.CustomPassSystem.Activate(p.Name()))

	stats := h.frame()
	require.Empty(t, stats.PassErrors)
	require.Len(t, stats.Draws, 4, "opaque, two marking draws, compositing")

	target := h.backend.Target()
	// The character is 20x40 pixels, the prop hides 10x20 of them.
	assert.Equal(t, 600, h.count(magenta))
	assert.Equal(t, magenta, target.ColourAt(45, 50), "character only")
	assert.Equal(t, white, target.ColourAt(55, 50), "character behind the prop keeps the wall")
	assert.Equal(t, white, target.ColourAt(65, 50), "prop only")
	assert.Equal(t, white, target.ColourAt(50, 25), "wall only")
	assert.Zero(t, h.count(blue), "the character is fully hidden")

	assert.Equal(t, passes.DefaultExclusionBit, target.StencilAt(55, 50))
	assert.Zero(t, target.StencilAt(45, 50))
	assert.Equal(t, 400, target.CountStencil(0xFF), "only the prop is marked")
}

func TestExclusionDominatesAtEqualDepth(t *testing.T) {
	h := newHarness(t, nil)
	h.quad("wall", metadata.DefaultLayer, 8, 8, math.NewVec3(0, 0, 0), math.NewVec4(1, 1, 1, 1))
	// Same depth, the excluded quad covers the right half of the see-through one.
	h.quad("character", seeThroughLayer, 4, 2, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))
	h.quad("prop", excludeLayer, 2, 2, math.NewVec3(1, 0, -2), math.NewVec4(0, 1, 0, 1))

	p := h.pass(config(t, h.xray()))
	require.NoError(t, h.sm.CustomPassSystem.Activate(p.Name()))
	h.frame()

	target := h.backend.Target()
	assert.Equal(t, 400, h.count(magenta))
	for x := 50; x < 70; x++ {
		assert.Equal(t, white, target.ColourAt(x, 50))
		assert.NotZero(t, target.StencilAt(x, 50)&passes.DefaultExclusionBit)
	}
}

func TestObjectInBothLayersIsExcluded(t *testing.T) {
	h := newHarness(t, nil)
	h.quad("wall", metadata.DefaultLayer, 8, 8, math.NewVec3(0, 0, 0), math.NewVec4(1, 1, 1, 1))
	h.quad("character", seeThroughLayer, 2, 2, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))

	c := config(t, h.xray())
	c.ExcludeLayer = layers(t, seeThroughLayer, excludeLayer)
	p := h.pass(c)
	require.NoError(t, h.sm.CustomPassSystem.Activate(p.Name()))
	h.frame()

	assert.Zero(t, h.count(magenta))
	assert.Equal(t, 400, h.backend.Target().CountStencil(passes.DefaultExclusionBit))
}

func TestFrontMostMarking(t *testing.T) {
	h := newHarness(t, nil)
	// The near see-through quad covers the left of the far one, the wall
	// covers the right of the far one.
	h.quad("far", seeThroughLayer, 4, 4, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))
	h.quad("near", seeThroughLayer, 2, 2, math.NewVec3(-1, 0, -1), math.NewVec4(0, 1, 0, 1))
	h.quad("wall", metadata.DefaultLayer, 3, 6, math.NewVec3(1.5, 0, 0), math.NewVec4(1, 1, 1, 1))

	p := h.pass(config(t, h.xray()))
	require.NoError(t, h.sm.CustomPassSystem.Activate(p.Name()))
	h.frame()

	target := h.backend.Target()
	// Near footprint and the visible left part of far are marked.
	assert.NotZero(t, target.StencilAt(40, 50)&passes.DefaultExclusionBit)
	assert.NotZero(t, target.StencilAt(35, 35)&passes.DefaultExclusionBit)
	// Far behind the wall is not front-most.
	assert.Zero(t, target.StencilAt(60, 50))
	assert.Equal(t, 800, target.CountStencil(passes.DefaultExclusionBit))

	// Only far behind the wall shows through; far never shows through near.
	assert.Equal(t, 800, h.count(magenta))
	assert.Equal(t, magenta, target.ColourAt(60, 50))
	assert.Equal(t, color.RGBA{G: 0xFF, A: 0xFF}, target.ColourAt(40, 50))
}

func TestOcclusionOnlyCompositing(t *testing.T) {
	h := newHarness(t, nil)
	h.quad("character", seeThroughLayer, 2, 2, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))

	p := h.pass(config(t, h.xray()))
	require.NoError(t, h.sm.CustomPassSystem.Activate(p.Name()))
	h.frame()

	assert.Zero(t, h.count(magenta), "nothing in front, nothing to see through")
	assert.Equal(t, 400, h.count(blue))

	// A blocker over the left half.
	h.quad("wall", metadata.DefaultLayer, 1, 2, math.NewVec3(-0.5, 0, 0), math.NewVec4(1, 1, 1, 1))
	h.frame()

	assert.Equal(t, 200, h.count(magenta))
	assert.Equal(t, 200, h.count(blue))
}

func TestLifecycleIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	ms := h.sm.MaterialSystem
	baseline := ms.LiveCount()
	p := passes.NewSeeThroughPass("see-through", config(t, h.xray()), h.sm.ShaderSystem, ms)
	ctx := h.backend.Context()
	cmd := h.backend.NewCommandBuffer("setup")

	p.Cleanup()
	assert.Equal(t, passes.PassStateUninitialized, p.State())
	assert.Equal(t, baseline, ms.LiveCount())

	for cycle := 0; cycle < 2; cycle++ {
		require.NoError(t, p.Setup(ctx, cmd))
		stencil := p.StencilMaterial()
		require.NoError(t, p.Setup(ctx, cmd))
		assert.Same(t, stencil, p.StencilMaterial(), "setup twice keeps the material")
		assert.Equal(t, passes.PassStateReady, p.State())
		assert.Equal(t, baseline+1, ms.LiveCount())
		assert.True(t, stencil.IsFunctional())

		p.Cleanup()
		p.Cleanup()
		assert.Equal(t, passes.PassStateDisposed, p.State())
		assert.Nil(t, p.StencilMaterial())
		assert.Equal(t, baseline, ms.LiveCount())
	}

	assert.Equal(t, []metadata.ShaderTagID{"Forward", "ForwardOnly", "SRPDefaultUnlit", "FirstPass"}, p.ShaderTags())
}

func TestScopedPassReleasesMaterial(t *testing.T) {
	h := newHarness(t, nil)
	baseline := h.sm.MaterialSystem.LiveCount()
	p := h.pass(config(t, h.xray()))

	err := h.sm.CustomPassSystem.WithPass(p.Name(), func(pass systems.CustomPass) error {
		assert.Equal(t, baseline+1, h.sm.MaterialSystem.LiveCount())
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, baseline, h.sm.MaterialSystem.LiveCount())
	assert.Equal(t, passes.PassStateDisposed, p.State())
}

func TestMissingCompositingPassFailsLoudly(t *testing.T) {
	h := newHarness(t, nil)
	lit, err := h.sm.MaterialSystem.Create(metadata.MaterialConfig{Name: "plain", ShaderName: systems.BuiltinShaderLit, DiffuseColour: [4]float32{1, 0, 1, 1}})
	require.NoError(t, err)

	p := passes.NewSeeThroughPass("see-through", config(t, lit), h.sm.ShaderSystem, h.sm.MaterialSystem)
	err = p.Setup(h.backend.Context(), h.backend.NewCommandBuffer("setup"))
	assert.ErrorIs(t, err, core.ErrPassNotFound)

	cmd := software.NewCommandBuffer("frame")
	err = p.Execute(&renderer.CustomPassContext{
		RenderContext:  h.backend.Context(),
		Cmd:            cmd,
		CullingResults: &metadata.CullingResults{},
		Camera:         h.camera,
	})
	assert.ErrorIs(t, err, core.ErrPassNotFound)
	assert.Empty(t, cmd.Commands(), "no draw is recorded for the frame")
	p.Cleanup()
}

func TestFailingPassDoesNotStopTheFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.quad("wall", metadata.DefaultLayer, 6, 6, math.NewVec3(0, 0, 0), math.NewVec4(1, 1, 1, 1))
	lit, err := h.sm.MaterialSystem.Create(metadata.MaterialConfig{Name: "plain", ShaderName: systems.BuiltinShaderLit})
	require.NoError(t, err)

	p := h.pass(config(t, lit))
	assert.ErrorIs(t, h.sm.CustomPassSystem.Activate(p.Name()), core.ErrPassNotFound)

	stats := h.frame()
	require.Len(t, stats.PassErrors, 1)
	assert.ErrorIs(t, stats.PassErrors[0], core.ErrPassNotFound)
	assert.Len(t, stats.Draws, 1, "only the opaque draw")
	assert.Equal(t, 3600, h.count(white))
}

func TestMissingStencilShaderDegrades(t *testing.T) {
	h := newHarness(t, &systems.ShaderSystemConfig{MaxShaderCount: 8})
	require.NoError(t, h.sm.ShaderSystem.Register(&metadata.Shader{
		Name: "Test/Lit",
		Passes: []metadata.ShaderPass{{
			Name:      "Forward",
			LightMode: metadata.ShaderTagForward,
			State: metadata.RenderState{
				Depth:     metadata.DepthState{WriteEnabled: true, Compare: metadata.CompareFunctionLess},
				ColorMask: metadata.ColorWriteMaskAll,
			},
		}},
	}))
	require.NoError(t, h.sm.ShaderSystem.Register(&metadata.Shader{
		Name: "Test/XRay",
		Passes: []metadata.ShaderPass{{
			Name:      passes.CompositingPassName,
			LightMode: metadata.ShaderTagForwardOnly,
			State:     metadata.RenderState{ColorMask: metadata.ColorWriteMaskAll},
		}},
	}))
	xray, err := h.sm.MaterialSystem.Create(metadata.MaterialConfig{Name: "xray", ShaderName: "Test/XRay", DiffuseColour: [4]float32{1, 0, 1, 1}})
	require.NoError(t, err)

	h.quad("wall", metadata.DefaultLayer, 6, 6, math.NewVec3(0, 0, 0), math.NewVec4(1, 1, 1, 1))
	h.quad("character", seeThroughLayer, 2, 4, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))
	h.quad("prop", excludeLayer, 2, 2, math.NewVec3(1, 0, -1), math.NewVec4(0, 1, 0, 1))

	p := h.pass(config(t, xray))
	require.NoError(t, h.sm.CustomPassSystem.Activate(p.Name()))
	require.NotNil(t, p.StencilMaterial())
	assert.False(t, p.StencilMaterial().IsFunctional())

	stats := h.frame()
	assert.Empty(t, stats.PassErrors)
	require.Len(t, stats.Draws, 4)
	assert.Equal(t, 1, stats.Draws[1].Skipped)
	assert.Equal(t, 1, stats.Draws[2].Skipped)
	// Without marking nothing is excluded.
	assert.Zero(t, h.backend.Target().CountStencil(0xFF))
	assert.Equal(t, 800, h.count(magenta))
}

func TestMissingOverrideMaterialSkipsCompositing(t *testing.T) {
	h := newHarness(t, nil)
	p := passes.NewSeeThroughPass("see-through", config(t, nil), h.sm.ShaderSystem, h.sm.MaterialSystem)
	require.NoError(t, p.Setup(h.backend.Context(), h.backend.NewCommandBuffer("setup")))
	assert.Empty(t, p.Materials())

	h.quad("character", seeThroughLayer, 2, 2, math.NewVec3(0, 0, -2), math.NewVec4(0, 0, 1, 1))
	cmd := software.NewCommandBuffer("frame")
	require.NoError(t, p.Execute(&renderer.CustomPassContext{
		RenderContext:  h.backend.Context(),
		Cmd:            cmd,
		CullingResults: &metadata.CullingResults{VisibleRenderers: h.renderers},
		Camera:         h.camera,
	}))
	assert.Len(t, cmd.Commands(), 2, "marking only")
	p.Cleanup()
}

func TestExecuteRequiresSetup(t *testing.T) {
	h := newHarness(t, nil)
	p := passes.NewSeeThroughPass("see-through", config(t, h.xray()), h.sm.ShaderSystem, h.sm.MaterialSystem)
	err := p.Execute(&renderer.CustomPassContext{
		RenderContext: h.backend.Context(),
		Cmd:           software.NewCommandBuffer("frame"),
		Camera:        h.camera,
	})
	assert.ErrorIs(t, err, core.ErrPassNotReady)
}

func TestInvalidExclusionBit(t *testing.T) {
	h := newHarness(t, nil)
	c := config(t, h.xray())
	c.ExclusionBit = 0x81
	p := passes.NewSeeThroughPass("see-through", c, h.sm.ShaderSystem, h.sm.MaterialSystem)
	assert.ErrorIs(t, p.Setup(h.backend.Context(), h.backend.NewCommandBuffer("setup")), core.ErrInvalidExclusionBit)
	assert.Equal(t, passes.PassStateUninitialized, p.State())

	c.ExclusionBit = 0
	assert.ErrorIs(t, p.SetConfig(c), core.ErrInvalidExclusionBit)
	c.ExclusionBit = 0x40
	assert.NoError(t, p.SetConfig(c))
}

type recordedDraw struct {
	Layers    metadata.LayerMask
	Material  string
	PassIndex int
	Tags      []metadata.ShaderTagID
	Sorting   metadata.SortingCriteria
	Queues    metadata.RenderQueueRange
	Mask      metadata.RenderStateMask
	Depth     metadata.DepthState
	Stencil   metadata.StencilState
}

func TestRecordedDraws(t *testing.T) {
	h := newHarness(t, nil)
	xray := h.xray()
	c := config(t, xray)
	c.ExclusionBit = 0x40
	p := passes.NewSeeThroughPass("see-through", c, h.sm.ShaderSystem, h.sm.MaterialSystem)
	require.NoError(t, p.Setup(h.backend.Context(), h.backend.NewCommandBuffer("setup")))
	defer p.Cleanup()

	cmd := software.NewCommandBuffer("frame")
	require.NoError(t, p.Execute(&renderer.CustomPassContext{
		RenderContext:  h.backend.Context(),
		Cmd:            cmd,
		CullingResults: &metadata.CullingResults{},
		Camera:         h.camera,
	}))

	var got []recordedDraw
	for _, command := range cmd.Commands() {
		draw, ok := command.(software.DrawRendererListCommand)
		require.True(t, ok)
		d := draw.List.Desc
		got = append(got, recordedDraw{
			Layers:    d.LayerMask,
			Material:  d.OverrideMaterial.Name,
			PassIndex: d.OverrideMaterialPassIndex,
			Tags:      d.PassTags,
			Sorting:   d.SortingCriteria,
			Queues:    d.RenderQueueRange,
			Mask:      d.StateBlock.Mask,
			Depth:     d.StateBlock.DepthState,
			Stencil:   d.StateBlock.StencilState,
		})
	}

	tags := []metadata.ShaderTagID{"Forward", "ForwardOnly", "SRPDefaultUnlit", "FirstPass"}
	write := metadata.StencilState{
		Enabled:   true,
		WriteMask: 0x40,
		Reference: 0x40,
		Compare:   metadata.CompareFunctionAlways,
		PassOp:    metadata.StencilOpReplace,
	}
	stencilName := p.StencilMaterial().Name
	want := []recordedDraw{
		{
			Layers: c.ExcludeLayer, Material: stencilName, PassIndex: 0, Tags: tags,
			Sorting: metadata.SortingCriteriaBackToFront, Queues: metadata.RenderQueueRangeAll,
			Mask:    metadata.RenderStateMaskDepth | metadata.RenderStateMaskStencil,
			Depth:   metadata.DepthState{Compare: metadata.CompareFunctionAlways},
			Stencil: write,
		},
		{
			Layers: c.SeeThroughLayer, Material: stencilName, PassIndex: 0, Tags: tags,
			Sorting: metadata.SortingCriteriaBackToFront, Queues: metadata.RenderQueueRangeAll,
			Mask:    metadata.RenderStateMaskDepth | metadata.RenderStateMaskStencil,
			Depth:   metadata.DepthState{Compare: metadata.CompareFunctionLessEqual},
			Stencil: write,
		},
		{
			Layers: c.SeeThroughLayer, Material: "xray", PassIndex: 1, Tags: tags,
			Sorting: metadata.SortingCriteriaBackToFront, Queues: metadata.RenderQueueRangeAll,
			Mask:  metadata.RenderStateMaskDepth | metadata.RenderStateMaskStencil,
			Depth: metadata.DepthState{Compare: metadata.CompareFunctionGreater},
			Stencil: metadata.StencilState{
				Enabled:  true,
				ReadMask: 0x40,
				Compare:  metadata.CompareFunctionEqual,
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("recorded draws mismatch (-want +got):\n%s", diff)
	}

	v, ok := p.StencilMaterial().GetInt(passes.StencilWriteMaskProperty)
	require.True(t, ok)
	assert.Equal(t, int32(0x40), v)
}
