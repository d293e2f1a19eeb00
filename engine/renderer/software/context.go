package software

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/**
 * @brief The software render context. Builds renderer lists from culling
 * results and executes command buffers against a RenderTarget.
 */
type Context struct {
	target *RenderTarget
	// Materials already reported as not functional.
	warned map[*metadata.Material]struct{}
}

func NewContext(target *RenderTarget) *Context {
	return &Context{
		target: target,
		warned: make(map[*metadata.Material]struct{}),
	}
}

func (c *Context) Target() *RenderTarget {
	return c.target
}

// CreateRendererList keeps the visible renderers that match the layer mask,
// the render queue range and at least one pass tag, then sorts them.
func (c *Context) CreateRendererList(desc *metadata.RendererListDesc) (*metadata.RendererList, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	list := &metadata.RendererList{Desc: desc}
	for _, r := range desc.CullingResults.VisibleRenderers {
		if r == nil || !desc.LayerMask.Contains(r.Layer) {
			continue
		}
		if !desc.RenderQueueRange.Contains(r.RenderQueue()) {
			continue
		}
		if r.Material == nil || r.Material.Shader.FindPassByTag(desc.PassTags) < 0 {
			continue
		}
		list.Renderers = append(list.Renderers, r)
	}

	eye := desc.Camera.Position
	switch desc.SortingCriteria {
	case metadata.SortingCriteriaBackToFront:
		slices.SortStableFunc(list.Renderers, func(a, b *metadata.Renderer) int {
			return compareDistance(b.Center().Distance(eye), a.Center().Distance(eye))
		})
	case metadata.SortingCriteriaCommonOpaque:
		slices.SortStableFunc(list.Renderers, func(a, b *metadata.Renderer) int {
			if a.RenderQueue() != b.RenderQueue() {
				return a.RenderQueue() - b.RenderQueue()
			}
			return compareDistance(a.Center().Distance(eye), b.Center().Distance(eye))
		})
	}
	return list, nil
}

func compareDistance(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Submit executes the recorded commands in order and returns one DrawStats
// per renderer list drawn.
func (c *Context) Submit(cmd *CommandBuffer) []renderer.DrawStats {
	var stats []renderer.DrawStats
	for _, command := range cmd.Commands() {
		switch command := command.(type) {
		case ClearCommand:
			c.target.Clear(command.Flags, command.Colour)
		case DrawRendererListCommand:
			stats = append(stats, c.drawRendererList(cmd.Name(), command.List))
		}
	}
	cmd.State = COMMAND_BUFFER_STATE_SUBMITTED
	return stats
}

func (c *Context) drawRendererList(buffer string, list *metadata.RendererList) renderer.DrawStats {
	desc := list.Desc
	stats := renderer.DrawStats{
		Buffer:    buffer,
		Material:  "<own>",
		Renderers: len(list.Renderers),
	}
	if desc.OverrideMaterial != nil {
		stats.Material = desc.OverrideMaterial.Name
	}
	viewProj := desc.Camera.GetViewProjection()

	for _, r := range list.Renderers {
		material := r.Material
		passIndex := material.Shader.FindPassByTag(desc.PassTags)
		if desc.OverrideMaterial != nil {
			material = desc.OverrideMaterial
			passIndex = desc.OverrideMaterialPassIndex
		}
		if !material.IsFunctional() {
			c.warnNotFunctional(material)
			stats.Skipped++
			continue
		}
		if passIndex < 0 || passIndex >= material.PassCount() {
			core.LogError("material '%s' has no pass %d, skipping renderer '%s'", material.Name, passIndex, r.Name)
			stats.Skipped++
			continue
		}
		state := resolveState(material, passIndex, desc.StateBlock)
		tested, passed := c.target.drawRenderer(r, viewProj, state, material.DiffuseColour)
		stats.FragmentsTested += tested
		stats.FragmentsPassed += passed
	}
	return stats
}

func (c *Context) warnNotFunctional(material *metadata.Material) {
	if _, ok := c.warned[material]; ok {
		return
	}
	c.warned[material] = struct{}{}
	core.LogWarn("material '%s' has no shader, its draws are skipped", material.Name)
}

// resolveState returns the state of the pass, with the stencil write mask
// taken from the material when the pass binds it to a property, and the
// state block applied on top.
func resolveState(material *metadata.Material, passIndex int, block *metadata.RenderStateBlock) metadata.RenderState {
	pass := material.Shader.Passes[passIndex]
	state := pass.State
	if pass.StencilWriteMaskProperty != "" {
		if v, ok := material.GetInt(pass.StencilWriteMaskProperty); ok {
			state.Stencil.WriteMask = uint8(v)
			state.Stencil.Reference = uint8(v)
		}
	}
	return block.Apply(state)
}

// DescribeState returns the resolved state a renderer list would be drawn
// with, for diagnostics. Lists drawn with their own materials have none.
func DescribeState(desc *metadata.RendererListDesc) (metadata.RenderState, error) {
	m := desc.OverrideMaterial
	if m == nil {
		return metadata.RenderState{}, fmt.Errorf("renderer list has no override material")
	}
	if !m.IsFunctional() || desc.OverrideMaterialPassIndex < 0 || desc.OverrideMaterialPassIndex >= m.PassCount() {
		return desc.StateBlock.Apply(metadata.RenderState{}), nil
	}
	return resolveState(m, desc.OverrideMaterialPassIndex, desc.StateBlock), nil
}

var _ renderer.RenderContext = (*Context)(nil)
var _ renderer.CommandBuffer = (*CommandBuffer)(nil)
