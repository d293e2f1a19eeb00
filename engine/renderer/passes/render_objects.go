package passes

import (
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

// renderObjects records one draw of the renderers in layerMask with
// material. Depth is compared but never written. The stencil state is only
// overridden when stencil is not nil.
func (p *SeeThroughPass) renderObjects(ctx *renderer.CustomPassContext, material *metadata.Material, passIndex int, depthCompare metadata.CompareFunction, layerMask metadata.LayerMask, stencil *metadata.StencilState) {
	if layerMask == metadata.LayerMaskNothing {
		return
	}
	block := &metadata.RenderStateBlock{
		Mask:       metadata.RenderStateMaskDepth,
		DepthState: metadata.DepthState{WriteEnabled: false, Compare: depthCompare},
	}
	if stencil != nil {
		block.Mask |= metadata.RenderStateMaskStencil
		block.StencilState = *stencil
	}
	desc := &metadata.RendererListDesc{
		PassTags:                   p.shaderTags,
		CullingResults:             ctx.CullingResults,
		Camera:                     ctx.Camera,
		RendererConfiguration:      metadata.PerObjectDataNone,
		RenderQueueRange:           metadata.RenderQueueRangeAll,
		SortingCriteria:            metadata.SortingCriteriaBackToFront,
		ExcludeObjectMotionVectors: false,
		OverrideMaterial:           material,
		OverrideMaterialPassIndex:  passIndex,
		LayerMask:                  layerMask,
		StateBlock:                 block,
	}

	list, err := ctx.RenderContext.CreateRendererList(desc)
	if err != nil {
		core.LogError("%s: failed to create renderer list for %s: %s", p.name, layerMask, err.Error())
		return
	}
	ctx.Cmd.DrawRendererList(list)
}

func (p *SeeThroughPass) renderObjectsWithStencil(ctx *renderer.CustomPassContext, material *metadata.Material, passIndex int, depthCompare metadata.CompareFunction, layerMask metadata.LayerMask, stencil metadata.StencilState) {
	p.renderObjects(ctx, material, passIndex, depthCompare, layerMask, &stencil)
}
