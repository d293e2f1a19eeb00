package metadata

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/renderer/components"
)

/**
 * @brief Describes which renderers a draw call covers and how they are drawn.
 */
type RendererListDesc struct {
	/** @brief Only renderers whose material has a pass tagged with one of these are drawn. */
	PassTags []ShaderTagID
	/** @brief The visible renderers to pick from. */
	CullingResults *CullingResults
	/** @brief The camera used for sorting and projection. */
	Camera *components.Camera

	RendererConfiguration      PerObjectData
	RenderQueueRange           RenderQueueRange
	SortingCriteria            SortingCriteria
	ExcludeObjectMotionVectors bool

	/** @brief When set, replaces every renderer's own material. */
	OverrideMaterial *Material
	/** @brief The pass of OverrideMaterial to draw with. */
	OverrideMaterialPassIndex int

	LayerMask LayerMask
	/** @brief Optional per-draw override of the pass state. */
	StateBlock *RenderStateBlock
}

// Validate checks the descriptor is complete enough to build a list from.
func (d *RendererListDesc) Validate() error {
	if d == nil {
		return fmt.Errorf("renderer list descriptor is nil")
	}
	if d.CullingResults == nil {
		return fmt.Errorf("renderer list descriptor requires culling results")
	}
	if d.Camera == nil {
		return fmt.Errorf("renderer list descriptor requires a camera")
	}
	if len(d.PassTags) == 0 {
		return fmt.Errorf("renderer list descriptor requires at least one pass tag")
	}
	if d.OverrideMaterial != nil {
		if d.OverrideMaterialPassIndex < 0 || d.OverrideMaterialPassIndex >= d.OverrideMaterial.PassCount() {
			if d.OverrideMaterial.IsFunctional() {
				return fmt.Errorf("override material '%s' has no pass %d", d.OverrideMaterial.Name, d.OverrideMaterialPassIndex)
			}
		}
	}
	return nil
}

/**
 * @brief The result of filtering and sorting culling results with a
 * RendererListDesc. Ready to be drawn by a command buffer.
 */
type RendererList struct {
	Desc      *RendererListDesc
	Renderers []*Renderer
}

func (l *RendererList) IsEmpty() bool {
	return l == nil || len(l.Renderers) == 0
}
