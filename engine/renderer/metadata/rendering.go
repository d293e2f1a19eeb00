package metadata

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
	/** @brief Both front and back faces are culled. */
	FaceCullModeFrontAndBack FaceCullMode = 0x3
)

/** @brief Well known render queue values. Lower queues draw first. */
const (
	RenderQueueBackground  = 1000
	RenderQueueGeometry    = 2000
	RenderQueueAlphaTest   = 2450
	RenderQueueTransparent = 3000
	RenderQueueOverlay     = 4000
	RenderQueueMax         = 5000
)

/** @brief An inclusive range of render queues. */
type RenderQueueRange struct {
	Lower int
	Upper int
}

var (
	RenderQueueRangeAll         = RenderQueueRange{Lower: 0, Upper: RenderQueueMax}
	RenderQueueRangeOpaque      = RenderQueueRange{Lower: 0, Upper: RenderQueueAlphaTest + 50}
	RenderQueueRangeTransparent = RenderQueueRange{Lower: RenderQueueAlphaTest + 51, Upper: RenderQueueMax}
)

func (r RenderQueueRange) Contains(queue int) bool {
	return queue >= r.Lower && queue <= r.Upper
}

/** @brief How the objects of a renderer list are ordered before drawing. */
type SortingCriteria uint8

const (
	SortingCriteriaNone SortingCriteria = iota
	/** @brief Farthest from the camera first. */
	SortingCriteriaBackToFront
	/** @brief Nearest to the camera first, the usual order for opaque geometry. */
	SortingCriteriaCommonOpaque
)

func (s SortingCriteria) String() string {
	switch s {
	case SortingCriteriaBackToFront:
		return "BackToFront"
	case SortingCriteriaCommonOpaque:
		return "CommonOpaque"
	}
	return "None"
}

/** @brief Extra per-object data requested from the host. Only None is produced. */
type PerObjectData uint32

const PerObjectDataNone PerObjectData = 0
