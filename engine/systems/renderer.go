package systems

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/** @brief Everything needed to draw one frame. */
type RenderPacket struct {
	DeltaTime float64
	Camera    *components.Camera
	Renderers []*metadata.Renderer
}

/** @brief What happened while drawing one frame. */
type FrameStats struct {
	Frame uint64
	/** @brief True when the frame was skipped while a resize settles. */
	Skipped bool
	/** @brief Renderers that survived culling. */
	Visible int
	/** @brief One entry per renderer list drawn, in submission order. */
	Draws []renderer.DrawStats
	/** @brief Errors reported by custom passes. The frame still rendered. */
	PassErrors []error
	Duration   time.Duration
}

type RendererSystemConfig struct {
	ClearColour math.Vec4
	/** @brief Frames to wait after a resize before the target is rebuilt. */
	ResizeSettleFrames uint8
}

/**
 * @brief Drives one frame: clear, opaque geometry with its own materials,
 * custom passes, submit.
 */
type RendererSystem struct {
	Config       *RendererSystemConfig
	backend      renderer.RendererBackend
	customPasses *CustomPassSystem

	FrameNumber uint64
	// The current framebuffer width.
	FramebufferWidth uint32
	// The current framebuffer height.
	FramebufferHeight uint32
	// Indicates if the target is currently being resized.
	Resizing bool
	// The number of frames since the last resize operation.
	// Only set if resizing = true. Otherwise 0.
	FramesSinceResize uint8
}

func NewRendererSystem(config *RendererSystemConfig, backend renderer.RendererBackend, cps *CustomPassSystem) (*RendererSystem, error) {
	if backend == nil || cps == nil {
		err := fmt.Errorf("NewRendererSystem - a backend and a custom pass system are required")
		core.LogError(err.Error())
		return nil, err
	}
	return &RendererSystem{
		Config:       config,
		backend:      backend,
		customPasses: cps,
	}, nil
}

func (r *RendererSystem) Initialize(width, height uint32) error {
	r.FramebufferWidth = width
	r.FramebufferHeight = height
	r.Resizing = false
	r.FramesSinceResize = 0
	r.FrameNumber = 0
	return r.backend.Initialize(width, height)
}

func (r *RendererSystem) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *RendererSystem) OnResize(width, height uint32) {
	// Flag as resizing and store the change, but wait to regenerate.
	r.Resizing = true
	r.FramebufferWidth = width
	r.FramebufferHeight = height
	r.FramesSinceResize = 0
}

func (r *RendererSystem) DrawFrame(packet *RenderPacket) (*FrameStats, error) {
	start := time.Now()
	r.FrameNumber++
	stats := &FrameStats{Frame: r.FrameNumber}

	if r.Resizing {
		r.FramesSinceResize++
		if r.FramesSinceResize < r.Config.ResizeSettleFrames {
			stats.Skipped = true
			return stats, nil
		}
		if err := r.backend.Resized(r.FramebufferWidth, r.FramebufferHeight); err != nil {
			return nil, err
		}
		packet.Camera.SetViewport(r.FramebufferWidth, r.FramebufferHeight)
		r.FramesSinceResize = 0
		r.Resizing = false
	}

	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	culling := r.backend.Cull(packet.Camera, packet.Renderers)
	stats.Visible = len(culling.VisibleRenderers)

	cmd := r.backend.NewCommandBuffer(fmt.Sprintf("frame-%d", r.FrameNumber))
	cmd.Clear(renderer.ClearAll, r.Config.ClearColour)

	opaque, err := r.backend.Context().CreateRendererList(&metadata.RendererListDesc{
		PassTags:         []metadata.ShaderTagID{metadata.ShaderTagForward, metadata.ShaderTagSRPDefaultUnlit},
		CullingResults:   culling,
		Camera:           packet.Camera,
		RenderQueueRange: metadata.RenderQueueRangeOpaque,
		SortingCriteria:  metadata.SortingCriteriaCommonOpaque,
		LayerMask:        metadata.LayerMaskEverything,
	})
	if err != nil {
		core.LogError("opaque renderer list: %s", err.Error())
		return nil, err
	}
	cmd.DrawRendererList(opaque)

	stats.PassErrors = r.customPasses.Execute(&renderer.CustomPassContext{
		RenderContext:  r.backend.Context(),
		Cmd:            cmd,
		CullingResults: culling,
		Camera:         packet.Camera,
	})

	draws, err := r.backend.Submit(cmd)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	stats.Draws = draws

	// End the frame. If this fails, it is likely unrecoverable.
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		err := fmt.Errorf("backend func EndFrame failed: %w", err)
		core.LogError(err.Error())
		return nil, err
	}
	stats.Duration = time.Since(start)
	return stats, nil
}
