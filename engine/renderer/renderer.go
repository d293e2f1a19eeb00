package renderer

import (
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/**
 * @brief Counters produced by the execution of one renderer list.
 */
type DrawStats struct {
	/** @brief The command buffer the draw was recorded into. */
	Buffer string
	/** @brief The material the renderers were drawn with. */
	Material string
	/** @brief Renderers in the list. */
	Renderers int
	/** @brief Renderers that could not be drawn (non-functional material, missing pass). */
	Skipped int
	/** @brief Fragments that reached the stencil test. */
	FragmentsTested int
	/** @brief Fragments that passed both the stencil and the depth test. */
	FragmentsPassed int
}

/**
 * @brief The host side of rendering: owns the render target and executes
 * command buffers against it.
 */
type RendererBackend interface {
	Initialize(width, height uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	Context() RenderContext
	NewCommandBuffer(name string) CommandBuffer
	Submit(cmd CommandBuffer) ([]DrawStats, error)
	// Cull keeps the renderers visible from camera.
	Cull(camera *components.Camera, renderers []*metadata.Renderer) *metadata.CullingResults
}
