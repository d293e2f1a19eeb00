package software

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/**
 * @brief The software renderer backend. Owns one render target and the
 * context that draws into it.
 */
type Backend struct {
	target  *RenderTarget
	context *Context
	frame   uint64
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Initialize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	b.target = NewRenderTarget(int(width), int(height))
	b.context = NewContext(b.target)
	core.LogInfo("software renderer initialized (%dx%d)", width, height)
	return nil
}

func (b *Backend) Shutdown() error {
	b.context = nil
	b.target = nil
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	if b.target == nil {
		return fmt.Errorf("software renderer is not initialized")
	}
	b.target.Resize(int(width), int(height))
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	if b.target == nil {
		return fmt.Errorf("software renderer is not initialized")
	}
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	b.frame++
	return nil
}

func (b *Backend) Context() renderer.RenderContext {
	return b.context
}

func (b *Backend) NewCommandBuffer(name string) renderer.CommandBuffer {
	return NewCommandBuffer(name)
}

func (b *Backend) Submit(cmd renderer.CommandBuffer) ([]renderer.DrawStats, error) {
	buffer, ok := cmd.(*CommandBuffer)
	if !ok {
		return nil, fmt.Errorf("command buffer '%s' was not created by the software renderer", cmd.Name())
	}
	if b.context == nil {
		return nil, fmt.Errorf("software renderer is not initialized")
	}
	return b.context.Submit(buffer), nil
}

func (b *Backend) Cull(camera *components.Camera, renderers []*metadata.Renderer) *metadata.CullingResults {
	return Cull(camera, renderers)
}

// Target returns the render target, nil before Initialize.
func (b *Backend) Target() *RenderTarget {
	return b.target
}

// Frame returns how many frames have ended.
func (b *Backend) Frame() uint64 {
	return b.frame
}

var _ renderer.RendererBackend = (*Backend)(nil)
