package renderer

import (
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/** @brief Selects which attachments a clear touches. */
type ClearFlags uint8

const (
	ClearNone    ClearFlags = 0
	ClearColour  ClearFlags = 1 << 0
	ClearDepth   ClearFlags = 1 << 1
	ClearStencil ClearFlags = 1 << 2
	ClearAll     ClearFlags = ClearColour | ClearDepth | ClearStencil
)

/**
 * @brief Builds renderer lists out of the frame's culling results.
 */
type RenderContext interface {
	CreateRendererList(desc *metadata.RendererListDesc) (*metadata.RendererList, error)
}

/**
 * @brief Records commands that are executed, in recording order, when the
 * host submits the buffer.
 */
type CommandBuffer interface {
	Name() string
	Clear(flags ClearFlags, colour math.Vec4)
	DrawRendererList(list *metadata.RendererList)
}

/** @brief Resolves shaders by name. Returns nil when the shader is unknown. */
type ShaderLibrary interface {
	FindShader(name string) *metadata.Shader
}

/**
 * @brief Creates and destroys engine owned materials. A nil shader yields
 * a material that is not functional.
 */
type MaterialFactory interface {
	CreateEngineMaterial(shader *metadata.Shader) *metadata.Material
	DestroyMaterial(material *metadata.Material)
}

/**
 * @brief Everything a custom pass needs to record its draws for one frame.
 */
type CustomPassContext struct {
	RenderContext  RenderContext
	Cmd            CommandBuffer
	CullingResults *metadata.CullingResults
	Camera         *components.Camera
}
