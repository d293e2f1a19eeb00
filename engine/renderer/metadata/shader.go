package metadata

/**
 * @brief Identifies the shading variant ("LightMode") a shader pass
 * implements. Renderer lists select objects whose material has a pass
 * tagged with one of the requested ids.
 */
type ShaderTagID string

const (
	ShaderTagForward         ShaderTagID = "Forward"
	ShaderTagForwardOnly     ShaderTagID = "ForwardOnly"
	ShaderTagSRPDefaultUnlit ShaderTagID = "SRPDefaultUnlit"
	ShaderTagFirstPass       ShaderTagID = "FirstPass"
)

/** @brief Which colour channels a pass writes. */
type ColorWriteMask uint8

const (
	ColorWriteMaskNone  ColorWriteMask = 0
	ColorWriteMaskAlpha ColorWriteMask = 1 << 0
	ColorWriteMaskBlue  ColorWriteMask = 1 << 1
	ColorWriteMaskGreen ColorWriteMask = 1 << 2
	ColorWriteMaskRed   ColorWriteMask = 1 << 3
	ColorWriteMaskAll   ColorWriteMask = ColorWriteMaskRed | ColorWriteMaskGreen | ColorWriteMaskBlue | ColorWriteMaskAlpha
)

/**
 * @brief A single pass of a shader: its tag and the fixed function
 * state it declares.
 */
type ShaderPass struct {
	/** @brief The pass name, used by Material.FindPass. */
	Name string
	/** @brief The tag used to select this pass from a renderer list. */
	LightMode ShaderTagID
	/** @brief The state declared by the pass. */
	State RenderState
	/**
	 * @brief When set, the stencil write mask is read from this integer
	 * material property at draw time instead of State.Stencil.WriteMask.
	 */
	StencilWriteMaskProperty string
}

/**
 * @brief Represents a shader on the frontend.
 */
type Shader struct {
	/** @brief The shader identifier */
	ID uint32
	/** @brief The shader name, used for lookups. */
	Name string
	/** @brief Hidden shaders are engine internal and never assigned by content. */
	Hidden bool
	/** @brief The passes, in declaration order. */
	Passes []ShaderPass
}

// FindPass returns the index of the pass called name, or -1.
func (s *Shader) FindPass(name string) int {
	if s == nil {
		return -1
	}
	for i := range s.Passes {
		if s.Passes[i].Name == name {
			return i
		}
	}
	return -1
}

// FindPassByTag returns the index of the first pass whose LightMode is one
// of tags, or -1.
func (s *Shader) FindPassByTag(tags []ShaderTagID) int {
	if s == nil {
		return -1
	}
	for i := range s.Passes {
		for _, t := range tags {
			if s.Passes[i].LightMode == t {
				return i
			}
		}
	}
	return -1
}
