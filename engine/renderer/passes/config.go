package passes

import (
	"fmt"
	"math/bits"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/** @brief The second user stencil bit, reserved for exclusion marking. */
const DefaultExclusionBit uint8 = 0x80

/**
 * @brief The configuration surface of the see-through pass. Materials and
 * shaders are resolved handles, owned outside the pass.
 */
type Config struct {
	/** @brief Objects eligible to be drawn with SeeThroughMaterial when occluded. */
	SeeThroughLayer metadata.LayerMask
	/** @brief Objects that suppress the effect on every pixel they cover. */
	ExcludeLayer metadata.LayerMask
	/** @brief The override material. May be nil, compositing is then skipped. */
	SeeThroughMaterial *metadata.Material
	/** @brief Optional explicit stencil shader. Resolved by name when nil. */
	StencilShader *metadata.Shader
	/** @brief The single stencil bit used for exclusion marking. */
	ExclusionBit uint8
}

// DefaultConfig puts layer 0 in the see-through set and nothing in the
// exclusion set.
func DefaultConfig() Config {
	return Config{
		SeeThroughLayer: metadata.LayerMask(1),
		ExcludeLayer:    metadata.LayerMaskNothing,
		ExclusionBit:    DefaultExclusionBit,
	}
}

func (c Config) Validate() error {
	if bits.OnesCount8(c.ExclusionBit) != 1 {
		return fmt.Errorf("%w: got 0x%02X", core.ErrInvalidExclusionBit, c.ExclusionBit)
	}
	return nil
}
