package metadata

import "fmt"

/**
 * @brief Comparison used by depth and stencil tests. The incoming value
 * (fragment depth, or stencil reference) is on the left-hand side.
 */
type CompareFunction uint8

const (
	/** @brief Test disabled. Behaves as Always. */
	CompareFunctionDisabled CompareFunction = iota
	CompareFunctionNever
	CompareFunctionLess
	CompareFunctionEqual
	CompareFunctionLessEqual
	CompareFunctionGreater
	CompareFunctionNotEqual
	CompareFunctionGreaterEqual
	CompareFunctionAlways
)

var compareFunctionNames = [...]string{
	CompareFunctionDisabled:     "Disabled",
	CompareFunctionNever:        "Never",
	CompareFunctionLess:         "Less",
	CompareFunctionEqual:        "Equal",
	CompareFunctionLessEqual:    "LessEqual",
	CompareFunctionGreater:      "Greater",
	CompareFunctionNotEqual:     "NotEqual",
	CompareFunctionGreaterEqual: "GreaterEqual",
	CompareFunctionAlways:       "Always",
}

func (c CompareFunction) String() string {
	if int(c) < len(compareFunctionNames) {
		return compareFunctionNames[c]
	}
	return fmt.Sprintf("CompareFunction(%d)", uint8(c))
}

// CompareFloat reports whether incoming passes against stored.
func (c CompareFunction) CompareFloat(incoming, stored float32) bool {
	switch c {
	case CompareFunctionNever:
		return false
	case CompareFunctionLess:
		return incoming < stored
	case CompareFunctionEqual:
		return incoming == stored
	case CompareFunctionLessEqual:
		return incoming <= stored
	case CompareFunctionGreater:
		return incoming > stored
	case CompareFunctionNotEqual:
		return incoming != stored
	case CompareFunctionGreaterEqual:
		return incoming >= stored
	default:
		return true
	}
}

// CompareByte is CompareFloat for stencil values.
func (c CompareFunction) CompareByte(incoming, stored uint8) bool {
	return c.CompareFloat(float32(incoming), float32(stored))
}

/** @brief What happens to the stored stencil value after a test. */
type StencilOp uint8

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrementSaturate
	StencilOpDecrementSaturate
	StencilOpInvert
	StencilOpIncrementWrap
	StencilOpDecrementWrap
)

var stencilOpNames = [...]string{
	StencilOpKeep:              "Keep",
	StencilOpZero:              "Zero",
	StencilOpReplace:           "Replace",
	StencilOpIncrementSaturate: "IncrementSaturate",
	StencilOpDecrementSaturate: "DecrementSaturate",
	StencilOpInvert:            "Invert",
	StencilOpIncrementWrap:     "IncrementWrap",
	StencilOpDecrementWrap:     "DecrementWrap",
}

func (op StencilOp) String() string {
	if int(op) < len(stencilOpNames) {
		return stencilOpNames[op]
	}
	return fmt.Sprintf("StencilOp(%d)", uint8(op))
}

// Apply computes the new stencil value, before the write mask is applied.
func (op StencilOp) Apply(stored, reference uint8) uint8 {
	switch op {
	case StencilOpZero:
		return 0
	case StencilOpReplace:
		return reference
	case StencilOpIncrementSaturate:
		if stored == 0xFF {
			return stored
		}
		return stored + 1
	case StencilOpDecrementSaturate:
		if stored == 0 {
			return stored
		}
		return stored - 1
	case StencilOpInvert:
		return ^stored
	case StencilOpIncrementWrap:
		return stored + 1
	case StencilOpDecrementWrap:
		return stored - 1
	default:
		return stored
	}
}

/**
 * @brief Stencil test and update configuration. Only the bits in WriteMask
 * are ever modified; bits outside ReadMask never influence the test.
 */
type StencilState struct {
	Enabled   bool
	ReadMask  uint8
	WriteMask uint8
	/** @brief Reference value, used by the comparison and by StencilOpReplace. */
	Reference uint8
	Compare   CompareFunction
	/** @brief Applied when both the stencil and the depth test pass. */
	PassOp StencilOp
	/** @brief Applied when the stencil test fails. */
	FailOp StencilOp
	/** @brief Applied when the stencil test passes but the depth test fails. */
	ZFailOp StencilOp
}

// Test runs the stencil comparison against the stored value.
func (s StencilState) Test(stored uint8) bool {
	if !s.Enabled {
		return true
	}
	return s.Compare.CompareByte(s.Reference&s.ReadMask, stored&s.ReadMask)
}

// Update returns the stored value after the op selected by the test
// outcomes, honouring the write mask.
func (s StencilState) Update(stored uint8, stencilPassed, depthPassed bool) uint8 {
	if !s.Enabled || s.WriteMask == 0 {
		return stored
	}
	op := s.PassOp
	switch {
	case !stencilPassed:
		op = s.FailOp
	case !depthPassed:
		op = s.ZFailOp
	}
	updated := op.Apply(stored, s.Reference)
	return (stored &^ s.WriteMask) | (updated & s.WriteMask)
}

func (s StencilState) String() string {
	if !s.Enabled {
		return "stencil(off)"
	}
	return fmt.Sprintf("stencil(ref=0x%02X read=0x%02X write=0x%02X comp=%s pass=%s fail=%s zfail=%s)",
		s.Reference, s.ReadMask, s.WriteMask, s.Compare, s.PassOp, s.FailOp, s.ZFailOp)
}

/** @brief Depth test and write configuration. */
type DepthState struct {
	WriteEnabled bool
	Compare      CompareFunction
}

func (d DepthState) String() string {
	return fmt.Sprintf("depth(write=%t comp=%s)", d.WriteEnabled, d.Compare)
}

/** @brief Selects which parts of a RenderStateBlock override the shader pass state. */
type RenderStateMask uint32

const (
	RenderStateMaskNothing RenderStateMask = 0
	RenderStateMaskBlend   RenderStateMask = 1 << 0
	RenderStateMaskRaster  RenderStateMask = 1 << 1
	RenderStateMaskDepth   RenderStateMask = 1 << 2
	RenderStateMaskStencil RenderStateMask = 1 << 3
)

/**
 * @brief Fixed function state of a draw, as declared by a shader pass and
 * possibly overridden by a RenderStateBlock.
 */
type RenderState struct {
	Depth     DepthState
	Stencil   StencilState
	ColorMask ColorWriteMask
	CullMode  FaceCullMode
}

/** @brief Per draw-call override of the shader pass state. */
type RenderStateBlock struct {
	Mask         RenderStateMask
	DepthState   DepthState
	StencilState StencilState
}

// Apply returns base with the masked parts replaced by the block's values.
func (b *RenderStateBlock) Apply(base RenderState) RenderState {
	if b == nil {
		return base
	}
	if b.Mask&RenderStateMaskDepth != 0 {
		base.Depth = b.DepthState
	}
	if b.Mask&RenderStateMaskStencil != 0 {
		base.Stencil = b.StencilState
	}
	return base
}
