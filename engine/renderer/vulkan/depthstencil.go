package vulkan

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

// CompareOp translates a compare function. Disabled maps to Always.
func CompareOp(c metadata.CompareFunction) vk.CompareOp {
	switch c {
	case metadata.CompareFunctionNever:
		return vk.CompareOpNever
	case metadata.CompareFunctionLess:
		return vk.CompareOpLess
	case metadata.CompareFunctionEqual:
		return vk.CompareOpEqual
	case metadata.CompareFunctionLessEqual:
		return vk.CompareOpLessOrEqual
	case metadata.CompareFunctionGreater:
		return vk.CompareOpGreater
	case metadata.CompareFunctionNotEqual:
		return vk.CompareOpNotEqual
	case metadata.CompareFunctionGreaterEqual:
		return vk.CompareOpGreaterOrEqual
	default:
		return vk.CompareOpAlways
	}
}

func StencilOp(op metadata.StencilOp) vk.StencilOp {
	switch op {
	case metadata.StencilOpZero:
		return vk.StencilOpZero
	case metadata.StencilOpReplace:
		return vk.StencilOpReplace
	case metadata.StencilOpIncrementSaturate:
		return vk.StencilOpIncrementAndClamp
	case metadata.StencilOpDecrementSaturate:
		return vk.StencilOpDecrementAndClamp
	case metadata.StencilOpInvert:
		return vk.StencilOpInvert
	case metadata.StencilOpIncrementWrap:
		return vk.StencilOpIncrementAndWrap
	case metadata.StencilOpDecrementWrap:
		return vk.StencilOpDecrementAndWrap
	default:
		return vk.StencilOpKeep
	}
}

// StencilOpState builds the per-face stencil state. The same state is used
// for front and back faces.
func StencilOpState(s metadata.StencilState) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      StencilOp(s.FailOp),
		PassOp:      StencilOp(s.PassOp),
		DepthFailOp: StencilOp(s.ZFailOp),
		CompareOp:   CompareOp(s.Compare),
		CompareMask: uint32(s.ReadMask),
		WriteMask:   uint32(s.WriteMask),
		Reference:   uint32(s.Reference),
	}
}

// DepthStencilCreateInfo builds the pipeline depth/stencil state a GPU
// backend needs to reproduce state.
func DepthStencilCreateInfo(state metadata.RenderState) vk.PipelineDepthStencilStateCreateInfo {
	info := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       vk.False,
		DepthWriteEnable:      vk.False,
		DepthCompareOp:        vk.CompareOpAlways,
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
		MinDepthBounds:        0.0,
		MaxDepthBounds:        1.0,
	}
	if state.Depth.Compare != metadata.CompareFunctionDisabled {
		info.DepthTestEnable = vk.True
		info.DepthCompareOp = CompareOp(state.Depth.Compare)
	}
	if state.Depth.WriteEnabled {
		info.DepthWriteEnable = vk.True
	}
	if state.Stencil.Enabled {
		info.StencilTestEnable = vk.True
		info.Front = StencilOpState(state.Stencil)
		info.Back = info.Front
	}
	return info
}

// ColorWriteMask translates the colour channel mask.
func ColorWriteMask(mask metadata.ColorWriteMask) vk.ColorComponentFlags {
	var flags vk.ColorComponentFlags
	if mask&metadata.ColorWriteMaskRed != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentRBit)
	}
	if mask&metadata.ColorWriteMaskGreen != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentGBit)
	}
	if mask&metadata.ColorWriteMaskBlue != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentBBit)
	}
	if mask&metadata.ColorWriteMaskAlpha != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentABit)
	}
	return flags
}

func CullMode(mode metadata.FaceCullMode) vk.CullModeFlags {
	switch mode {
	case metadata.FaceCullModeNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case metadata.FaceCullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case metadata.FaceCullModeFrontAndBack:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	default:
		return vk.CullModeFlags(vk.CullModeBackBit)
	}
}

var compareOpNames = map[vk.CompareOp]string{
	vk.CompareOpNever:          "VK_COMPARE_OP_NEVER",
	vk.CompareOpLess:           "VK_COMPARE_OP_LESS",
	vk.CompareOpEqual:          "VK_COMPARE_OP_EQUAL",
	vk.CompareOpLessOrEqual:    "VK_COMPARE_OP_LESS_OR_EQUAL",
	vk.CompareOpGreater:        "VK_COMPARE_OP_GREATER",
	vk.CompareOpNotEqual:       "VK_COMPARE_OP_NOT_EQUAL",
	vk.CompareOpGreaterOrEqual: "VK_COMPARE_OP_GREATER_OR_EQUAL",
	vk.CompareOpAlways:         "VK_COMPARE_OP_ALWAYS",
}

var stencilOpNames = map[vk.StencilOp]string{
	vk.StencilOpKeep:              "VK_STENCIL_OP_KEEP",
	vk.StencilOpZero:              "VK_STENCIL_OP_ZERO",
	vk.StencilOpReplace:           "VK_STENCIL_OP_REPLACE",
	vk.StencilOpIncrementAndClamp: "VK_STENCIL_OP_INCREMENT_AND_CLAMP",
	vk.StencilOpDecrementAndClamp: "VK_STENCIL_OP_DECREMENT_AND_CLAMP",
	vk.StencilOpInvert:            "VK_STENCIL_OP_INVERT",
	vk.StencilOpIncrementAndWrap:  "VK_STENCIL_OP_INCREMENT_AND_WRAP",
	vk.StencilOpDecrementAndWrap:  "VK_STENCIL_OP_DECREMENT_AND_WRAP",
}

// DescribeDepthStencil renders the create info as a short human readable
// block, one field per line.
func DescribeDepthStencil(info vk.PipelineDepthStencilStateCreateInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "depthTestEnable:   %t\n", info.DepthTestEnable == vk.True)
	fmt.Fprintf(&sb, "depthWriteEnable:  %t\n", info.DepthWriteEnable == vk.True)
	fmt.Fprintf(&sb, "depthCompareOp:    %s\n", compareOpNames[info.DepthCompareOp])
	fmt.Fprintf(&sb, "stencilTestEnable: %t\n", info.StencilTestEnable == vk.True)
	if info.StencilTestEnable == vk.True {
		s := info.Front
		fmt.Fprintf(&sb, "  compareOp:   %s\n", compareOpNames[s.CompareOp])
		fmt.Fprintf(&sb, "  compareMask: 0x%02X\n", s.CompareMask)
		fmt.Fprintf(&sb, "  writeMask:   0x%02X\n", s.WriteMask)
		fmt.Fprintf(&sb, "  reference:   0x%02X\n", s.Reference)
		fmt.Fprintf(&sb, "  passOp:      %s\n", stencilOpNames[s.PassOp])
		fmt.Fprintf(&sb, "  failOp:      %s\n", stencilOpNames[s.FailOp])
		fmt.Fprintf(&sb, "  depthFailOp: %s\n", stencilOpNames[s.DepthFailOp])
	}
	return sb.String()
}
