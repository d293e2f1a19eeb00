package metadata

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxLayers is the number of layers a LayerMask can address.
const MaxLayers = 32

// LayerMask selects renderers by the layer they live on. Bit n set means
// layer n is selected.
type LayerMask uint32

const (
	LayerMaskNothing    LayerMask = 0
	LayerMaskEverything LayerMask = ^LayerMask(0)
)

// LayerMaskFromLayers builds a mask selecting the given layer indices.
func LayerMaskFromLayers(layers ...uint8) (LayerMask, error) {
	var mask LayerMask
	for _, l := range layers {
		if l >= MaxLayers {
			return LayerMaskNothing, fmt.Errorf("layer %d out of range (max=%d)", l, MaxLayers-1)
		}
		mask |= 1 << l
	}
	return mask, nil
}

func (m LayerMask) Contains(layer uint8) bool {
	if layer >= MaxLayers {
		return false
	}
	return m&(1<<layer) != 0
}

// Layers lists the selected layer indices in ascending order.
func (m LayerMask) Layers() []uint8 {
	out := make([]uint8, 0, bits.OnesCount32(uint32(m)))
	for l := uint8(0); l < MaxLayers; l++ {
		if m.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}

func (m LayerMask) String() string {
	switch m {
	case LayerMaskNothing:
		return "Nothing"
	case LayerMaskEverything:
		return "Everything"
	}
	parts := make([]string, 0, bits.OnesCount32(uint32(m)))
	for _, l := range m.Layers() {
		parts = append(parts, fmt.Sprintf("%d", l))
	}
	return "Layers(" + strings.Join(parts, ",") + ")"
}
