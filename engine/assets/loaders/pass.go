package loaders

import (
	"fmt"
	"math/bits"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

/**
 * @brief The on-disk configuration of the see-through pass. Materials and
 * shaders are referenced by name and resolved by the engine.
 */
type PassConfig struct {
	/** @brief Layer indices drawn with the override material when occluded. */
	SeeThroughLayers []uint8 `toml:"see_through_layers" yaml:"see_through_layers"`
	/** @brief Layer indices that suppress the effect where they are drawn. */
	ExcludeLayers []uint8 `toml:"exclude_layers" yaml:"exclude_layers"`
	/** @brief The name of the override material. Empty disables compositing. */
	Material string `toml:"material" yaml:"material"`
	/** @brief Optional stencil shader name. Empty uses the built-in one. */
	StencilShader string `toml:"stencil_shader" yaml:"stencil_shader"`
	/** @brief The stencil bit used for exclusion. 0 means the default. */
	ExclusionBit uint8 `toml:"exclusion_bit" yaml:"exclusion_bit"`
	/** @brief Optional log level (debug, info, warn, error, fatal). */
	LogLevel string `toml:"log_level" yaml:"log_level"`
	/** @brief Starts the pass switched off. */
	Disabled bool `toml:"disabled" yaml:"disabled"`
}

// DefaultPassConfig mirrors the pass defaults: layer 0 seen through,
// nothing excluded, no override material.
func DefaultPassConfig() *PassConfig {
	return &PassConfig{
		SeeThroughLayers: []uint8{metadata.DefaultLayer},
	}
}

func LoadPassConfig(path string) (*PassConfig, error) {
	config := &PassConfig{}
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	core.LogDebug("pass config loaded from '%s'", path)
	return config, nil
}

// Masks converts the layer lists to layer masks.
func (c *PassConfig) Masks() (seeThrough, exclude metadata.LayerMask, err error) {
	seeThrough, err = metadata.LayerMaskFromLayers(c.SeeThroughLayers...)
	if err != nil {
		return metadata.LayerMaskNothing, metadata.LayerMaskNothing, fmt.Errorf("see_through_layers: %w", err)
	}
	exclude, err = metadata.LayerMaskFromLayers(c.ExcludeLayers...)
	if err != nil {
		return metadata.LayerMaskNothing, metadata.LayerMaskNothing, fmt.Errorf("exclude_layers: %w", err)
	}
	return seeThrough, exclude, nil
}

func (c *PassConfig) Validate() error {
	if _, _, err := c.Masks(); err != nil {
		return err
	}
	// Zero keeps the default bit.
	if c.ExclusionBit != 0 && bits.OnesCount8(c.ExclusionBit) != 1 {
		return fmt.Errorf("exclusion_bit: %w: got 0x%02X", core.ErrInvalidExclusionBit, c.ExclusionBit)
	}
	if c.LogLevel != "" {
		if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}
