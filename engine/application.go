package engine

import (
	"github.com/spaghettifunk/seethrough/engine/core"
)

type ApplicationConfig struct {
	// Render target starting width. 0 takes the scene width.
	StartWidth uint32
	// Render target starting height. 0 takes the scene height.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// The directory watched for configuration changes. Empty disables hot reload.
	AssetsDir string
	// Scene file to load. Empty uses the scene of the game.
	ScenePath string
	// Pass configuration file to load. Empty uses the pass configuration of the game.
	PassConfigPath string
	// Frames to wait after a resize before the render target is rebuilt.
	ResizeSettleFrames uint8
}
