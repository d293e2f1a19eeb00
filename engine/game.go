package engine

import (
	"github.com/spaghettifunk/seethrough/engine/assets/loaders"
	"github.com/spaghettifunk/seethrough/engine/systems"
)

/**
 * @brief Describes what the engine runs: its configuration, the default
 * scene and pass configuration, and optional lifecycle hooks.
 */
type Game struct {
	ApplicationConfig *ApplicationConfig
	// Set by the engine before FnBoot is called.
	SystemManager *systems.SystemManager
	// Used when ApplicationConfig.ScenePath is empty.
	Scene *loaders.SceneConfig
	// Used when ApplicationConfig.PassConfigPath is empty.
	PassConfig *loaders.PassConfig
	State      interface{}

	FnBoot       Boot
	FnInitialize Initialize
	FnUpdate     Update
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Boot func() error
type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
