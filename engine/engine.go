package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/seethrough/engine/assets"
	"github.com/spaghettifunk/seethrough/engine/assets/loaders"
	"github.com/spaghettifunk/seethrough/engine/containers"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/spaghettifunk/seethrough/engine/renderer/passes"
	"github.com/spaghettifunk/seethrough/engine/renderer/software"
	"github.com/spaghettifunk/seethrough/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// SeeThroughPassName is the name the see-through pass is registered under.
const SeeThroughPassName string = "see-through"

// The number of asset changes kept until the next frame picks them up.
const maxPendingReloads = 16

const (
	defaultWidth  uint32 = 640
	defaultHeight uint32 = 480
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	backend       *software.Backend
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	events        *core.EventBus
	clock         *core.Clock
	metrics       *core.Metrics
	isSuspended   bool
	width         uint32
	height        uint32
	lastTime      time.Duration

	camera    *components.Camera
	scene     *Scene
	pass      *passes.SeeThroughPass
	lastStats *systems.FrameStats

	// Filled by the watcher goroutine, drained by RenderFrame.
	reloadMutex    sync.Mutex
	pendingReloads *containers.RingQueue[string]
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine requires a game with an application config")
	}
	backend := software.New()
	sm, err := systems.NewSystemManager(backend, &systems.RendererSystemConfig{
		ResizeSettleFrames: g.ApplicationConfig.ResizeSettleFrames,
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm

	e := &Engine{
		currentStage:   EngineStageUninitialized,
		gameInstance:   g,
		backend:        backend,
		systemManager:  sm,
		events:         core.NewEventBus(),
		clock:          core.NewClock(),
		metrics:        core.NewMetrics(),
		width:          g.ApplicationConfig.StartWidth,
		height:         g.ApplicationConfig.StartHeight,
		pendingReloads: containers.NewRingQueue[string](maxPendingReloads),
	}
	if g.ApplicationConfig.AssetsDir != "" {
		am, err := assets.NewAssetManager()
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		e.assetManager = am
	}
	return e, nil
}

func (e *Engine) boot() error {
	e.currentStage = EngineStageBooting
	core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)
	if e.gameInstance.FnBoot != nil {
		if err := e.gameInstance.FnBoot(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageBootComplete
	return nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	if err := e.boot(); err != nil {
		return err
	}
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	sceneConfig := e.gameInstance.Scene
	if config.ScenePath != "" {
		sc, err := loaders.LoadScene(config.ScenePath)
		if err != nil {
			return err
		}
		sceneConfig = sc
	}
	if sceneConfig == nil {
		return fmt.Errorf("no scene to render")
	}
	if e.width == 0 || e.height == 0 {
		e.width, e.height = sceneConfig.Width, sceneConfig.Height
	}
	if e.width == 0 || e.height == 0 {
		e.width, e.height = defaultWidth, defaultHeight
	}
	if err := e.systemManager.RendererSystem.Initialize(e.width, e.height); err != nil {
		return err
	}

	e.camera = e.systemManager.CameraSystem.GetDefault()
	e.camera.SetViewport(e.width, e.height)
	if err := e.LoadScene(sceneConfig); err != nil {
		return err
	}

	passConfig := e.gameInstance.PassConfig
	if config.PassConfigPath != "" {
		pc, err := loaders.LoadPassConfig(config.PassConfigPath)
		if err != nil {
			return err
		}
		passConfig = pc
	}
	if passConfig == nil {
		passConfig = loaders.DefaultPassConfig()
	}
	e.pass = passes.NewSeeThroughPass(SeeThroughPassName, passes.DefaultConfig(), e.systemManager.ShaderSystem, e.systemManager.MaterialSystem)
	if err := e.systemManager.CustomPassSystem.Register(e.pass); err != nil {
		return err
	}
	if err := e.ApplyPassConfig(passConfig); err != nil {
		return err
	}
	if err := e.systemManager.CustomPassSystem.Activate(SeeThroughPassName); err != nil {
		// The pass stays active and recovers once its configuration is fixed.
		if !errors.Is(err, core.ErrPassNotFound) {
			return err
		}
		core.LogWarn("see-through pass is misconfigured: %s", err.Error())
	}

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_SEE_THROUGH_TOGGLED, e, e.onToggled)
	e.events.Register(core.EVENT_CODE_ASSET_RELOADED, e, e.onAssetReloaded)

	if e.assetManager != nil {
		if err := e.assetManager.Initialize(config.AssetsDir); err != nil {
			return err
		}
		forward := func(path string, assetType assets.AssetType) {
			e.events.Fire(core.EVENT_CODE_ASSET_RELOADED, path)
		}
		e.assetManager.OnReload(assets.AssetTypePassConfig, forward)
		e.assetManager.OnReload(assets.AssetTypeScene, forward)
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.clock.Start()
	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized (%dx%d, scene '%s')", e.width, e.height, e.scene.Name)
	return nil
}

// LoadScene replaces the scene. The camera is reconfigured from the scene.
func (e *Engine) LoadScene(config *loaders.SceneConfig) error {
	scene, err := buildScene(config, e.systemManager.MaterialSystem)
	if err != nil {
		return err
	}
	applyCamera(e.camera, config.Camera)
	e.systemManager.RendererSystem.Config.ClearColour = scene.ClearColour
	e.scene = scene
	return nil
}

// ApplyPassConfig resolves the names in config and hands the result to the
// see-through pass. A changed or removed stencil shader override restarts
// the pass lifecycle. Nothing is applied when config is invalid.
func (e *Engine) ApplyPassConfig(config *loaders.PassConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	seeThrough, exclude, err := config.Masks()
	if err != nil {
		return err
	}

	pc := passes.DefaultConfig()
	pc.SeeThroughLayer = seeThrough
	pc.ExcludeLayer = exclude
	if config.ExclusionBit != 0 {
		pc.ExclusionBit = config.ExclusionBit
	}
	if config.Material != "" {
		m, err := e.systemManager.MaterialSystem.Acquire(config.Material)
		if err != nil {
			return err
		}
		pc.SeeThroughMaterial = m
	}
	if config.StencilShader != "" {
		shader, err := e.systemManager.ShaderSystem.Get(config.StencilShader)
		if err != nil {
			return err
		}
		pc.StencilShader = shader
	}
	level := core.LogLevelInfo
	if config.LogLevel != "" {
		if level, err = core.ParseLogLevel(config.LogLevel); err != nil {
			return err
		}
	}

	previousShader := e.pass.Config().StencilShader
	if err := e.pass.SetConfig(pc); err != nil {
		return err
	}
	cps := e.systemManager.CustomPassSystem
	if err := cps.SetEnabled(SeeThroughPassName, !config.Disabled); err != nil {
		return err
	}
	if e.pass.StencilMaterial() != nil && previousShader != pc.StencilShader {
		if err := cps.Deactivate(SeeThroughPassName); err != nil {
			return err
		}
		if err := cps.Activate(SeeThroughPassName); err != nil {
			if !errors.Is(err, core.ErrPassNotFound) {
				return err
			}
			core.LogWarn("see-through pass is misconfigured: %s", err.Error())
		}
	}
	if config.LogLevel != "" {
		core.SetLogLevel(level)
	}
	core.LogInfo("see-through pass configured (see-through %s, exclude %s)", seeThrough, exclude)
	return nil
}

// RenderFrame applies pending asset changes, updates the game and draws
// one frame.
func (e *Engine) RenderFrame(deltaTime float64) (*systems.FrameStats, error) {
	switch e.currentStage {
	case EngineStageInitialized, EngineStageRunning:
	default:
		return nil, fmt.Errorf("engine cannot render in stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	if e.isSuspended {
		return &systems.FrameStats{Skipped: true}, nil
	}

	e.applyPendingReloads()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(deltaTime); err != nil {
			core.LogError("Game update failed: %s", err.Error())
			return nil, err
		}
	}

	stats, err := e.systemManager.RendererSystem.DrawFrame(&systems.RenderPacket{
		DeltaTime: deltaTime,
		Camera:    e.camera,
		Renderers: e.scene.Renderers,
	})
	if err != nil {
		return nil, err
	}
	if !stats.Skipped {
		e.metrics.Update(stats.Duration)
	}
	e.lastStats = stats
	return stats, nil
}

// Step renders a frame with the time elapsed since the previous Step.
func (e *Engine) Step() (*systems.FrameStats, error) {
	e.clock.Update()
	now := e.clock.Elapsed()
	delta := (now - e.lastTime).Seconds()
	e.lastTime = now
	return e.RenderFrame(delta)
}

// RecordPass records the draws of the see-through pass for the current
// scene without submitting them.
func (e *Engine) RecordPass() (*software.CommandBuffer, error) {
	cmd := software.NewCommandBuffer("describe")
	err := e.pass.Execute(&renderer.CustomPassContext{
		RenderContext:  e.backend.Context(),
		Cmd:            cmd,
		CullingResults: e.backend.Cull(e.camera, e.scene.Renderers),
		Camera:         e.camera,
	})
	return cmd, err
}

func (e *Engine) applyPendingReloads() {
	for {
		e.reloadMutex.Lock()
		path, err := e.pendingReloads.Dequeue()
		e.reloadMutex.Unlock()
		if err != nil {
			return
		}
		if err := e.reload(path); err != nil {
			core.LogError("reload of '%s' failed, keeping the previous state: %s", path, err.Error())
		}
	}
}

func (e *Engine) reload(path string) error {
	if e.assetManager == nil {
		return fmt.Errorf("hot reload is disabled")
	}
	asset, err := e.assetManager.LoadAsset(path)
	if err != nil {
		return err
	}
	switch asset := asset.(type) {
	case *loaders.PassConfig:
		return e.ApplyPassConfig(asset)
	case *loaders.SceneConfig:
		return e.LoadScene(asset)
	}
	return fmt.Errorf("unexpected asset %T", asset)
}

// SetPassEnabled switches the see-through pass on or off.
func (e *Engine) SetPassEnabled(enabled bool) {
	e.events.Fire(core.EVENT_CODE_SEE_THROUGH_TOGGLED, enabled)
}

func (e *Engine) PassEnabled() bool {
	return e.systemManager.CustomPassSystem.Enabled(SeeThroughPassName)
}

// OnResize notifies the engine that the output size changed. A zero size
// suspends rendering.
func (e *Engine) OnResize(width, height uint32) {
	e.events.Fire(core.EVENT_CODE_RESIZED, [2]uint32{width, height})
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.assetManager != nil {
		if err := e.assetManager.Close(); err != nil {
			core.LogError(err.Error())
		}
	}
	e.events.Shutdown()
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Camera() *components.Camera {
	return e.camera
}

func (e *Engine) Scene() *Scene {
	return e.scene
}

func (e *Engine) Pass() *passes.SeeThroughPass {
	return e.pass
}

func (e *Engine) Target() *software.RenderTarget {
	return e.backend.Target()
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Events() *core.EventBus {
	return e.events
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) LastStats() *systems.FrameStats {
	return e.lastStats
}

// Renderer returns the renderer of the current scene called name, or nil.
func (e *Engine) Renderer(name string) *metadata.Renderer {
	for _, r := range e.scene.Renderers {
		if r.Name == name {
			return r
		}
	}
	return nil
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.currentStage = EngineStageShuttingDown
		return true
	}
	return false
}

func (e *Engine) onToggled(context core.EventContext) bool {
	enabled, ok := context.Data.(bool)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if err := e.systemManager.CustomPassSystem.SetEnabled(SeeThroughPassName, enabled); err != nil {
		core.LogError(err.Error())
		return false
	}
	core.LogInfo("see-through pass enabled: %t", enabled)
	return true
}

func (e *Engine) onAssetReloaded(context core.EventContext) bool {
	path, ok := context.Data.(string)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	e.reloadMutex.Lock()
	defer e.reloadMutex.Unlock()
	e.pendingReloads.EnqueueOverwrite(path)
	return true
}

func (e *Engine) onResized(context core.EventContext) bool {
	size, ok := context.Data.([2]uint32)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := size[0], size[1]
	if width == e.width && height == e.height {
		return true
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	e.systemManager.RendererSystem.OnResize(width, height)
	return true
}
