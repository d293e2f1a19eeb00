package systems

import (
	"github.com/spaghettifunk/seethrough/engine/renderer"
)

type SystemManager struct {
	CameraSystem     *CameraSystem
	ShaderSystem     *ShaderSystem
	MaterialSystem   *MaterialSystem
	CustomPassSystem *CustomPassSystem
	RendererSystem   *RendererSystem
}

func NewSystemManager(backend renderer.RendererBackend, rendererConfig *RendererSystemConfig) (*SystemManager, error) {
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 100,
	})
	if err != nil {
		return nil, err
	}
	ssys, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount:   512,
		RegisterBuiltins: true,
	})
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 1000,
	}, ssys)
	if err != nil {
		return nil, err
	}
	cps, err := NewCustomPassSystem(backend)
	if err != nil {
		return nil, err
	}
	rs, err := NewRendererSystem(rendererConfig, backend, cps)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		CameraSystem:     cs,
		ShaderSystem:     ssys,
		MaterialSystem:   ms,
		CustomPassSystem: cps,
		RendererSystem:   rs,
	}, nil
}

// Shutdown stops the systems in reverse creation order, so custom passes
// release their materials before the material system goes away.
func (sm *SystemManager) Shutdown() error {
	if err := sm.CustomPassSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.RendererSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
