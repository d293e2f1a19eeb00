package systems

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer"
)

/**
 * @brief A pass injected by the host after the opaque geometry. Setup
 * acquires its resources, Cleanup releases them, Execute records its draws
 * for one frame.
 */
type CustomPass interface {
	Name() string
	Setup(ctx renderer.RenderContext, cmd renderer.CommandBuffer) error
	Execute(ctx *renderer.CustomPassContext) error
	Cleanup()
}

type customPassEntry struct {
	pass    CustomPass
	active  bool
	enabled bool
	// The last error reported, so a failing pass does not log every frame.
	lastError string
}

/**
 * @brief Owns the custom passes and their lifecycle. A pass is set up when
 * activated and cleaned up when deactivated or when the system shuts down.
 */
type CustomPassSystem struct {
	backend renderer.RendererBackend
	entries []*customPassEntry
}

func NewCustomPassSystem(backend renderer.RendererBackend) (*CustomPassSystem, error) {
	if backend == nil {
		err := fmt.Errorf("NewCustomPassSystem - a renderer backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &CustomPassSystem{backend: backend}, nil
}

// Register adds pass, inactive and enabled. Names are unique.
func (s *CustomPassSystem) Register(pass CustomPass) error {
	if s.find(pass.Name()) != nil {
		return fmt.Errorf("custom pass '%s' is already registered", pass.Name())
	}
	s.entries = append(s.entries, &customPassEntry{pass: pass, enabled: true})
	return nil
}

// Unregister deactivates and removes the pass called name.
func (s *CustomPassSystem) Unregister(name string) {
	for i, e := range s.entries {
		if e.pass.Name() == name {
			s.deactivate(e)
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *CustomPassSystem) find(name string) *customPassEntry {
	for _, e := range s.entries {
		if e.pass.Name() == name {
			return e
		}
	}
	return nil
}

// Activate sets the pass up. The pass stays active even when Setup reports
// a configuration error, so it can recover once the configuration is fixed.
func (s *CustomPassSystem) Activate(name string) error {
	e := s.find(name)
	if e == nil {
		return fmt.Errorf("custom pass '%s' is not registered", name)
	}
	e.active = true
	e.lastError = ""
	if err := e.pass.Setup(s.backend.Context(), s.backend.NewCommandBuffer(name+"-setup")); err != nil {
		core.LogError("custom pass '%s' setup: %s", name, err.Error())
		return err
	}
	core.LogDebug("custom pass '%s' activated", name)
	return nil
}

// Deactivate cleans the pass up. Deactivating an inactive pass does nothing.
func (s *CustomPassSystem) Deactivate(name string) error {
	e := s.find(name)
	if e == nil {
		return fmt.Errorf("custom pass '%s' is not registered", name)
	}
	s.deactivate(e)
	return nil
}

func (s *CustomPassSystem) deactivate(e *customPassEntry) {
	if !e.active {
		return
	}
	e.pass.Cleanup()
	e.active = false
	core.LogDebug("custom pass '%s' deactivated", e.pass.Name())
}

// WithPass activates the pass, runs fn and deactivates the pass again, even
// when fn fails.
func (s *CustomPassSystem) WithPass(name string, fn func(pass CustomPass) error) error {
	if err := s.Activate(name); err != nil {
		_ = s.Deactivate(name)
		return err
	}
	defer func() {
		_ = s.Deactivate(name)
	}()
	return fn(s.find(name).pass)
}

// SetEnabled switches a pass on or off without touching its resources.
func (s *CustomPassSystem) SetEnabled(name string, enabled bool) error {
	e := s.find(name)
	if e == nil {
		return fmt.Errorf("custom pass '%s' is not registered", name)
	}
	e.enabled = enabled
	return nil
}

func (s *CustomPassSystem) Enabled(name string) bool {
	e := s.find(name)
	return e != nil && e.enabled
}

func (s *CustomPassSystem) Active(name string) bool {
	e := s.find(name)
	return e != nil && e.active
}

// Execute runs every active and enabled pass in registration order. A
// failing pass is logged and skipped; the errors are returned for the
// frame statistics.
func (s *CustomPassSystem) Execute(ctx *renderer.CustomPassContext) []error {
	var errs []error
	for _, e := range s.entries {
		if !e.active || !e.enabled {
			continue
		}
		if err := e.pass.Execute(ctx); err != nil {
			if err.Error() != e.lastError {
				core.LogError("custom pass '%s': %s", e.pass.Name(), err.Error())
				e.lastError = err.Error()
			}
			errs = append(errs, err)
			continue
		}
		e.lastError = ""
	}
	return errs
}

func (s *CustomPassSystem) Shutdown() error {
	for _, e := range s.entries {
		s.deactivate(e)
	}
	s.entries = nil
	return nil
}
