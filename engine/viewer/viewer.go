package viewer

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spaghettifunk/seethrough/engine"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer/components"
)

const (
	// Radians per second the camera orbits while an arrow key is held.
	orbitSpeed float64 = 1.2
	// World units per second the camera rises or sinks.
	liftSpeed float32 = 3.0
	tps               = 60
)

/**
 * @brief Presents the software render target of an engine in a window.
 * Tab toggles the see-through pass, S switches to the stencil mask, the
 * arrow keys move the camera and Escape quits.
 */
type Viewer struct {
	engine      *engine.Engine
	title       string
	showStencil bool

	frame  *ebiten.Image
	width  int
	height int
}

func New(e *engine.Engine, title string) *Viewer {
	v := &Viewer{engine: e, title: title}
	e.Events().Register(core.EVENT_CODE_STENCIL_VIEW_TOGGLED, v, v.onStencilView)
	return v
}

// Run opens the window and blocks until it is closed.
func Run(e *engine.Engine, title string) error {
	v := New(e, title)
	w, h := e.GetFramebufferSize()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(w), int(h))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.engine.SetPassEnabled(!v.engine.PassEnabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.engine.Events().Fire(core.EVENT_CODE_STENCIL_VIEW_TOGGLED, !v.showStencil)
	}
	v.moveCamera(v.engine.Camera(), 1.0/float64(tps))

	if _, err := v.engine.Step(); err != nil {
		if v.engine.Stage() == engine.EngineStageShuttingDown {
			return ebiten.Termination
		}
		return err
	}
	ebiten.SetWindowTitle(v.status())
	return nil
}

func (v *Viewer) moveCamera(camera *components.Camera, dt float64) {
	var yaw float64
	var lift float32
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		yaw -= orbitSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		yaw += orbitSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		lift += liftSpeed * float32(dt)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		lift -= liftSpeed * float32(dt)
	}
	if yaw == 0 && lift == 0 {
		return
	}
	camera.SetPosition(orbit(camera.Position, camera.Target, yaw, lift))
}

// orbit rotates position around the vertical axis through target and
// moves it up by lift.
func orbit(position, target math.Vec3, yaw float64, lift float32) math.Vec3 {
	offset := position.Sub(target)
	sin, cos := stdmath.Sincos(yaw)
	s, c := float32(sin), float32(cos)
	rotated := math.NewVec3(offset.X*c+offset.Z*s, offset.Y+lift, -offset.X*s+offset.Z*c)
	return target.Add(rotated)
}

func (v *Viewer) status() string {
	fps, frameMS := v.engine.Metrics().Frame()
	pass := "off"
	if v.engine.PassEnabled() {
		pass = "on"
	}
	view := "colour"
	if v.showStencil {
		view = "stencil"
	}
	return fmt.Sprintf("%s | %.0f fps %.2f ms | see-through %s | %s", v.title, fps, frameMS, pass, view)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	target := v.engine.Target()
	if target == nil {
		return
	}
	if v.frame == nil || v.width != target.Width || v.height != target.Height {
		if v.frame != nil {
			v.frame.Deallocate()
		}
		v.width, v.height = target.Width, target.Height
		v.frame = ebiten.NewImage(v.width, v.height)
	}

	if v.showStencil {
		bit := v.engine.Pass().Config().ExclusionBit
		v.frame.WritePixels(target.StencilMaskImage(bit).Pix)
	} else {
		v.frame.WritePixels(target.Pixels())
	}
	screen.DrawImage(v.frame, nil)
}

// Layout forwards window size changes to the engine. A zero size, as
// reported for a minimized window, suspends rendering. The screen itself
// never goes below one pixel.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	width, height := uint32(max(outsideWidth, 0)), uint32(max(outsideHeight, 0))
	if w, h := v.engine.GetFramebufferSize(); width != w || height != h {
		v.engine.OnResize(width, height)
	}
	return max(int(width), 1), max(int(height), 1)
}

func (v *Viewer) onStencilView(context core.EventContext) bool {
	show, ok := context.Data.(bool)
	if !ok {
		return false
	}
	v.showStencil = show
	return true
}
