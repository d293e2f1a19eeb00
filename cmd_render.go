package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spaghettifunk/seethrough/engine"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/software"
	"github.com/spaghettifunk/seethrough/engine/systems"
	"github.com/spf13/cobra"
)

var (
	renderScenes  []string
	renderOut     string
	renderStencil bool
	renderCaption bool
	renderFrames  int
)

// renderCmd renders scenes headless into image files
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render scenes into image files",
	Long: `Renders each scene once and writes the colour buffer as an image.

Several scenes are rendered in parallel. With --stencil the exclusion mask
is written next to each image.

Examples:
  seethrough render --out frame.png
  seethrough render --scenes a.toml,b.yaml --config pass.toml --out renders/`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringSliceVar(&renderScenes, "scenes", nil, "Scene files rendered in parallel")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "seethrough.png", "Output image, or directory when rendering several scenes")
	renderCmd.Flags().BoolVar(&renderStencil, "stencil", false, "Also write the exclusion stencil mask")
	renderCmd.Flags().BoolVar(&renderCaption, "caption", false, "Print the scene name and pass state on the image")
	renderCmd.Flags().IntVar(&renderFrames, "frames", 1, "Frames rendered before the image is taken")
}

/** @brief The images written for one scene. */
type renderResult struct {
	Scene   string
	Colour  string
	Stencil string
	Stats   *systems.FrameStats
}

func runRender(cmd *cobra.Command, args []string) error {
	scenes := renderScenes
	if len(scenes) == 0 {
		scenes = []string{scenePath}
	}
	outputs, err := outputPaths(scenes, renderOut)
	if err != nil {
		return err
	}

	if len(scenes) == 1 {
		result, err := renderScene(scenes[0], outputs[0])
		if err != nil {
			return err
		}
		printResult(cmd, result)
		return nil
	}

	js, err := systems.NewJobSystem(min(runtime.NumCPU(), len(scenes)), len(scenes))
	if err != nil {
		return err
	}
	var (
		mu      sync.Mutex
		results []*renderResult
		errs    []string
	)
	for i, scene := range scenes {
		var result *renderResult
		js.Submit(systems.JobTask{
			Name: scene,
			OnStart: func() error {
				r, err := renderScene(scene, outputs[i])
				result = r
				return err
			},
			OnComplete: func() {
				mu.Lock()
				defer mu.Unlock()
				results = append(results, result)
			},
			OnFailure: func(err error) {
				mu.Lock()
				defer mu.Unlock()
				errs = append(errs, fmt.Sprintf("%s: %s", scene, err.Error()))
			},
		})
	}
	if err := js.Shutdown(); err != nil {
		return err
	}
	for _, r := range results {
		printResult(cmd, r)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d scenes failed:\n  %s", len(errs), len(scenes), strings.Join(errs, "\n  "))
	}
	return nil
}

// outputPaths maps each scene to the image it is written to. A single
// scene uses out as is unless out names a directory.
func outputPaths(scenes []string, out string) ([]string, error) {
	isDir := filepath.Ext(out) == ""
	if len(scenes) > 1 && !isDir {
		return nil, fmt.Errorf("--out must be a directory when rendering %d scenes", len(scenes))
	}
	if !isDir {
		return []string{out}, nil
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(scenes))
	for i, scene := range scenes {
		name := "reference"
		if scene != "" {
			name = strings.TrimSuffix(filepath.Base(scene), filepath.Ext(scene))
		}
		paths[i] = filepath.Join(out, name+".png")
	}
	return paths, nil
}

func renderScene(scene, out string) (*renderResult, error) {
	e, err := startEngine(newGame(scene, configPath))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}()

	var stats *systems.FrameStats
	for i := 0; i < max(renderFrames, 1); i++ {
		if stats, err = e.RenderFrame(0); err != nil {
			return nil, err
		}
	}

	result := &renderResult{Scene: e.Scene().Name, Colour: out, Stats: stats}
	img := e.Target().Snapshot()
	if renderCaption {
		software.DrawCaption(img, caption(e))
	}
	if err := software.Export(img, out); err != nil {
		return nil, err
	}
	if renderStencil {
		result.Stencil = strings.TrimSuffix(out, filepath.Ext(out)) + "_stencil" + filepath.Ext(out)
		mask := e.Target().StencilMaskImage(e.Pass().Config().ExclusionBit)
		if err := software.Export(mask, result.Stencil); err != nil {
			return nil, err
		}
	}
	core.LogDebug("rendered '%s' into '%s'", result.Scene, out)
	return result, nil
}

func caption(e *engine.Engine) string {
	state := "off"
	if e.PassEnabled() {
		state = "on"
	}
	return fmt.Sprintf("%s | see-through %s", e.Scene().Name, state)
}

func printResult(cmd *cobra.Command, r *renderResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s -> %s", r.Scene, r.Colour)
	if r.Stencil != "" {
		fmt.Fprintf(out, " (stencil %s)", r.Stencil)
	}
	if r.Stats != nil {
		fmt.Fprintf(out, " [%d draws, %v]", len(r.Stats.Draws), r.Stats.Duration)
	}
	fmt.Fprintln(out)
}
