package main

import (
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/viewer"
	"github.com/spf13/cobra"
)

// viewCmd opens the interactive window
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the scene in a window",
	Long: `Opens a window rendering the scene every frame.

Keys:
  Tab     toggle the see-through pass
  S       toggle the stencil mask view
  Arrows  orbit and lift the camera
  Esc     quit

With --assets the directory is watched and edited scene and pass
configuration files are applied on the next frame.`,
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	g := newGame(scenePath, configPath)
	g.ApplicationConfig.AssetsDir = assetsDir
	e, err := startEngine(g)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}()
	return viewer.Run(e, "seethrough - "+e.Scene().Name)
}
