/*
seethrough renders scenes with the see-through stencil pass, either
headless into image files or live in a window.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/seethrough/engine"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/testbed"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel   string
	scenePath  string
	configPath string
	assetsDir  string
	width      uint32
	height     uint32
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "seethrough",
	Short: "See-through stencil pass renderer",
	Long: `seethrough draws occluded objects with an override material where they
are hidden behind other geometry, while objects on an exclusion layer
suppress the effect wherever they cover the screen.

Without a scene file the built-in reference scene is rendered.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := core.ParseLogLevel(logLevel)
		if err != nil {
			return err
		}
		core.SetLogLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&scenePath, "scene", "", "Scene file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "See-through pass configuration file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets", "", "Directory watched for configuration changes")
	rootCmd.PersistentFlags().Uint32Var(&width, "width", 0, "Render width (0 uses the scene width)")
	rootCmd.PersistentFlags().Uint32Var(&height, "height", 0, "Render height (0 uses the scene height)")

	rootCmd.AddCommand(renderCmd, viewCmd, describeCmd)
}

// newGame builds the game for one scene file. An empty path selects the
// reference scene and its pass configuration.
func newGame(scene, config string) *engine.Game {
	level, err := core.ParseLogLevel(logLevel)
	if err != nil {
		level = core.LogLevelInfo
	}
	g := &engine.Game{
		ApplicationConfig: &engine.ApplicationConfig{
			StartWidth:     width,
			StartHeight:    height,
			Name:           "seethrough",
			LogLevel:       level,
			ScenePath:      scene,
			PassConfigPath: config,
		},
	}
	if scene == "" {
		g.Scene = testbed.ReferenceScene()
		if config == "" {
			g.PassConfig = testbed.ReferencePassConfig()
		}
	}
	return g
}

// startEngine creates and initializes an engine for g.
func startEngine(g *engine.Game) (*engine.Engine, error) {
	e, err := engine.New(g)
	if err != nil {
		return nil, err
	}
	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		return nil, err
	}
	return e, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
