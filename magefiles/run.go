//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Renders the example scenes into renders/.
func (Run) Render() error {
	mg.Deps(Build.Binary)
	fmt.Println("Render example scenes...")
	_, err := executeCmd(binaryPath, withTask("run:render"), withArgs(
		"render",
		"--scenes", "assets/scenes/reference.toml,assets/scenes/corridor.yaml",
		"--config", "assets/config/seethrough.toml",
		"--out", "renders",
		"--stencil",
		"--caption",
	), withStream())
	return err
}

// Opens the reference scene in a window, reloading edited assets.
func (Run) View() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run viewer...")
	_, err := executeCmd(binaryPath, withTask("run:view"), withArgs(
		"view",
		"--scene", "assets/scenes/reference.toml",
		"--config", "assets/config/seethrough.toml",
		"--assets", "assets",
	), withStream())
	return err
}

// Prints the draws of the see-through pass for the reference scene.
func (Run) Describe() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd(binaryPath, withTask("run:describe"), withArgs("describe", "--scene", "assets/scenes/reference.toml"), withStream())
	return err
}
