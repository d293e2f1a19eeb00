package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/software"
	"github.com/spaghettifunk/seethrough/engine/renderer/vulkan"
	"github.com/spf13/cobra"
)

// describeCmd prints the draws recorded by the see-through pass
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the draws of the see-through pass",
	Long: `Records the see-through pass for the scene without rendering it and
prints every draw with the depth and stencil state it uses, written as the
Vulkan pipeline state a GPU backend would create.`,
	RunE: runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	e, err := startEngine(newGame(scenePath, configPath))
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}()

	recorded, err := e.RecordPass()
	if err != nil && !errors.Is(err, core.ErrPassNotFound) {
		return err
	}
	out := cmd.OutOrStdout()
	config := e.Pass().Config()
	fmt.Fprintf(out, "scene %s\n", e.Scene().Name)
	fmt.Fprintf(out, "see-through %s, exclude %s, exclusion bit 0x%02X\n", config.SeeThroughLayer, config.ExcludeLayer, config.ExclusionBit)
	if err != nil {
		fmt.Fprintf(out, "pass skipped: %s\n", err.Error())
		return nil
	}
	return describeCommands(out, recorded)
}

func describeCommands(out io.Writer, recorded *software.CommandBuffer) error {
	commands := recorded.Commands()
	if len(commands) == 0 {
		fmt.Fprintln(out, "no draws recorded")
		return nil
	}
	for i, c := range commands {
		fmt.Fprintf(out, "\n#%d %s\n", i, c.String())
		draw, ok := c.(software.DrawRendererListCommand)
		if !ok || draw.List == nil {
			continue
		}
		state, err := software.DescribeState(draw.List.Desc)
		if err != nil {
			return err
		}
		fmt.Fprint(out, vulkan.DescribeDepthStencil(vulkan.DepthStencilCreateInfo(state)))
	}
	return nil
}
