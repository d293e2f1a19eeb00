package software

import (
	"fmt"

	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
)

type CommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY CommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_SUBMITTED
)

/** @brief A recorded command. */
type Command interface {
	fmt.Stringer
}

type ClearCommand struct {
	Flags  renderer.ClearFlags
	Colour math.Vec4
}

func (c ClearCommand) String() string {
	return fmt.Sprintf("Clear(flags=%03b)", uint8(c.Flags))
}

type DrawRendererListCommand struct {
	List *metadata.RendererList
}

func (c DrawRendererListCommand) String() string {
	if c.List == nil || c.List.Desc == nil {
		return "DrawRendererList(<nil>)"
	}
	d := c.List.Desc
	material := "<own>"
	if d.OverrideMaterial != nil {
		material = d.OverrideMaterial.Name
	}
	return fmt.Sprintf("DrawRendererList(layers=%s material=%s pass=%d sort=%s renderers=%d)",
		d.LayerMask, material, d.OverrideMaterialPassIndex, d.SortingCriteria, len(c.List.Renderers))
}

/**
 * @brief Records commands in order. Nothing is executed until the buffer
 * is submitted to a Backend or a Context.
 */
type CommandBuffer struct {
	name     string
	State    CommandBufferState
	commands []Command
}

func NewCommandBuffer(name string) *CommandBuffer {
	return &CommandBuffer{name: name, State: COMMAND_BUFFER_STATE_READY}
}

func (c *CommandBuffer) Name() string {
	return c.name
}

func (c *CommandBuffer) Clear(flags renderer.ClearFlags, colour math.Vec4) {
	c.record(ClearCommand{Flags: flags, Colour: colour})
}

func (c *CommandBuffer) DrawRendererList(list *metadata.RendererList) {
	if list == nil {
		return
	}
	c.record(DrawRendererListCommand{List: list})
}

func (c *CommandBuffer) record(cmd Command) {
	if c.State == COMMAND_BUFFER_STATE_SUBMITTED {
		c.commands = c.commands[:0]
	}
	c.State = COMMAND_BUFFER_STATE_RECORDING
	c.commands = append(c.commands, cmd)
}

// Commands returns the recorded commands in recording order.
func (c *CommandBuffer) Commands() []Command {
	return c.commands
}

// Reset drops every recorded command.
func (c *CommandBuffer) Reset() {
	c.commands = c.commands[:0]
	c.State = COMMAND_BUFFER_STATE_READY
}
