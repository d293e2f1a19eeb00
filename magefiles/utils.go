//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

// The binary built by Build.Binary and used by the Run targets.
const binaryPath = "bin/seethrough"

type cmdOptions struct {
	task   string
	args   []string
	dir    string
	env    []string
	stream bool
}

type cmdOption func(*cmdOptions)

// withTask labels the command output with the mage target running it.
func withTask(task string) cmdOption {
	return func(o *cmdOptions) {
		o.task = task
	}
}

func withArgs(args ...string) cmdOption {
	return func(o *cmdOptions) {
		o.args = args
	}
}

func withDir(dir string) cmdOption {
	return func(o *cmdOptions) {
		o.dir = dir
	}
}

// withEnv adds KEY=VALUE pairs to the environment of the command.
func withEnv(env ...string) cmdOption {
	return func(o *cmdOptions) {
		o.env = append(o.env, env...)
	}
}

func withStream() cmdOption {
	return func(o *cmdOptions) {
		o.stream = true
	}
}

func (o *cmdOptions) label() string {
	if o.task == "" {
		return "seethrough"
	}
	return o.task
}

// executeCmd runs command and returns its combined output. The output is
// streamed with -v or withStream, otherwise it is only printed on failure.
func executeCmd(command string, options ...cmdOption) (string, error) {
	opts := &cmdOptions{}
	for _, o := range options {
		o(opts)
	}

	fmt.Printf("[%s] %s %s\n", opts.label(), command, strings.Join(opts.args, " "))
	cmd := exec.Command(command, opts.args...)
	cmd.Dir = opts.dir
	if len(opts.env) > 0 {
		cmd.Env = append(os.Environ(), opts.env...)
	}

	var out bytes.Buffer
	if mg.Verbose() || opts.stream {
		cmd.Stdout = io.MultiWriter(&out, os.Stdout)
		cmd.Stderr = io.MultiWriter(&out, os.Stderr)
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
		defer func() {
			if cmd.ProcessState != nil && !cmd.ProcessState.Success() {
				fmt.Printf("[%s] %s failed:\n%s", opts.label(), command, out.String())
			}
		}()
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("[%s] %s: %w", opts.label(), command, err)
	}
	return out.String(), nil
}
