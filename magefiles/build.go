//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the seethrough binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withTask("build:binary"), withArgs("mod", "download")); err != nil {
		return err
	}
	if _, err := executeCmd("go", withTask("build:binary"), withArgs("build", "-o", binaryPath, "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet over every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withTask("build:vet"), withArgs("vet", "./..."), withStream())
	return err
}

type Test mg.Namespace

// Runs every test with the race detector.
func (Test) All() error {
	_, err := executeCmd("go", withTask("test:all"), withArgs("test", "-race", "-count=1", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Runs the see-through pass scenarios only.
func (Test) Pass() error {
	_, err := executeCmd("go", withTask("test:pass"), withArgs("test", "-count=1", "./..."), withDir("engine/renderer/passes"), withStream())
	return err
}
