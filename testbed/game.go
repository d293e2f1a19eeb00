package testbed

import (
	"github.com/spaghettifunk/seethrough/engine"
	"github.com/spaghettifunk/seethrough/engine/assets/loaders"
	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/spaghettifunk/seethrough/engine/systems"
)

const (
	// The layer of the objects that show through walls.
	LayerCharacter uint8 = 3
	// The layer of the objects that hide the effect.
	LayerProp uint8 = 5

	XRayMaterialName  = "xray"
	WallMaterialName  = "wall"
	CharacterMaterial = "character"
	PropMaterial      = "prop"
)

type gameState struct {
	frames uint64
}

// NewTestGame returns a game rendering the reference scene with the
// see-through pass configured for it.
func NewTestGame() *engine.Game {
	state := &gameState{}
	return &engine.Game{
		ApplicationConfig: &engine.ApplicationConfig{
			StartWidth:  320,
			StartHeight: 240,
			Name:        "See-through testbed",
			LogLevel:    core.LogLevelInfo,
		},
		Scene:      ReferenceScene(),
		PassConfig: ReferencePassConfig(),
		State:      state,
		FnBoot: func() error {
			core.LogInfo("booting testbed...")
			return nil
		},
		FnUpdate: func(deltaTime float64) error {
			state.frames++
			return nil
		},
	}
}

// ReferenceScene builds a wall with a character behind it and a prop
// between the two covering the right half of the character.
func ReferenceScene() *loaders.SceneConfig {
	return &loaders.SceneConfig{
		Name:        "reference",
		Width:       320,
		Height:      240,
		ClearColour: [4]float32{0.05, 0.05, 0.08, 1},
		Camera: loaders.CameraConfig{
			Position:   [3]float32{0, 0, 10},
			Target:     [3]float32{0, 0, 0},
			Projection: loaders.ProjectionPerspective,
			FOV:        45,
			Near:       0.1,
			Far:        100,
		},
		Materials: []metadata.MaterialConfig{
			{Name: XRayMaterialName, ShaderName: systems.BuiltinShaderXRay, DiffuseColour: [4]float32{1, 0, 1, 1}},
			{Name: WallMaterialName, ShaderName: systems.BuiltinShaderLit, DiffuseColour: [4]float32{0.55, 0.55, 0.6, 1}},
			{Name: CharacterMaterial, ShaderName: systems.BuiltinShaderLit, DiffuseColour: [4]float32{0.2, 0.4, 0.9, 1}},
			{Name: PropMaterial, ShaderName: systems.BuiltinShaderLit, DiffuseColour: [4]float32{0.3, 0.7, 0.3, 1}},
		},
		Objects: []loaders.ObjectConfig{
			{Name: "wall", Layer: metadata.DefaultLayer, Size: [3]float32{8, 5, 0.5}, Material: WallMaterialName},
			{Name: "character", Layer: LayerCharacter, Size: [3]float32{2, 3, 1}, Position: [3]float32{0, 0, -3}, Material: CharacterMaterial},
			{Name: "prop", Layer: LayerProp, Size: [3]float32{1.6, 2, 0.5}, Position: [3]float32{1.2, 0, -1.5}, Material: PropMaterial},
		},
	}
}

func ReferencePassConfig() *loaders.PassConfig {
	return &loaders.PassConfig{
		SeeThroughLayers: []uint8{LayerCharacter},
		ExcludeLayers:    []uint8{LayerProp},
		Material:         XRayMaterialName,
	}
}
