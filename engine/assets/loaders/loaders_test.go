package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/spaghettifunk/seethrough/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPassConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "seethrough.toml",
			content: `
see_through_layers = [3]
exclude_layers = [5, 6]
material = "xray"
exclusion_bit = 0x40
log_level = "debug"
`,
		},
		{
			name: "yaml",
			file: "seethrough.yaml",
			content: `
see_through_layers: [3]
exclude_layers: [5, 6]
material: xray
exclusion_bit: 64
log_level: debug
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadPassConfig(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "xray", config.Material)
			assert.Equal(t, uint8(0x40), config.ExclusionBit)
			assert.Equal(t, "debug", config.LogLevel)

			see, exclude, err := config.Masks()
			require.NoError(t, err)
			assert.Equal(t, metadata.LayerMask(1<<3), see)
			assert.Equal(t, metadata.LayerMask(1<<5|1<<6), exclude)
		})
	}
}

func TestLoadPassConfigErrors(t *testing.T) {
	_, err := LoadPassConfig(writeFile(t, "seethrough.json", `{}`))
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = LoadPassConfig(writeFile(t, "seethrough.toml", `see_through_layer = [1]`))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = LoadPassConfig(writeFile(t, "seethrough.toml", `see_through_layers = [32]`))
	assert.Error(t, err)

	_, err = LoadPassConfig(writeFile(t, "seethrough.toml", `log_level = "loud"`))
	assert.Error(t, err)

	_, err = LoadPassConfig(writeFile(t, "seethrough.toml", "exclusion_bit = 3"))
	assert.ErrorIs(t, err, core.ErrInvalidExclusionBit)

	_, err = LoadPassConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultPassConfig(t *testing.T) {
	config := DefaultPassConfig()
	see, exclude, err := config.Masks()
	require.NoError(t, err)
	assert.Equal(t, metadata.LayerMask(1), see)
	assert.Equal(t, metadata.LayerMaskNothing, exclude)
}

const sceneTOML = `
name = "corridor"
width = 320
height = 240
clear_colour = [0.1, 0.1, 0.1, 1.0]

[camera]
position = [0.0, 2.0, 10.0]
target = [0.0, 0.0, 0.0]
fov = 60.0

[[materials]]
name = "xray"
shader = "Anima/XRay"
diffuse_colour = [1.0, 0.0, 1.0, 1.0]

[[materials]]
name = "brick"
shader = "Anima/Lit"
diffuse_colour = [0.6, 0.3, 0.2, 1.0]

[[objects]]
name = "wall"
size = [6.0, 4.0, 0.5]
material = "brick"

[[objects]]
name = "character"
layer = 3
shape = "quad"
size = [1.0, 2.0, 0.0]
position = [0.0, 0.0, -3.0]
`

func TestLoadScene(t *testing.T) {
	scene, err := LoadScene(writeFile(t, "corridor.toml", sceneTOML))
	require.NoError(t, err)
	assert.Equal(t, "corridor", scene.Name)
	assert.Equal(t, uint32(320), scene.Width)
	assert.Equal(t, [3]float32{0, 2, 10}, scene.Camera.Position)
	require.Len(t, scene.Materials, 2)
	assert.Equal(t, "Anima/XRay", scene.Materials[0].ShaderName)
	require.Len(t, scene.Objects, 2)
	assert.Equal(t, uint8(3), scene.Objects[1].Layer)
	assert.Equal(t, ShapeQuad, scene.Objects[1].Shape)
}

func TestSceneValidate(t *testing.T) {
	valid := func() *SceneConfig {
		return &SceneConfig{
			Materials: []metadata.MaterialConfig{{Name: "xray"}},
			Objects: []ObjectConfig{
				{Name: "a", Size: [3]float32{1, 1, 1}, Material: "xray"},
			},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(s *SceneConfig)
	}{
		{"projection", func(s *SceneConfig) { s.Camera.Projection = "fisheye" }},
		{"unnamed material", func(s *SceneConfig) { s.Materials[0].Name = "" }},
		{"unnamed object", func(s *SceneConfig) { s.Objects[0].Name = "" }},
		{"duplicate object", func(s *SceneConfig) { s.Objects = append(s.Objects, s.Objects[0]) }},
		{"layer", func(s *SceneConfig) { s.Objects[0].Layer = 32 }},
		{"box size", func(s *SceneConfig) { s.Objects[0].Size[2] = 0 }},
		{"shape", func(s *SceneConfig) { s.Objects[0].Shape = "sphere" }},
		{"material", func(s *SceneConfig) { s.Objects[0].Material = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}

	s := valid()
	s.Objects[0].Shape = ShapeQuad
	s.Objects[0].Size[2] = 0
	assert.NoError(t, s.Validate(), "quads ignore depth")
}
