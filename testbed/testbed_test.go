package testbed

import (
	"testing"

	"github.com/spaghettifunk/seethrough/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceSceneIsValid(t *testing.T) {
	scene := ReferenceScene()
	require.NoError(t, scene.Validate())
	assert.Len(t, scene.Objects, 3)

	see, exclude, err := ReferencePassConfig().Masks()
	require.NoError(t, err)
	assert.True(t, see.Contains(LayerCharacter))
	assert.True(t, exclude.Contains(LayerProp))
	assert.False(t, see.Contains(LayerProp))
}

func TestNewTestGame(t *testing.T) {
	g := NewTestGame()
	require.NotNil(t, g.ApplicationConfig)
	assert.Equal(t, core.LogLevelInfo, g.ApplicationConfig.LogLevel)
	require.NoError(t, g.FnBoot())
	require.NoError(t, g.FnUpdate(0.016))
	assert.Equal(t, uint64(1), g.State.(*gameState).frames)
}
