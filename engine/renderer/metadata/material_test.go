package metadata

import (
	"testing"

	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialFindPass(t *testing.T) {
	shader := &Shader{
		Name: "test",
		Passes: []ShaderPass{
			{Name: "Forward", LightMode: ShaderTagForward},
			{Name: "ForwardOnly", LightMode: ShaderTagForwardOnly},
		},
	}
	m := NewMaterial("m", shader)

	assert.Equal(t, 1, m.FindPass("ForwardOnly"))
	assert.Equal(t, -1, m.FindPass("ShadowCaster"))
	assert.Equal(t, 2, m.PassCount())
	assert.Equal(t, 1, shader.FindPassByTag([]ShaderTagID{ShaderTagFirstPass, ShaderTagForwardOnly}))

	broken := NewMaterial("broken", nil)
	assert.False(t, broken.IsFunctional())
	assert.Equal(t, -1, broken.FindPass("ForwardOnly"))

	var missing *Material
	assert.Equal(t, -1, missing.FindPass("ForwardOnly"))
	assert.False(t, missing.IsFunctional())
}

func TestMaterialIntProperties(t *testing.T) {
	m := &Material{}
	_, ok := m.GetInt("_StencilWriteMask")
	assert.False(t, ok)

	m.SetInt("_StencilWriteMask", 0x80)
	v, ok := m.GetInt("_StencilWriteMask")
	require.True(t, ok)
	assert.Equal(t, int32(0x80), v)
}

func TestBoxMeshIsClosedAndCentred(t *testing.T) {
	box := NewBoxMesh("box", math.NewVec3(2, 4, 6))
	require.Len(t, box.Triangles, 12)
	assert.Equal(t, math.NewVec3(-1, -2, -3), box.Bounds.Min)
	assert.Equal(t, math.NewVec3(1, 2, 3), box.Bounds.Max)

	// Every face normal points away from the centre.
	for _, tri := range box.Triangles {
		n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
		centroid := tri.A.Add(tri.B).Add(tri.C).MulScalar(1.0 / 3.0)
		assert.Greater(t, n.Dot(centroid), float32(0))
	}
}

func TestRendererWorldBounds(t *testing.T) {
	r := NewRenderer("quad", DefaultLayer, NewQuadMesh("quad", 2, 2), nil)
	r.Position = math.NewVec3(3, 0, -1)

	b := r.WorldBounds()
	assert.Equal(t, math.NewVec3(2, -1, -1), b.Min)
	assert.Equal(t, math.NewVec3(4, 1, -1), b.Max)
	assert.Equal(t, math.NewVec3(3, 0, -1), r.Center())
	assert.Equal(t, RenderQueueGeometry, r.RenderQueue())
}
