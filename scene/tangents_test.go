package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTangentsOrthonormalFrame(t *testing.T) {
	m := CreateCube(1)
	require.NotEmpty(t, m.Vertices)

	for i, v := range m.Vertices {
		assert.InDelta(t, 1, float64(v.Tangent.Len()), 1e-4, "vertex %d tangent unit length", i)
		assert.InDelta(t, 1, float64(v.Bitangent.Len()), 1e-4, "vertex %d bitangent unit length", i)
		assert.InDelta(t, 0, float64(v.Tangent.Dot(v.Normal)), 1e-4,
			"vertex %d tangent orthogonal to normal", i)
	}
}

func TestComputeTangentsSphere(t *testing.T) {
	m := CreateSphere(1, 12, 8)

	degenerate := 0
	for _, v := range m.Vertices {
		if v.Tangent.LenSqr() < 1e-8 {
			degenerate++
			continue
		}
		assert.InDelta(t, 0, float64(v.Tangent.Dot(v.Normal)), 1e-3)
	}
	// Pole vertices can have collapsing UV areas; the bulk must be sound.
	assert.Less(t, degenerate, len(m.Vertices)/4)
}

func TestComputeTangentsHandlesNoIndices(t *testing.T) {
	m := CreateSkyboxCube()
	ComputeTangents(m)
	assert.Len(t, m.Vertices, 36, "position-only mesh passes through")
}
