package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"light-engine/gfx"
	"light-engine/scene"
)

func TestEnableShadowAllocatesPerType(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	ctx.EnableShadow(0, 1024)
	require.Len(t, dev.depths, 1)
	assert.False(t, dev.depths[0].cube, "directional light gets a 2D map")
	assert.True(t, ctx.HasShadow(0))
	assert.Equal(t, int32(1), p.ints["lights[0].shadow"])
	assert.InDelta(t, 1.0/1024, p.floats["lights[0].shadowMapTxlSz"], 1e-9)
	assert.Equal(t, int32(1024), ctx.ShadowResolution(0))
	assert.Equal(t, dev.depths[0].id, ctx.ShadowMapTexture(0))

	ctx.SetLightType(1, Omni)
	ctx.EnableShadow(1, 512)
	require.Len(t, dev.depths, 2)
	assert.True(t, dev.depths[1].cube, "omni light gets a cubemap")
}

func TestEnableShadowIdempotentAndRealloc(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	ctx.EnableShadow(0, 1024)
	ctx.EnableShadow(0, 1024)
	assert.Len(t, dev.depths, 1, "same resolution is a no-op")

	ctx.EnableShadow(0, 2048)
	require.Len(t, dev.depths, 2, "resize reallocates")
	assert.True(t, dev.depths[0].destroyed)
	assert.Equal(t, int32(2048), dev.depths[1].size)

	ctx.EnableShadow(0, 0)
	assert.Len(t, dev.depths, 2, "invalid resolution rejected")
}

func TestDisableShadowReleasesTarget(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	ctx.EnableShadow(0, 512)
	ctx.DisableShadow(0)
	assert.False(t, ctx.HasShadow(0))
	assert.Equal(t, int32(0), p.ints["lights[0].shadow"])
	assert.True(t, dev.depths[0].destroyed, "depth target released")
	assert.Equal(t, int32(0), ctx.ShadowResolution(0))
	assert.Equal(t, gfx.TextureID(0), ctx.ShadowMapTexture(0))

	ctx.EnableShadow(0, 512)
	assert.True(t, ctx.HasShadow(0))
	assert.Len(t, dev.depths, 2, "re-enable allocates a fresh target")
	assert.Equal(t, int32(512), ctx.ShadowResolution(0))
}

func TestShadowBiasDefaultsPerTargetKind(t *testing.T) {
	ctx, _, _ := newTestContext(t, Options{})

	assert.Equal(t, float32(defaultBias2D), ctx.ShadowBias(0))

	ctx.SetLightType(0, Omni)
	assert.Equal(t, float32(defaultBiasCube), ctx.ShadowBias(0))

	// An explicit override survives type changes.
	ctx.SetShadowBias(0, 0.01)
	ctx.SetLightType(0, Spot)
	assert.Equal(t, float32(0.01), ctx.ShadowBias(0))
}

func TestUpdateShadowMap2D(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()
	mesh := scene.CreateCube(1)

	ctx.SetLightType(0, Spot)
	ctx.SetLightPosition(0, mgl32.Vec3{0, 5, 0})
	ctx.SetLightTarget(0, mgl32.Vec3{0, 0, 0})
	ctx.EnableShadow(0, 512)

	calls := 0
	ctx.UpdateShadowMap(0, func() {
		calls++
		// Draws inside the pass route to the depth program.
		ctx.DrawMesh(mesh, nil, mgl32.Ident4())
	})

	assert.Equal(t, 1, calls)
	target := dev.depths[0]
	assert.Equal(t, 1, target.begins)
	assert.Equal(t, 1, target.ends)
	require.Len(t, dev.draws, 1)
	assert.Equal(t, int32(1), dev.draws[0].instances, "depth pass never renders stereo")

	vp, ok := p.mats["lights[0].vp"]
	assert.True(t, ok, "2D pass stores its view-projection for the lighting stage")
	assert.NotEqual(t, mgl32.Ident4(), vp)
	assert.Equal(t, captureNone, ctx.capture, "pass state cleared")
}

func TestUpdateShadowMapOmniRendersSixFaces(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	mesh := scene.CreateCube(1)

	ctx.SetLightType(0, Omni)
	ctx.SetLightPosition(0, mgl32.Vec3{1, 2, 3})
	ctx.EnableShadow(0, 256)

	seen := map[mgl32.Mat4]bool{}
	ctx.UpdateShadowMap(0, func() {
		seen[ctx.captureVP] = true
		ctx.CastMesh(mesh, mgl32.Ident4())
	})

	target := dev.depths[0]
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, target.faces)
	assert.Len(t, dev.draws, 6)
	assert.Len(t, seen, 6, "each face renders with its own view-projection")

	cubeProg := dev.programs[int(ShaderDepthCubemap)]
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cubeProg.vec3s["lightPos"])
}

func TestUpdateShadowMapErrors(t *testing.T) {
	ctx, _, log := newTestContext(t, Options{})

	ctx.UpdateShadowMap(0, func() {})
	assert.Equal(t, 1, log.errors, "shadow not enabled")

	ctx.EnableShadow(0, 512)
	ctx.UpdateShadowMap(0, nil)
	assert.Equal(t, 2, log.errors, "nil callback")

	ctx.UpdateShadowMap(77, func() {})
	assert.Equal(t, 3, log.errors, "index out of range")
}

func TestCastOutsideShadowPassRejected(t *testing.T) {
	ctx, dev, log := newTestContext(t, Options{})
	mesh := scene.CreateCube(1)

	ctx.CastMesh(mesh, mgl32.Ident4())
	assert.Equal(t, 1, log.errors)
	assert.Empty(t, dev.draws)
}
