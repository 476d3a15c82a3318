package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"light-engine/scene"
	"light-engine/textures"
)

// crossTexture builds a 4x3 horizontal-cross cubemap image with 2x2 cells.
func crossTexture() *scene.Texture {
	return &scene.Texture{
		Name:   "cross",
		Width:  8,
		Height: 6,
		Pixels: make([]byte, 8*6*4),
	}
}

func TestLoadSkyboxInstallsEnvironment(t *testing.T) {
	ctx, _, _ := newTestContext(t, Options{})

	err := ctx.LoadSkybox(crossTexture(), textures.LayoutAutoDetect)
	require.NoError(t, err)

	env := ctx.EnvironmentMap()
	assert.NotZero(t, env)
	assert.True(t, ctx.MapEnabled(scene.MapCubemap))
	assert.Equal(t, env, ctx.MapTexture(scene.MapCubemap))
}

func TestLoadSkyboxRejectsNil(t *testing.T) {
	ctx, _, _ := newTestContext(t, Options{})
	assert.Error(t, ctx.LoadSkybox(nil, textures.LayoutAutoDetect))
	assert.Zero(t, ctx.EnvironmentMap())
}

func TestLoadSkyboxHDRBakesSixFaces(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	pano := &scene.Texture{Name: "pano", Width: 16, Height: 8, Pixels: make([]byte, 16*8*4)}
	err := ctx.LoadSkyboxHDR(pano, 64)
	require.NoError(t, err)

	assert.NotZero(t, pano.ID, "panorama uploaded on demand")
	assert.Equal(t, 1, dev.captures)
	assert.Len(t, dev.draws, 6, "one cube draw per face")
	assert.NotZero(t, ctx.EnvironmentMap())
	assert.True(t, ctx.MapEnabled(scene.MapCubemap))

	assert.Error(t, ctx.LoadSkyboxHDR(pano, 0))
	assert.Error(t, ctx.LoadSkyboxHDR(nil, 64))
}

func TestBakeIrradiance(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	assert.Error(t, ctx.BakeIrradiance(32), "needs an environment map first")

	require.NoError(t, ctx.LoadSkybox(crossTexture(), textures.LayoutCross4x3))
	require.NoError(t, ctx.BakeIrradiance(32))

	assert.NotZero(t, ctx.IrradianceMap())
	assert.True(t, ctx.MapEnabled(scene.MapIrradiance))
	assert.Equal(t, ctx.IrradianceMap(), ctx.MapTexture(scene.MapIrradiance))
	assert.Equal(t, 1, dev.captures)

	// Rebaking replaces the old cubemap.
	old := ctx.IrradianceMap()
	require.NoError(t, ctx.BakeIrradiance(32))
	assert.Contains(t, dev.deleted, old)
}

func TestDrawSkybox(t *testing.T) {
	ctx, dev, log := newTestContext(t, Options{})

	ctx.DrawSkybox()
	assert.Equal(t, 1, log.errors, "nothing loaded yet")
	assert.Zero(t, dev.backdrops)

	require.NoError(t, ctx.LoadSkybox(crossTexture(), textures.LayoutAutoDetect))
	ctx.DrawSkybox()
	assert.Equal(t, 1, dev.backdrops)
	require.NotEmpty(t, dev.draws)
	assert.Equal(t, int32(1), dev.draws[len(dev.draws)-1].instances)
	assert.Zero(t, dev.bindCube[0], "environment unbound after the draw")
}

func TestUnloadSkyboxClearsChannels(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	require.NoError(t, ctx.LoadSkybox(crossTexture(), textures.LayoutAutoDetect))
	require.NoError(t, ctx.BakeIrradiance(16))
	env := ctx.EnvironmentMap()
	irr := ctx.IrradianceMap()

	ctx.UnloadSkybox()
	assert.Zero(t, ctx.EnvironmentMap())
	assert.Zero(t, ctx.IrradianceMap())
	assert.False(t, ctx.MapEnabled(scene.MapCubemap))
	assert.False(t, ctx.MapEnabled(scene.MapIrradiance))
	assert.Contains(t, dev.deleted, env)
	assert.Contains(t, dev.deleted, irr)

	ctx.UnloadSkybox() // second call is harmless
}

func TestReplacingEnvironmentDeletesOld(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	require.NoError(t, ctx.LoadSkybox(crossTexture(), textures.LayoutAutoDetect))
	old := ctx.EnvironmentMap()
	require.NoError(t, ctx.LoadSkybox(crossTexture(), textures.LayoutAutoDetect))
	assert.Contains(t, dev.deleted, old)
	assert.NotEqual(t, old, ctx.EnvironmentMap())
}
