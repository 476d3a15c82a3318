package lighting

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"light-engine/core"
)

func TestLightDefaults(t *testing.T) {
	ctx, _, _ := newTestContext(t, Options{Lights: 3})

	for i := 0; i < 3; i++ {
		assert.False(t, ctx.IsLightEnabled(i))
		assert.Equal(t, Directional, ctx.GetLightType(i))
		assert.Equal(t, core.ColorWhite, ctx.LightColor(i))
		assert.Equal(t, float32(1), ctx.LightValue(i, PropEnergy))
		assert.Equal(t, float32(1), ctx.LightValue(i, PropAttenuationConstant))
	}
}

func TestToggleLight(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	ctx.ToggleLight(1)
	assert.True(t, ctx.IsLightEnabled(1))
	assert.Equal(t, int32(1), p.ints["lights[1].enabled"])

	ctx.ToggleLight(1)
	assert.False(t, ctx.IsLightEnabled(1))
	assert.Equal(t, int32(0), p.ints["lights[1].enabled"])

	ctx.EnableLight(0)
	assert.True(t, ctx.IsLightEnabled(0))
	ctx.DisableLight(0)
	assert.False(t, ctx.IsLightEnabled(0))
}

func TestOutOfRangeIndexLogsOnceAndNoops(t *testing.T) {
	ctx, dev, log := newTestContext(t, Options{Lights: 4})
	p := dev.lightingProg()

	before := p.vec3s["lights[3].position"]
	ctx.SetLightPosition(4, mgl32.Vec3{9, 9, 9})
	assert.Equal(t, 1, log.errors, "exactly one error per bad call")
	assert.Equal(t, before, p.vec3s["lights[3].position"])

	assert.Equal(t, mgl32.Vec3{}, ctx.LightPosition(-1))
	assert.Equal(t, 2, log.errors)

	assert.Equal(t, float32(0), ctx.LightValue(100, PropEnergy))
	assert.Equal(t, 3, log.errors)
}

func TestCutoffDegreesRoundTrip(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	ctx.SetLightValue(0, PropInnerCutoff, 33.5)
	assert.InDelta(t, 33.5, ctx.LightValue(0, PropInnerCutoff), 1e-3)
	assert.InDelta(t, math32.Cos(33.5*math32.Pi/180), p.floats["lights[0].innerCutOff"], 1e-6,
		"uniform carries the cosine, not degrees")

	ctx.SetLightCutoffs(0, 20, 25)
	assert.InDelta(t, 20, ctx.LightValue(0, PropInnerCutoff), 1e-3)
	assert.InDelta(t, 25, ctx.LightValue(0, PropOuterCutoff), 1e-3)
}

func TestScalarPropertiesSyncUniforms(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	ctx.SetLightValue(0, PropEnergy, 2.5)
	assert.Equal(t, float32(2.5), p.floats["lights[0].energy"])

	ctx.SetLightValue(0, PropSpecular, 0.7)
	assert.Equal(t, float32(0.7), p.floats["lights[0].specular"])

	// Each attenuation coefficient updates independently.
	ctx.SetLightValue(0, PropAttenuationConstant, 2)
	assert.Equal(t, float32(2), p.floats["lights[0].constant"])
	assert.Equal(t, float32(0.09), p.floats["lights[0].linear"],
		"constant update must not touch linear")

	ctx.SetLightAttenuation(0, 1, 0.2, 0.04)
	assert.Equal(t, float32(1), p.floats["lights[0].constant"])
	assert.Equal(t, float32(0.2), p.floats["lights[0].linear"])
	assert.Equal(t, float32(0.04), p.floats["lights[0].quadratic"])
	assert.Equal(t, float32(0.2), ctx.LightValue(0, PropAttenuationLinear))
}

func TestSetLightDirectionNormalizes(t *testing.T) {
	ctx, _, log := newTestContext(t, Options{})

	ctx.SetLightDirection(0, mgl32.Vec3{0, 0, -5})
	assert.InDelta(t, 1, float64(ctx.LightDirection(0).Len()), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, ctx.LightDirection(0))

	before := ctx.LightDirection(0)
	ctx.SetLightDirection(0, mgl32.Vec3{})
	assert.Equal(t, 1, log.errors)
	assert.Equal(t, before, ctx.LightDirection(0))
}

func TestSetLightTarget(t *testing.T) {
	ctx, _, log := newTestContext(t, Options{})

	ctx.SetLightPosition(0, mgl32.Vec3{0, 10, 0})
	ctx.SetLightTarget(0, mgl32.Vec3{0, 0, 0})
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, ctx.LightDirection(0))
	assert.Equal(t, mgl32.Vec3{0, 9, 0}, ctx.LightTarget(0))

	// A target on the light itself cannot define a direction.
	ctx.SetLightTarget(0, mgl32.Vec3{0, 10, 0})
	assert.Equal(t, 1, log.errors)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, ctx.LightDirection(0))
}

func TestTranslateLight(t *testing.T) {
	ctx, dev, log := newTestContext(t, Options{})
	p := dev.lightingProg()

	ctx.SetLightPosition(0, mgl32.Vec3{1, 2, 3})
	ctx.TranslateLight(0, mgl32.Vec3{-1, 0, 4})
	assert.Equal(t, mgl32.Vec3{0, 2, 7}, ctx.LightPosition(0))
	assert.Equal(t, mgl32.Vec3{0, 2, 7}, p.vec3s["lights[0].position"])

	ctx.TranslateLight(9, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, 1, log.errors)
}

func TestRotateLight(t *testing.T) {
	ctx, _, _ := newTestContext(t, Options{})

	ctx.SetLightDirection(0, mgl32.Vec3{0, 0, -1})
	ctx.RotateLightY(0, 90)
	dir := ctx.LightDirection(0)
	assert.InDelta(t, -1, dir.X(), 1e-5)
	assert.InDelta(t, 0, dir.Y(), 1e-5)
	assert.InDelta(t, 0, dir.Z(), 1e-5)

	ctx.SetLightDirection(0, mgl32.Vec3{0, -1, 0})
	ctx.RotateLightX(0, 90)
	dir = ctx.LightDirection(0)
	assert.InDelta(t, 1, float64(dir.Len()), 1e-5, "rotation preserves unit length")
}

func TestSetLightTypeRebuildsShadowTarget(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	ctx.SetLightType(0, Spot)
	ctx.EnableShadow(0, 512)
	require.Len(t, dev.depths, 1)
	first := dev.depths[0]
	assert.False(t, first.cube)

	// Spot to omni swaps the 2D map for a cubemap at the same resolution.
	ctx.SetLightType(0, Omni)
	require.Len(t, dev.depths, 2)
	assert.True(t, first.destroyed)
	second := dev.depths[1]
	assert.True(t, second.cube)
	assert.Equal(t, int32(512), second.size)
	assert.True(t, ctx.HasShadow(0))
	assert.Equal(t, int32(1), dev.lightingProg().ints["lights[0].type"])

	// Omni to spot swaps back to a 2D map.
	ctx.SetLightType(0, Spot)
	require.Len(t, dev.depths, 3)
	assert.True(t, second.destroyed)
	assert.False(t, dev.depths[2].cube)
}

func TestSetLightTypeWithoutShadowDoesNotAllocate(t *testing.T) {
	ctx, dev, log := newTestContext(t, Options{})

	ctx.SetLightType(0, Omni)
	assert.Empty(t, dev.depths)
	assert.Equal(t, Omni, ctx.GetLightType(0))

	ctx.SetLightType(0, LightType(9))
	assert.Equal(t, 1, log.errors)
	assert.Equal(t, Omni, ctx.GetLightType(0))
}
