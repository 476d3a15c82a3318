package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"light-engine/core"
	"light-engine/scene"
)

func texturedMaterial(ch scene.MapIndex, id uint32) *scene.Material {
	tex := scene.NewSolidTexture("t", 128, 128, 128, 255)
	tex.ID = id
	mat := scene.DefaultMaterial()
	mat.Maps[ch].Texture = tex
	return mat
}

func TestDrawMeshBindsChannelUnits(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	mat := texturedMaterial(scene.MapAlbedo, 11)
	normalTex := scene.NewSolidTexture("n", 128, 128, 255, 255)
	normalTex.ID = 12
	mat.Maps[scene.MapNormal].Texture = normalTex

	mesh := scene.CreateCube(1)
	ctx.DrawMesh(mesh, mat, mgl32.Ident4())

	assert.Equal(t, int32(1), p.ints["maps[0].active"])
	assert.Equal(t, int32(1), p.ints["maps[2].active"])
	assert.Equal(t, int32(0), p.ints["maps[5].active"], "no emission texture")
	require.Len(t, dev.draws, 1)
	assert.Same(t, mesh, dev.draws[0].mesh)

	// Symmetric unbind leaves the units cleared.
	assert.Zero(t, dev.bind2D[int32(scene.MapAlbedo)])
	assert.Zero(t, dev.bind2D[int32(scene.MapNormal)])
}

func TestDrawMeshPushesMatrices(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)
	ctx.SetCamera(view, proj)

	model := mgl32.Translate3D(1, 2, 3)
	ctx.DrawMesh(scene.CreateCube(1), nil, model)

	want := proj.Mul4(view).Mul4(model)
	assert.Equal(t, want, p.mats["mvp[0]"])
	assert.Equal(t, want, p.mats["mvp[1]"], "mono duplicates the eye matrices")
	assert.Equal(t, model, p.mats["matModel"])
	assert.Equal(t, model.Inv().Transpose(), p.mats["matNormal"])
	assert.Equal(t, int32(1), dev.draws[0].instances)
}

func TestStereoDrawsInstancedPerEye(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	left := mgl32.Translate3D(-0.03, 0, 0)
	right := mgl32.Translate3D(0.03, 0, 0)
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	ctx.SetStereoCamera([2]mgl32.Mat4{left, right}, [2]mgl32.Mat4{proj, proj})

	ctx.DrawMesh(scene.CreateCube(1), nil, mgl32.Ident4())

	assert.Equal(t, int32(2), dev.draws[0].instances, "one instance per eye")
	assert.NotEqual(t, p.mats["mvp[0]"], p.mats["mvp[1]"])

	// Dropping back to mono restores single-instance draws.
	ctx.SetCamera(left, proj)
	ctx.DrawMesh(scene.CreateCube(1), nil, mgl32.Ident4())
	assert.Equal(t, int32(1), dev.draws[1].instances)
}

func TestDrawModelExTintsAlbedoForTheDraw(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})
	p := dev.lightingProg()

	model := &scene.Model{
		Name:         "m",
		Meshes:       []*scene.Mesh{scene.CreateCube(1)},
		Materials:    []*scene.Material{scene.DefaultMaterial()},
		MeshMaterial: []int{0},
	}

	ctx.DrawModelEx(model, mgl32.Ident4(), core.Color{R: 1, G: 0.5, B: 0, A: 1})
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, p.vec4s["maps[0].color"])

	// The model's own material is untouched.
	assert.Equal(t, core.ColorWhite, model.Materials[0].Maps[scene.MapAlbedo].Color)

	ctx.DrawModel(model, mgl32.Ident4())
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, p.vec4s["maps[0].color"])
	assert.Len(t, dev.draws, 2)
}

func TestDrawBindsShadowMapsOnDedicatedUnits(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{Lights: 2})

	ctx.EnableShadow(0, 512) // directional, 2D
	ctx.SetLightType(1, Omni)
	ctx.EnableShadow(1, 256) // cubemap

	ctx.DrawMesh(scene.CreateCube(1), nil, mgl32.Ident4())

	assert.Zero(t, dev.bind2D[shadowUnit2D(0)], "2D shadow unit cleared after draw")
	assert.Zero(t, dev.bindCube[shadowUnitCube(1)], "cube shadow unit cleared after draw")
	_, has2D := dev.bind2D[shadowUnit2D(0)]
	_, hasCube := dev.bindCube[shadowUnitCube(1)]
	assert.True(t, has2D, "2D shadow unit was touched")
	assert.True(t, hasCube, "cube shadow unit was touched")
}

func TestDrawMeshNilArguments(t *testing.T) {
	ctx, dev, log := newTestContext(t, Options{})

	ctx.DrawMesh(nil, nil, mgl32.Ident4())
	assert.Equal(t, 1, log.errors)
	assert.Empty(t, dev.draws)

	ctx.DrawModel(nil, mgl32.Ident4())
	assert.Equal(t, 2, log.errors)

	ctx.CastModel(nil, mgl32.Ident4())
	assert.Equal(t, 3, log.errors)
}

func TestModelMaterialFallback(t *testing.T) {
	ctx, dev, _ := newTestContext(t, Options{})

	// A model with no material table still draws with scene defaults.
	model := &scene.Model{
		Name:   "bare",
		Meshes: []*scene.Mesh{scene.CreateCube(1), scene.CreateSphere(1, 8, 6)},
	}
	ctx.DrawModel(model, mgl32.Ident4())
	assert.Len(t, dev.draws, 2)
}
