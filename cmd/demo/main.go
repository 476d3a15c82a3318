// Demo scene: a spinning cube and a sphere on a plane, lit by a shadowed
// spot light and an orbiting omni light.
package main

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"light-engine/core"
	"light-engine/internal/opengl"
	"light-engine/lighting"
	"light-engine/scene"
	"light-engine/textures"
)

func main() {
	log := core.NewDefaultLogger("demo", true)

	win, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		log.Fatalf("window: %v", err)
		os.Exit(1)
	}
	defer win.Destroy()

	dev, err := opengl.New(log)
	if err != nil {
		log.Fatalf("device: %v", err)
		os.Exit(1)
	}
	defer dev.Destroy()

	fbW, fbH := win.GetFramebufferSize()
	dev.SetViewport(int32(fbW), int32(fbH))

	ctx, err := lighting.New(dev, lighting.Options{Lights: 2, Logger: log})
	if err != nil {
		log.Fatalf("lighting: %v", err)
		os.Exit(1)
	}
	defer ctx.Close()

	// Spot light with shadows, aimed at the scene center.
	ctx.SetLightType(0, lighting.Spot)
	ctx.SetLightPosition(0, mgl32.Vec3{4, 6, 4})
	ctx.SetLightTarget(0, mgl32.Vec3{0, 0, 0})
	ctx.SetLightCutoffs(0, 25, 35)
	ctx.SetLightValue(0, lighting.PropEnergy, 2)
	ctx.EnableShadow(0, 2048)
	ctx.EnableLight(0)

	// Orbiting omni fill light.
	ctx.SetLightType(1, lighting.Omni)
	ctx.SetLightColor(1, core.Color{R: 1, G: 0.6, B: 0.3, A: 1})
	ctx.SetLightAttenuation(1, 1, 0.14, 0.07)
	ctx.EnableLight(1)

	ctx.SetAmbientColor(core.Color{R: 0.08, G: 0.08, B: 0.1, A: 1})

	cube := scene.CreateCube(1)
	sphere := scene.CreateSphere(0.6, 32, 24)
	floor := scene.CreatePlane(12, 12, 4)

	cubeMat := scene.NewPBRMaterial("cube", core.Color{R: 0.9, G: 0.2, B: 0.2, A: 1}, 0.1, 0.4)
	sphereMat := scene.NewPBRMaterial("sphere", core.Color{R: 0.8, G: 0.8, B: 0.9, A: 1}, 1, 0.2)
	floorMat := scene.NewPBRMaterial("floor", core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}, 0, 0.8)

	if skyTex, err := textures.Load("assets/skybox.png"); err == nil {
		if err := ctx.LoadSkybox(skyTex, textures.LayoutAutoDetect); err != nil {
			log.Warnf("skybox: %v", err)
		} else if err := ctx.BakeIrradiance(32); err != nil {
			log.Warnf("irradiance: %v", err)
		}
	} else {
		log.Infof("no skybox asset, using flat ambient: %v", err)
	}

	proj := mgl32.Perspective(mgl32.DegToRad(60), float32(fbW)/float32(fbH), 0.1, 200)
	eye := mgl32.Vec3{0, 4, 9}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0})
	ctx.SetCamera(view, proj)
	ctx.SetViewPosition(eye)

	angle := float32(0)
	for !win.ShouldClose() {
		win.PollEvents()
		if win.IsKeyPressed(core.KeyEscape) {
			break
		}

		angle += 0.01
		cubeXform := mgl32.Translate3D(-1.5, 0.5, 0).Mul4(mgl32.HomogRotate3DY(angle))
		sphereXform := mgl32.Translate3D(1.5, 0.6, 0)
		floorXform := mgl32.Ident4()

		orbit := mgl32.Rotate3DY(angle * 0.7).Mul3x1(mgl32.Vec3{3, 2, 0})
		ctx.SetLightPosition(1, orbit)

		castScene := func() {
			ctx.CastMesh(cube, cubeXform)
			ctx.CastMesh(sphere, sphereXform)
			ctx.CastMesh(floor, floorXform)
		}
		ctx.UpdateShadowMap(0, castScene)

		w, h := win.GetFramebufferSize()
		dev.SetViewport(int32(w), int32(h))
		dev.Clear(core.Color{R: 0.05, G: 0.05, B: 0.08, A: 1})

		if ctx.EnvironmentMap() != 0 {
			ctx.DrawSkybox()
		}
		ctx.DrawMesh(cube, cubeMat, cubeXform)
		ctx.DrawMesh(sphere, sphereMat, sphereXform)
		ctx.DrawMesh(floor, floorMat, floorXform)

		win.SwapBuffers()
	}
}
