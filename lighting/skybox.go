package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"light-engine/gfx"
	"light-engine/scene"
	"light-engine/textures"
)

type skyState struct {
	cube       *scene.Mesh
	env        gfx.TextureID
	irradiance gfx.TextureID
}

// skyCube lazily builds the shared inward-wound unit cube used by the
// backdrop draw and the bake passes.
func (c *Context) skyCube() *scene.Mesh {
	if c.sky.cube == nil {
		c.sky.cube = scene.CreateSkyboxCube()
	}
	return c.sky.cube
}

// LoadSkybox slices a packed cubemap image into six faces, uploads them and
// wires the result into the environment map channel. Layout AutoDetect
// resolves the packing from the image's aspect ratio.
func (c *Context) LoadSkybox(tex *scene.Texture, layout textures.CubemapLayout) error {
	if tex == nil {
		return fmt.Errorf("load skybox: nil texture")
	}
	faces, err := textures.ExtractCubemapFaces(tex, layout, 0)
	if err != nil {
		return fmt.Errorf("load skybox: %w", err)
	}
	env, err := c.dev.UploadCubemap(faces)
	if err != nil {
		return fmt.Errorf("load skybox: %w", err)
	}
	c.installEnvironment(env)
	return nil
}

// LoadSkyboxHDR bakes an equirectangular panorama into a float cubemap of
// the given face size and installs it as the environment map.
func (c *Context) LoadSkyboxHDR(tex *scene.Texture, faceSize int32) error {
	if tex == nil {
		return fmt.Errorf("load skybox hdr: nil texture")
	}
	if faceSize <= 0 {
		return fmt.Errorf("load skybox hdr: invalid face size %d", faceSize)
	}
	if c.programs[ShaderEquirect] == nil {
		return fmt.Errorf("load skybox hdr: equirect program unavailable")
	}
	if tex.ID == 0 {
		if err := c.dev.UploadTexture(tex); err != nil {
			return fmt.Errorf("load skybox hdr: %w", err)
		}
	}

	env, err := c.dev.NewColorCubemap(faceSize, true)
	if err != nil {
		return fmt.Errorf("load skybox hdr: %w", err)
	}

	cube := c.skyCube()
	p := c.programs[ShaderEquirect]
	p.Use()
	c.dev.BindTexture2D(0, gfx.TextureID(tex.ID))
	err = c.dev.CaptureCubemap(env, faceSize, func(face int) {
		p.SetMat4(c.equirectVP, captureFaceVP(face))
		c.dev.Draw(cube, 1)
	})
	c.dev.BindTexture2D(0, 0)
	if err != nil {
		c.dev.DeleteTexture(env)
		return fmt.Errorf("load skybox hdr: %w", err)
	}

	c.installEnvironment(env)
	return nil
}

// BakeIrradiance convolves the installed environment map into a diffuse
// irradiance cubemap and wires it into the irradiance channel, replacing
// the flat ambient term.
func (c *Context) BakeIrradiance(faceSize int32) error {
	if c.sky.env == 0 {
		return fmt.Errorf("bake irradiance: no environment map loaded")
	}
	if faceSize <= 0 {
		return fmt.Errorf("bake irradiance: invalid face size %d", faceSize)
	}
	if c.programs[ShaderIrradiance] == nil {
		return fmt.Errorf("bake irradiance: irradiance program unavailable")
	}

	irr, err := c.dev.NewColorCubemap(faceSize, true)
	if err != nil {
		return fmt.Errorf("bake irradiance: %w", err)
	}

	cube := c.skyCube()
	p := c.programs[ShaderIrradiance]
	p.Use()
	c.dev.BindCubemap(0, c.sky.env)
	err = c.dev.CaptureCubemap(irr, faceSize, func(face int) {
		p.SetMat4(c.irradianceVP, captureFaceVP(face))
		c.dev.Draw(cube, 1)
	})
	c.dev.BindCubemap(0, 0)
	if err != nil {
		c.dev.DeleteTexture(irr)
		return fmt.Errorf("bake irradiance: %w", err)
	}

	if c.sky.irradiance != 0 {
		c.dev.DeleteTexture(c.sky.irradiance)
	}
	c.sky.irradiance = irr
	c.SetMapTexture(scene.MapIrradiance, irr)
	c.UseMap(scene.MapIrradiance, true)
	return nil
}

// DrawSkybox renders the environment map as the frame backdrop. The view's
// translation is stripped so the box stays centered on the camera; depth is
// forced to the far plane so scene geometry always wins.
func (c *Context) DrawSkybox() {
	if c.sky.env == 0 {
		c.log.Errorf("DrawSkybox: no environment map loaded")
		return
	}
	p := c.programs[ShaderSkybox]
	if p == nil {
		c.log.Errorf("DrawSkybox: skybox program unavailable")
		return
	}

	rot := c.view.Mat3().Mat4()
	p.Use()
	p.SetMat4(c.skyVP, c.proj.Mul4(rot))

	c.dev.BeginBackdrop()
	c.dev.BindCubemap(0, c.sky.env)
	c.dev.Draw(c.skyCube(), 1)
	c.dev.BindCubemap(0, 0)
	c.dev.EndBackdrop()
}

// UnloadSkybox releases the environment and irradiance cubemaps and clears
// their map channels. Safe to call with nothing loaded.
func (c *Context) UnloadSkybox() {
	if c.sky.env != 0 {
		c.dev.DeleteTexture(c.sky.env)
		c.sky.env = 0
	}
	if c.sky.irradiance != 0 {
		c.dev.DeleteTexture(c.sky.irradiance)
		c.sky.irradiance = 0
	}
	if c.sky.cube != nil {
		c.dev.ReleaseMesh(c.sky.cube)
		c.sky.cube = nil
	}
	c.SetMapTexture(scene.MapCubemap, 0)
	c.UseMap(scene.MapCubemap, false)
	c.SetMapTexture(scene.MapIrradiance, 0)
	c.UseMap(scene.MapIrradiance, false)
}

// EnvironmentMap returns the installed environment cubemap, 0 if none.
func (c *Context) EnvironmentMap() gfx.TextureID { return c.sky.env }

// IrradianceMap returns the baked irradiance cubemap, 0 if none.
func (c *Context) IrradianceMap() gfx.TextureID { return c.sky.irradiance }

func (c *Context) installEnvironment(env gfx.TextureID) {
	if c.sky.env != 0 {
		c.dev.DeleteTexture(c.sky.env)
	}
	c.sky.env = env
	c.SetMapTexture(scene.MapCubemap, env)
	c.UseMap(scene.MapCubemap, true)
}

// captureFaceVP is the view-projection for rendering one cubemap face from
// the origin with a 90 degree frustum.
func captureFaceVP(face int) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 10)
	view := mgl32.LookAtV(mgl32.Vec3{}, cubeFaceDirs[face], cubeFaceUps[face])
	return proj.Mul4(view)
}
