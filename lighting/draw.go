package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"light-engine/core"
	"light-engine/gfx"
	"light-engine/scene"
)

func shadowUnit2D(i int) int32   { return shadowUnitBase + int32(2*i) }
func shadowUnitCube(i int) int32 { return shadowUnitBase + int32(2*i) + 1 }

func colorVec4(c core.Color) mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// cubeChannel reports whether a map channel holds a cubemap texture.
func cubeChannel(ch scene.MapIndex) bool {
	return ch == scene.MapCubemap || ch == scene.MapIrradiance || ch == scene.MapPrefilter
}

// DrawMesh renders one mesh with the lighting program. A nil material draws
// with scene defaults. Inside an UpdateShadowMap callback the call routes to
// the active depth pass instead, so scene callbacks can share draw code.
func (c *Context) DrawMesh(mesh *scene.Mesh, mat *scene.Material, transform mgl32.Mat4) {
	if mesh == nil {
		c.log.Errorf("DrawMesh: nil mesh")
		return
	}
	if c.capture != captureNone {
		c.CastMesh(mesh, transform)
		return
	}
	if mat == nil {
		mat = scene.DefaultMaterial()
	}

	p := c.lp()
	p.SetMat4(c.u.mvp[0], c.mvp[0].Mul4(transform))
	p.SetMat4(c.u.mvp[1], c.mvp[1].Mul4(transform))
	p.SetMat4(c.u.matModel, transform)
	p.SetMat4(c.u.matNormal, transform.Inv().Transpose())

	bound := c.applyMaterial(p, mat)
	c.bindShadowMaps()

	c.dev.Draw(mesh, c.eyes)

	c.unbindShadowMaps()
	c.unbindMaterial(bound)
}

// DrawModel renders every mesh of a model with its own material.
func (c *Context) DrawModel(model *scene.Model, transform mgl32.Mat4) {
	c.DrawModelEx(model, transform, core.ColorWhite)
}

// DrawModelEx renders a model with an albedo tint multiplied into each
// material for the duration of the draw.
func (c *Context) DrawModelEx(model *scene.Model, transform mgl32.Mat4, tint core.Color) {
	if model == nil {
		c.log.Errorf("DrawModelEx: nil model")
		return
	}
	for i := range model.Meshes {
		mat := model.MaterialFor(i)
		if tint != core.ColorWhite {
			tinted := *mat
			tinted.Maps[scene.MapAlbedo].Color = mat.Maps[scene.MapAlbedo].Color.Mul(tint)
			mat = &tinted
		}
		c.DrawMesh(model.Meshes[i], mat, transform)
	}
}

// CastMesh renders one mesh into the shadow map pass started by
// UpdateShadowMap. Outside a shadow pass the call is rejected.
func (c *Context) CastMesh(mesh *scene.Mesh, transform mgl32.Mat4) {
	if mesh == nil {
		c.log.Errorf("CastMesh: nil mesh")
		return
	}
	if c.capture == captureNone {
		c.log.Errorf("CastMesh: no shadow pass active")
		return
	}

	var p gfx.Program
	var mvpLoc, modelLoc int32
	if c.capture == captureCube {
		p = c.programs[ShaderDepthCubemap]
		mvpLoc, modelLoc = c.cubeMVP, c.cubeModel
	} else {
		p = c.programs[ShaderDepth]
		mvpLoc, modelLoc = c.depthMVP, c.depthModel
	}
	p.Use()
	p.SetMat4(mvpLoc, c.captureVP.Mul4(transform))
	p.SetMat4(modelLoc, transform)
	c.dev.Draw(mesh, 1)
}

// CastModel renders every mesh of a model into the active shadow pass.
func (c *Context) CastModel(model *scene.Model, transform mgl32.Mat4) {
	if model == nil {
		c.log.Errorf("CastModel: nil model")
		return
	}
	for _, mesh := range model.Meshes {
		c.CastMesh(mesh, transform)
	}
}

// applyMaterial resolves each map channel against the context table and
// pushes its per-draw uniforms: the material's texture wins, the table's
// fallback texture covers gaps, and forced defaults override the material's
// constants. Returns the units bound so the draw can unbind symmetrically.
func (c *Context) applyMaterial(p gfx.Program, mat *scene.Material) []int32 {
	var bound []int32

	for ch := scene.MapIndex(0); int(ch) < scene.MapCount-1; ch++ {
		entry := &c.maps[ch]
		u := &c.mapU[ch]

		var tex gfx.TextureID
		if mm := mat.Maps[ch]; mm.Texture != nil && mm.Texture.ID != 0 {
			tex = gfx.TextureID(mm.Texture.ID)
		} else if entry.texture != 0 {
			tex = entry.texture
		}

		color := mat.Maps[ch].Color
		value := mat.Maps[ch].Value
		if entry.useDefault {
			color = entry.color
			value = entry.value
		}
		p.SetVec4(u.color, colorVec4(color))
		p.SetFloat(u.value, value)

		active := int32(0)
		if entry.enabled && tex != 0 {
			active = 1
			unit := int32(ch)
			if cubeChannel(ch) {
				c.dev.BindCubemap(unit, tex)
			} else {
				c.dev.BindTexture2D(unit, tex)
			}
			bound = append(bound, unit)
		}
		p.SetInt(u.active, active)
	}

	p.SetFloat(c.u.lightAffect, mat.LightAffect)
	return bound
}

func (c *Context) unbindMaterial(bound []int32) {
	for _, unit := range bound {
		if cubeChannel(scene.MapIndex(unit)) {
			c.dev.BindCubemap(unit, 0)
		} else {
			c.dev.BindTexture2D(unit, 0)
		}
	}
}

func (c *Context) bindShadowMaps() {
	for i := range c.lights {
		t := c.lights[i].shadowTarget
		if t == nil || !c.lights[i].shadow {
			continue
		}
		if t.IsCube() {
			c.dev.BindCubemap(shadowUnitCube(i), t.Texture())
		} else {
			c.dev.BindTexture2D(shadowUnit2D(i), t.Texture())
		}
	}
}

func (c *Context) unbindShadowMaps() {
	for i := range c.lights {
		t := c.lights[i].shadowTarget
		if t == nil || !c.lights[i].shadow {
			continue
		}
		if t.IsCube() {
			c.dev.BindCubemap(shadowUnitCube(i), 0)
		} else {
			c.dev.BindTexture2D(shadowUnit2D(i), 0)
		}
	}
}
