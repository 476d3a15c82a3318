package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"light-engine/gfx"
)

// Default depth biases. Cubemap comparisons happen in world-space distance,
// so the omni bias is much larger than the normalized 2D one.
const (
	defaultBias2D   = 0.002
	defaultBiasCube = 0.05
)

// defaultOrthoExtent is the half-width of the 2D shadow frustum when the
// light's size parameter is zero.
const defaultOrthoExtent = 10.0

// Canonical cubemap capture bases, +X -X +Y -Y +Z -Z.
var (
	cubeFaceDirs = [6]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	cubeFaceUps = [6]mgl32.Vec3{
		{0, -1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
		{0, -1, 0}, {0, -1, 0},
	}
)

// effectiveBias resolves the depth bias for a light: the explicit override
// if one was set, otherwise the default for its target kind.
func (c *Context) effectiveBias(l *light) float32 {
	if l.biasSet {
		return l.bias
	}
	if l.typ == Omni {
		return defaultBiasCube
	}
	return defaultBias2D
}

// EnableShadow allocates a shadow map for the light at the given resolution
// and enables shadow sampling for it. Omni lights get a depth cubemap,
// directional and spot lights a 2D depth map. Calling again with the same
// resolution is a no-op; a different resolution reallocates the target.
func (c *Context) EnableShadow(index int, resolution int32) {
	l := c.lightAt("EnableShadow", index)
	if l == nil {
		return
	}
	if resolution <= 0 {
		c.log.Errorf("EnableShadow: invalid resolution %d for light %d", resolution, index)
		return
	}

	wantCube := l.typ == Omni
	if l.shadowTarget != nil {
		if l.shadowTarget.Size() == resolution && l.shadowTarget.IsCube() == wantCube {
			if !l.shadow {
				l.shadow = true
				c.lp().SetInt(c.lightU[index].shadow, 1)
			}
			return
		}
		l.shadowTarget.Destroy()
		l.shadowTarget = nil
	}

	var err error
	if wantCube {
		l.shadowTarget, err = c.dev.NewDepthCubemap(resolution)
	} else {
		l.shadowTarget, err = c.dev.NewDepthMap(resolution)
	}
	if err != nil {
		c.log.Errorf("EnableShadow: light %d: %v", index, err)
		l.shadow = false
		c.lp().SetInt(c.lightU[index].shadow, 0)
		return
	}

	l.shadow = true
	u := &c.lightU[index]
	p := c.lp()
	p.SetInt(u.shadow, 1)
	p.SetFloat(u.shadowMapTxlSz, 1.0/float32(resolution))
	p.SetFloat(u.depthBias, c.effectiveBias(l))
}

// DisableShadow stops shadow sampling for the light and releases its depth
// target. A later EnableShadow allocates a fresh map.
func (c *Context) DisableShadow(index int) {
	l := c.lightAt("DisableShadow", index)
	if l == nil {
		return
	}
	if l.shadowTarget != nil {
		l.shadowTarget.Destroy()
		l.shadowTarget = nil
	}
	if !l.shadow {
		return
	}
	l.shadow = false
	c.lp().SetInt(c.lightU[index].shadow, 0)
}

// HasShadow reports whether the light currently samples a shadow map.
func (c *Context) HasShadow(index int) bool {
	l := c.lightAt("HasShadow", index)
	return l != nil && l.shadow
}

// SetShadowBias overrides the light's depth bias. The override survives
// type changes until set again.
func (c *Context) SetShadowBias(index int, bias float32) {
	l := c.lightAt("SetShadowBias", index)
	if l == nil {
		return
	}
	l.bias = bias
	l.biasSet = true
	c.lp().SetFloat(c.lightU[index].depthBias, bias)
}

// ShadowBias returns the light's effective depth bias.
func (c *Context) ShadowBias(index int) float32 {
	l := c.lightAt("ShadowBias", index)
	if l == nil {
		return 0
	}
	return c.effectiveBias(l)
}

// ShadowResolution returns the light's shadow map resolution, 0 if none is
// allocated.
func (c *Context) ShadowResolution(index int) int32 {
	l := c.lightAt("ShadowResolution", index)
	if l == nil || l.shadowTarget == nil {
		return 0
	}
	return l.shadowTarget.Size()
}

// ShadowMapTexture exposes the light's depth texture, 0 if none is
// allocated. Useful for debug visualization.
func (c *Context) ShadowMapTexture(index int) gfx.TextureID {
	l := c.lightAt("ShadowMapTexture", index)
	if l == nil || l.shadowTarget == nil {
		return 0
	}
	return l.shadowTarget.Texture()
}

// UpdateShadowMap re-renders the light's shadow map. drawScene must issue
// the casting geometry through CastMesh/CastModel; those route through the
// depth program selected here. Directional and spot lights render one
// orthographic pass and store its view-projection for the lighting stage;
// omni lights render six perspective faces writing world-space distance.
func (c *Context) UpdateShadowMap(index int, drawScene func()) {
	l := c.lightAt("UpdateShadowMap", index)
	if l == nil {
		return
	}
	if !l.shadow || l.shadowTarget == nil {
		c.log.Errorf("UpdateShadowMap: light %d has no shadow map enabled", index)
		return
	}
	if drawScene == nil {
		c.log.Errorf("UpdateShadowMap: nil scene callback for light %d", index)
		return
	}

	if l.typ == Omni {
		proj := mgl32.Perspective(mgl32.DegToRad(90), 1, c.shadowNear, c.shadowFar)

		p := c.programs[ShaderDepthCubemap]
		p.Use()
		p.SetVec3(c.cubeLightPos, l.position)
		p.SetFloat(c.cubeFarPlane, c.shadowFar)

		c.capture = captureCube
		l.shadowTarget.Begin()
		for face := 0; face < 6; face++ {
			view := mgl32.LookAtV(l.position,
				l.position.Add(cubeFaceDirs[face]), cubeFaceUps[face])
			c.captureVP = proj.Mul4(view)
			l.shadowTarget.BeginFace(face)
			drawScene()
		}
		l.shadowTarget.End()
		c.capture = captureNone
		return
	}

	extent := float32(defaultOrthoExtent)
	if l.size > 0 {
		extent = l.size
	}
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(l.direction.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(l.position, l.position.Add(l.direction), up)
	proj := mgl32.Ortho(-extent, extent, -extent, extent, c.shadowNear, c.shadowFar)
	l.vp = proj.Mul4(view)
	c.lp().SetMat4(c.lightU[index].vp, l.vp)

	c.programs[ShaderDepth].Use()
	c.capture = capture2D
	c.captureVP = l.vp
	l.shadowTarget.Begin()
	drawScene()
	l.shadowTarget.End()
	c.capture = captureNone
}
