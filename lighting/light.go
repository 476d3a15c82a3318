package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"light-engine/core"
	"light-engine/gfx"
)

// LightType selects the illumination model of a registry slot.
type LightType int32

const (
	Directional LightType = iota
	Omni
	Spot
)

func (t LightType) String() string {
	switch t {
	case Directional:
		return "directional"
	case Omni:
		return "omni"
	case Spot:
		return "spot"
	}
	return "unknown"
}

// LightProperty names a scalar light parameter for the generic accessors.
type LightProperty int

const (
	PropEnergy LightProperty = iota
	PropSpecular
	PropSize
	// Cutoff properties are set and read in degrees; the registry stores
	// and uploads their cosines.
	PropInnerCutoff
	PropOuterCutoff
	PropAttenuationConstant
	PropAttenuationLinear
	PropAttenuationQuadratic
	PropShadowBias
)

type light struct {
	enabled   bool
	typ       LightType
	position  mgl32.Vec3
	direction mgl32.Vec3
	color     core.Color
	energy    float32
	specular  float32
	size      float32
	innerCos  float32
	outerCos  float32
	constant  float32
	linear    float32
	quadratic float32

	shadow       bool
	shadowTarget gfx.DepthTarget
	bias         float32
	biasSet      bool
	vp           mgl32.Mat4
}

// initLights installs per-slot defaults and uploads the full light array.
func (c *Context) initLights() {
	for i := range c.lights {
		c.lights[i] = light{
			typ:       Directional,
			direction: mgl32.Vec3{0, -1, 0},
			color:     core.ColorWhite,
			energy:    1,
			specular:  1,
			innerCos:  math32.Cos(12.5 * math32.Pi / 180),
			outerCos:  math32.Cos(17.5 * math32.Pi / 180),
			constant:  1,
			linear:    0.09,
			quadratic: 0.032,
			vp:        mgl32.Ident4(),
		}
		c.pushLight(i)
	}
}

// lightAt validates an index against the compiled-in capacity. Out-of-range
// access logs one error and returns nil; callers then no-op.
func (c *Context) lightAt(op string, index int) *light {
	if index < 0 || index >= len(c.lights) {
		c.log.Errorf("%s: light index %d out of range [0,%d)", op, index, len(c.lights))
		return nil
	}
	return &c.lights[index]
}

// lp binds the lighting program and returns it for uniform writes.
func (c *Context) lp() gfx.Program {
	p := c.programs[ShaderLighting]
	p.Use()
	return p
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// pushLight uploads every uniform of one light slot.
func (c *Context) pushLight(i int) {
	l := &c.lights[i]
	u := &c.lightU[i]
	p := c.lp()
	p.SetInt(u.enabled, boolInt(l.enabled))
	p.SetInt(u.typ, int32(l.typ))
	p.SetVec3(u.position, l.position)
	p.SetVec3(u.direction, l.direction)
	p.SetVec3(u.color, l.color.Vec3())
	p.SetFloat(u.energy, l.energy)
	p.SetFloat(u.specular, l.specular)
	p.SetFloat(u.size, l.size)
	p.SetFloat(u.innerCutOff, l.innerCos)
	p.SetFloat(u.outerCutOff, l.outerCos)
	p.SetFloat(u.constant, l.constant)
	p.SetFloat(u.linear, l.linear)
	p.SetFloat(u.quadratic, l.quadratic)
	p.SetInt(u.shadow, boolInt(l.shadow))
	p.SetFloat(u.depthBias, c.effectiveBias(l))
	p.SetMat4(u.vp, l.vp)
	if l.shadowTarget != nil {
		p.SetFloat(u.shadowMapTxlSz, 1.0/float32(l.shadowTarget.Size()))
	}
}

// ── Enable / disable ──────────────────────────────────────────────────────────

// EnableLight turns the light on.
func (c *Context) EnableLight(index int) { c.setLightEnabled("EnableLight", index, true) }

// DisableLight turns the light off. Its parameters and shadow resources are
// retained.
func (c *Context) DisableLight(index int) { c.setLightEnabled("DisableLight", index, false) }

// ToggleLight flips the light's enabled state.
func (c *Context) ToggleLight(index int) {
	l := c.lightAt("ToggleLight", index)
	if l == nil {
		return
	}
	l.enabled = !l.enabled
	c.lp().SetInt(c.lightU[index].enabled, boolInt(l.enabled))
}

// IsLightEnabled reports whether the light is on. Out of range reads false.
func (c *Context) IsLightEnabled(index int) bool {
	l := c.lightAt("IsLightEnabled", index)
	return l != nil && l.enabled
}

func (c *Context) setLightEnabled(op string, index int, enabled bool) {
	l := c.lightAt(op, index)
	if l == nil {
		return
	}
	l.enabled = enabled
	c.lp().SetInt(c.lightU[index].enabled, boolInt(enabled))
}

// ── Type ─────────────────────────────────────────────────────────────────────

// SetLightType changes the light's illumination model. If a shadow map is
// allocated and the new type needs a different target kind (cubemap for
// omni, 2D otherwise) the map is reallocated at the same resolution.
func (c *Context) SetLightType(index int, typ LightType) {
	if typ < Directional || typ > Spot {
		c.log.Errorf("SetLightType: invalid light type %d", typ)
		return
	}
	l := c.lightAt("SetLightType", index)
	if l == nil {
		return
	}
	if l.typ == typ {
		return
	}
	l.typ = typ
	c.lp().SetInt(c.lightU[index].typ, int32(typ))

	if l.shadowTarget != nil && l.shadowTarget.IsCube() != (typ == Omni) {
		size := l.shadowTarget.Size()
		l.shadowTarget.Destroy()
		l.shadowTarget = nil
		l.shadow = false
		c.EnableShadow(index, size)
	} else if l.shadow {
		// Bias floor differs per target kind; re-resolve unless overridden.
		c.lp().SetFloat(c.lightU[index].depthBias, c.effectiveBias(l))
	}
}

// GetLightType returns the light's type. Out of range reads Directional.
func (c *Context) GetLightType(index int) LightType {
	l := c.lightAt("GetLightType", index)
	if l == nil {
		return Directional
	}
	return l.typ
}

// ── Vector parameters ─────────────────────────────────────────────────────────

// SetLightPosition moves the light. Meaningful for omni and spot lights;
// directional lights ignore position except as a shadow frustum anchor.
func (c *Context) SetLightPosition(index int, pos mgl32.Vec3) {
	l := c.lightAt("SetLightPosition", index)
	if l == nil {
		return
	}
	l.position = pos
	c.lp().SetVec3(c.lightU[index].position, pos)
}

// TranslateLight moves the light's position by delta.
func (c *Context) TranslateLight(index int, delta mgl32.Vec3) {
	l := c.lightAt("TranslateLight", index)
	if l == nil {
		return
	}
	l.position = l.position.Add(delta)
	c.lp().SetVec3(c.lightU[index].position, l.position)
}

// LightPosition returns the light's world position.
func (c *Context) LightPosition(index int) mgl32.Vec3 {
	l := c.lightAt("LightPosition", index)
	if l == nil {
		return mgl32.Vec3{}
	}
	return l.position
}

// SetLightDirection sets the light's facing. The vector is normalized before
// storage; a zero vector is rejected.
func (c *Context) SetLightDirection(index int, dir mgl32.Vec3) {
	l := c.lightAt("SetLightDirection", index)
	if l == nil {
		return
	}
	if dir.LenSqr() == 0 {
		c.log.Errorf("SetLightDirection: zero direction for light %d", index)
		return
	}
	l.direction = dir.Normalize()
	c.lp().SetVec3(c.lightU[index].direction, l.direction)
}

// LightDirection returns the light's unit facing vector.
func (c *Context) LightDirection(index int) mgl32.Vec3 {
	l := c.lightAt("LightDirection", index)
	if l == nil {
		return mgl32.Vec3{}
	}
	return l.direction
}

// SetLightTarget aims the light at a world point. A target coincident with
// the light's position cannot define a direction and is rejected.
func (c *Context) SetLightTarget(index int, target mgl32.Vec3) {
	l := c.lightAt("SetLightTarget", index)
	if l == nil {
		return
	}
	dir := target.Sub(l.position)
	if dir.LenSqr() == 0 {
		c.log.Errorf("SetLightTarget: target coincides with position of light %d", index)
		return
	}
	l.direction = dir.Normalize()
	c.lp().SetVec3(c.lightU[index].direction, l.direction)
}

// LightTarget returns the point one unit along the light's direction.
func (c *Context) LightTarget(index int) mgl32.Vec3 {
	l := c.lightAt("LightTarget", index)
	if l == nil {
		return mgl32.Vec3{}
	}
	return l.position.Add(l.direction)
}

// RotateLightX rotates the light's direction around the world X axis.
func (c *Context) RotateLightX(index int, degrees float32) {
	c.RotateLight(index, mgl32.Vec3{1, 0, 0}, degrees)
}

// RotateLightY rotates the light's direction around the world Y axis.
func (c *Context) RotateLightY(index int, degrees float32) {
	c.RotateLight(index, mgl32.Vec3{0, 1, 0}, degrees)
}

// RotateLightZ rotates the light's direction around the world Z axis.
func (c *Context) RotateLightZ(index int, degrees float32) {
	c.RotateLight(index, mgl32.Vec3{0, 0, 1}, degrees)
}

// RotateLight rotates the light's direction by degrees around an arbitrary
// axis.
func (c *Context) RotateLight(index int, axis mgl32.Vec3, degrees float32) {
	l := c.lightAt("RotateLight", index)
	if l == nil {
		return
	}
	if axis.LenSqr() == 0 {
		c.log.Errorf("RotateLight: zero axis for light %d", index)
		return
	}
	q := mgl32.QuatRotate(mgl32.DegToRad(degrees), axis.Normalize())
	l.direction = q.Rotate(l.direction).Normalize()
	c.lp().SetVec3(c.lightU[index].direction, l.direction)
}

// ── Color ────────────────────────────────────────────────────────────────────

// SetLightColor sets the light's radiance tint. Alpha is ignored by the
// shader.
func (c *Context) SetLightColor(index int, col core.Color) {
	l := c.lightAt("SetLightColor", index)
	if l == nil {
		return
	}
	l.color = col
	c.lp().SetVec3(c.lightU[index].color, col.Vec3())
}

// LightColor returns the light's color.
func (c *Context) LightColor(index int) core.Color {
	l := c.lightAt("LightColor", index)
	if l == nil {
		return core.Color{}
	}
	return l.color
}

// ── Scalar parameters ─────────────────────────────────────────────────────────

// SetLightValue writes one scalar light parameter and syncs its uniform.
// Cutoff properties take degrees.
func (c *Context) SetLightValue(index int, prop LightProperty, value float32) {
	l := c.lightAt("SetLightValue", index)
	if l == nil {
		return
	}
	u := &c.lightU[index]
	p := c.lp()
	switch prop {
	case PropEnergy:
		l.energy = value
		p.SetFloat(u.energy, value)
	case PropSpecular:
		l.specular = value
		p.SetFloat(u.specular, value)
	case PropSize:
		l.size = value
		p.SetFloat(u.size, value)
	case PropInnerCutoff:
		l.innerCos = math32.Cos(value * math32.Pi / 180)
		p.SetFloat(u.innerCutOff, l.innerCos)
	case PropOuterCutoff:
		l.outerCos = math32.Cos(value * math32.Pi / 180)
		p.SetFloat(u.outerCutOff, l.outerCos)
	case PropAttenuationConstant:
		l.constant = value
		p.SetFloat(u.constant, value)
	case PropAttenuationLinear:
		l.linear = value
		p.SetFloat(u.linear, value)
	case PropAttenuationQuadratic:
		l.quadratic = value
		p.SetFloat(u.quadratic, value)
	case PropShadowBias:
		l.bias = value
		l.biasSet = true
		p.SetFloat(u.depthBias, value)
	default:
		c.log.Errorf("SetLightValue: unknown property %d", prop)
	}
}

// LightValue reads one scalar light parameter. Cutoff properties are
// returned in degrees.
func (c *Context) LightValue(index int, prop LightProperty) float32 {
	l := c.lightAt("LightValue", index)
	if l == nil {
		return 0
	}
	switch prop {
	case PropEnergy:
		return l.energy
	case PropSpecular:
		return l.specular
	case PropSize:
		return l.size
	case PropInnerCutoff:
		return math32.Acos(l.innerCos) * 180 / math32.Pi
	case PropOuterCutoff:
		return math32.Acos(l.outerCos) * 180 / math32.Pi
	case PropAttenuationConstant:
		return l.constant
	case PropAttenuationLinear:
		return l.linear
	case PropAttenuationQuadratic:
		return l.quadratic
	case PropShadowBias:
		return c.effectiveBias(l)
	}
	c.log.Errorf("LightValue: unknown property %d", prop)
	return 0
}

// SetLightAttenuation sets all three attenuation coefficients at once.
func (c *Context) SetLightAttenuation(index int, constant, linear, quadratic float32) {
	l := c.lightAt("SetLightAttenuation", index)
	if l == nil {
		return
	}
	l.constant = constant
	l.linear = linear
	l.quadratic = quadratic
	u := &c.lightU[index]
	p := c.lp()
	p.SetFloat(u.constant, constant)
	p.SetFloat(u.linear, linear)
	p.SetFloat(u.quadratic, quadratic)
}

// SetLightCutoffs sets the spot cone's inner and outer angles in degrees.
func (c *Context) SetLightCutoffs(index int, innerDeg, outerDeg float32) {
	l := c.lightAt("SetLightCutoffs", index)
	if l == nil {
		return
	}
	l.innerCos = math32.Cos(innerDeg * math32.Pi / 180)
	l.outerCos = math32.Cos(outerDeg * math32.Pi / 180)
	u := &c.lightU[index]
	p := c.lp()
	p.SetFloat(u.innerCutOff, l.innerCos)
	p.SetFloat(u.outerCutOff, l.outerCos)
}
