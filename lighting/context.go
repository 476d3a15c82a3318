package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"light-engine/core"
	"light-engine/gfx"
	"light-engine/scene"
)

// MaxLights is the hard upper bound on per-context light capacity. The light
// array is sized into the shader at compile time, so capacity is fixed for
// the lifetime of a context.
const MaxLights = 99

// DefaultLights is the capacity used when Options leaves Lights at zero.
const DefaultLights = 4

// shadowUnitBase is the first texture unit used for shadow maps. Units
// below it carry the material map channels in scene.MapIndex order.
const shadowUnitBase = int32(scene.MapCount) - 1

// ShaderRole identifies one of the context's built-in GPU programs.
type ShaderRole int

const (
	ShaderLighting ShaderRole = iota
	ShaderDepth
	ShaderDepthCubemap
	ShaderEquirect
	ShaderIrradiance
	ShaderSkybox
	shaderRoleCount
)

// ShaderSource overrides one built-in program. Empty fields keep the
// built-in source for that stage.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Options configures a new Context. The zero value is usable.
type Options struct {
	// Lights is the light capacity compiled into the shaders.
	// Clamped to [1, MaxLights]; zero selects DefaultLights.
	Lights int

	// Shadow projection near/far planes. Zero selects 0.05 / 4000.
	ShadowNear float32
	ShadowFar  float32

	// Shaders replaces built-in program sources per role. A custom
	// lighting fragment source must contain the light-count token.
	Shaders map[ShaderRole]ShaderSource

	Logger core.Logger
}

type lightUniformLocs struct {
	enabled, typ, position, direction int32
	color, energy, specular, size     int32
	innerCutOff, outerCutOff          int32
	constant, linear, quadratic       int32
	shadow, shadowMap, shadowCubemap  int32
	shadowMapTxlSz, depthBias, vp     int32
}

type mapUniformLocs struct {
	enabled, active, color, value int32
}

type globalLocs struct {
	mvp       [2]int32
	matModel  int32
	matNormal int32

	viewPos      int32
	ambientColor int32
	farPlane     int32
	lightAffect  int32
	parallaxMin  int32
	parallaxMax  int32
}

type mapEntry struct {
	enabled bool
	// useDefault forces the table's color/value over the material's.
	useDefault bool
	texture    gfx.TextureID
	color      core.Color
	value      float32
}

// Context owns a fixed-capacity light array, the material map table, the
// shadow casters and the GPU programs that consume them. All methods must
// be called from the thread owning the GL context.
type Context struct {
	dev gfx.Device
	log core.Logger

	programs [shaderRoleCount]gfx.Program

	lights []light
	maps   [scene.MapCount]mapEntry

	viewPos     mgl32.Vec3
	ambient     core.Color
	parallaxMin int32
	parallaxMax int32
	shadowNear  float32
	shadowFar   float32

	// per-eye camera state; eyes is 1 for mono, 2 for stereo
	view mgl32.Mat4
	proj mgl32.Mat4
	mvp  [2]mgl32.Mat4
	eyes int32

	u      globalLocs
	lightU []lightUniformLocs
	mapU   [scene.MapCount]mapUniformLocs

	// depth program locations
	depthMVP     int32
	depthModel   int32
	cubeMVP      int32
	cubeModel    int32
	cubeLightPos int32
	cubeFarPlane int32

	// bake and backdrop program locations
	equirectVP   int32
	irradianceVP int32
	skyVP        int32

	// set while a shadow pass is active; Cast* draws consult these
	capture   captureKind
	captureVP mgl32.Mat4

	sky skyState

	closed bool
}

type captureKind int

const (
	captureNone captureKind = iota
	capture2D
	captureCube
)

// active is the process-wide current context. Draw helpers that do not take
// an explicit context use it.
var active *Context

// SetActive installs ctx as the process-wide active context. Passing nil
// clears it.
func SetActive(ctx *Context) { active = ctx }

// Active returns the process-wide active context, or nil.
func Active() *Context { return active }

// New creates a lighting context on the given device, compiles its programs
// and uploads the initial uniform state. The first context created becomes
// the active one.
func New(dev gfx.Device, opts Options) (*Context, error) {
	log := opts.Logger
	if log == nil {
		log = core.NewDefaultLogger("lighting", false)
	}

	count := opts.Lights
	if count <= 0 {
		count = DefaultLights
	}
	if count > MaxLights {
		log.Warnf("light capacity %d exceeds maximum, clamping to %d", count, MaxLights)
		count = MaxLights
	}

	ctx := &Context{
		dev:        dev,
		log:        log,
		lights:     make([]light, count),
		lightU:     make([]lightUniformLocs, count),
		ambient:    core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		shadowNear: 0.05,
		shadowFar:  4000,
		eyes:       1,
		mvp:        [2]mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()},
		view:       mgl32.Ident4(),
		proj:       mgl32.Ident4(),
	}
	if opts.ShadowNear > 0 {
		ctx.shadowNear = opts.ShadowNear
	}
	if opts.ShadowFar > 0 {
		ctx.shadowFar = opts.ShadowFar
	}

	if err := ctx.compilePrograms(opts.Shaders, count); err != nil {
		return nil, err
	}

	ctx.cacheLocations(count)
	ctx.initLights()
	ctx.initMaps()
	ctx.pushGlobals()

	if active == nil {
		active = ctx
	}
	return ctx, nil
}

// Close releases all GPU resources owned by the context. If the context is
// the active one, the active pointer is cleared.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true

	for i := range c.lights {
		if c.lights[i].shadowTarget != nil {
			c.lights[i].shadowTarget.Destroy()
			c.lights[i].shadowTarget = nil
		}
	}
	c.UnloadSkybox()
	for _, p := range c.programs {
		if p != nil {
			p.Destroy()
		}
	}
	if active == c {
		active = nil
	}
}

// Program exposes a built-in program for callers that push custom uniforms.
func (c *Context) Program(role ShaderRole) gfx.Program {
	if role < 0 || role >= shaderRoleCount {
		c.log.Errorf("program: role %d out of range", role)
		return nil
	}
	return c.programs[role]
}

// LightCount returns the compiled-in light capacity of the context.
func (c *Context) LightCount() int { return len(c.lights) }

func (c *Context) compilePrograms(overrides map[ShaderRole]ShaderSource, count int) error {
	srcs := [shaderRoleCount]ShaderSource{
		ShaderLighting:     {lightingVertSrc, lightingFragSrc},
		ShaderDepth:        {depthVertSrc, depthFragSrc},
		ShaderDepthCubemap: {depthCubeVertSrc, depthCubeFragSrc},
		ShaderEquirect:     {cubeCaptureVertSrc, equirectFragSrc},
		ShaderIrradiance:   {cubeCaptureVertSrc, irradianceFragSrc},
		ShaderSkybox:       {skyboxVertSrc, skyboxFragSrc},
	}
	for role, src := range overrides {
		if role < 0 || role >= shaderRoleCount {
			return fmt.Errorf("shader override: role %d out of range", role)
		}
		if src.Vertex != "" {
			srcs[role].Vertex = src.Vertex
		}
		if src.Fragment != "" {
			srcs[role].Fragment = src.Fragment
		}
	}

	// The lighting fragment stage carries the light array; its capacity is
	// expanded into the source before compilation.
	frag, err := expandLightCount(srcs[ShaderLighting].Fragment, count)
	if err != nil {
		return fmt.Errorf("lighting shader: %w", err)
	}
	srcs[ShaderLighting].Fragment = frag

	names := [shaderRoleCount]string{
		"lighting", "depth", "depth cubemap", "equirect", "irradiance", "skybox",
	}
	// The lighting and depth programs are load-bearing; the bake and
	// backdrop programs degrade to logged no-ops if they fail.
	required := [shaderRoleCount]bool{
		ShaderLighting: true, ShaderDepth: true, ShaderDepthCubemap: true,
	}
	for role := ShaderRole(0); role < shaderRoleCount; role++ {
		p, err := c.dev.CompileProgram(srcs[role].Vertex, srcs[role].Fragment)
		if err != nil {
			if required[role] {
				for _, q := range c.programs {
					if q != nil {
						q.Destroy()
					}
				}
				return fmt.Errorf("compile %s program: %w", names[role], err)
			}
			c.log.Warnf("compile %s program: %v", names[role], err)
			continue
		}
		c.programs[role] = p
	}
	return nil
}

func (c *Context) cacheLocations(count int) {
	p := c.programs[ShaderLighting]

	c.u = globalLocs{
		mvp:          [2]int32{p.Location("mvp[0]"), p.Location("mvp[1]")},
		matModel:     p.Location("matModel"),
		matNormal:    p.Location("matNormal"),
		viewPos:      p.Location("viewPos"),
		ambientColor: p.Location("ambientColor"),
		farPlane:     p.Location("farPlane"),
		lightAffect:  p.Location("lightAffect"),
		parallaxMin:  p.Location("parallaxMinLayers"),
		parallaxMax:  p.Location("parallaxMaxLayers"),
	}

	for i := 0; i < count; i++ {
		pre := fmt.Sprintf("lights[%d].", i)
		c.lightU[i] = lightUniformLocs{
			enabled:        p.Location(pre + "enabled"),
			typ:            p.Location(pre + "type"),
			position:       p.Location(pre + "position"),
			direction:      p.Location(pre + "direction"),
			color:          p.Location(pre + "color"),
			energy:         p.Location(pre + "energy"),
			specular:       p.Location(pre + "specular"),
			size:           p.Location(pre + "size"),
			innerCutOff:    p.Location(pre + "innerCutOff"),
			outerCutOff:    p.Location(pre + "outerCutOff"),
			constant:       p.Location(pre + "constant"),
			linear:         p.Location(pre + "linear"),
			quadratic:      p.Location(pre + "quadratic"),
			shadow:         p.Location(pre + "shadow"),
			shadowMap:      p.Location(pre + "shadowMap"),
			shadowCubemap:  p.Location(pre + "shadowCubemap"),
			shadowMapTxlSz: p.Location(pre + "shadowMapTxlSz"),
			depthBias:      p.Location(pre + "depthBias"),
			vp:             p.Location(pre + "vp"),
		}
	}

	for ch := 0; ch < scene.MapCount; ch++ {
		pre := fmt.Sprintf("maps[%d].", ch)
		c.mapU[ch] = mapUniformLocs{
			enabled: p.Location(pre + "enabled"),
			active:  p.Location(pre + "active"),
			color:   p.Location(pre + "color"),
			value:   p.Location(pre + "value"),
		}
	}

	// Material samplers live on fixed texture units matching their channel
	// index; shadow samplers follow from shadowUnitBase.
	p.Use()
	samplers := map[string]int32{
		"mapAlbedo":     int32(scene.MapAlbedo),
		"mapMetalness":  int32(scene.MapMetalness),
		"mapNormal":     int32(scene.MapNormal),
		"mapRoughness":  int32(scene.MapRoughness),
		"mapOcclusion":  int32(scene.MapOcclusion),
		"mapEmission":   int32(scene.MapEmission),
		"mapHeight":     int32(scene.MapHeight),
		"mapCubemap":    int32(scene.MapCubemap),
		"mapIrradiance": int32(scene.MapIrradiance),
	}
	for name, unit := range samplers {
		p.SetInt(p.Location(name), unit)
	}
	// A texture unit may not serve two sampler types in one program, so
	// each light gets a unit pair: 2D map on the even slot, cubemap on
	// the odd one.
	for i := 0; i < count; i++ {
		p.SetInt(c.lightU[i].shadowMap, shadowUnit2D(i))
		p.SetInt(c.lightU[i].shadowCubemap, shadowUnitCube(i))
	}

	dp := c.programs[ShaderDepth]
	c.depthMVP = dp.Location("mvp[0]")
	c.depthModel = dp.Location("matModel")

	cp := c.programs[ShaderDepthCubemap]
	c.cubeMVP = cp.Location("mvp[0]")
	c.cubeModel = cp.Location("matModel")
	c.cubeLightPos = cp.Location("lightPos")
	c.cubeFarPlane = cp.Location("farPlane")

	if eq := c.programs[ShaderEquirect]; eq != nil {
		eq.Use()
		c.equirectVP = eq.Location("vp")
		eq.SetInt(eq.Location("equirectMap"), 0)
	}
	if ir := c.programs[ShaderIrradiance]; ir != nil {
		ir.Use()
		c.irradianceVP = ir.Location("vp")
		ir.SetInt(ir.Location("environmentMap"), 0)
	}
	if sk := c.programs[ShaderSkybox]; sk != nil {
		sk.Use()
		c.skyVP = sk.Location("skyVP")
		sk.SetInt(sk.Location("environmentMap"), 0)
	}
}

func (c *Context) pushGlobals() {
	p := c.programs[ShaderLighting]
	p.Use()
	p.SetVec3(c.u.viewPos, c.viewPos)
	p.SetVec3(c.u.ambientColor, c.ambient.Vec3())
	p.SetFloat(c.u.farPlane, c.shadowFar)
	p.SetInt(c.u.parallaxMin, c.parallaxMin)
	p.SetInt(c.u.parallaxMax, c.parallaxMax)

	cp := c.programs[ShaderDepthCubemap]
	cp.Use()
	cp.SetFloat(c.cubeFarPlane, c.shadowFar)
}

// ── Global state ──────────────────────────────────────────────────────────────

// SetViewPosition updates the camera world position used for specular and
// parallax terms.
func (c *Context) SetViewPosition(pos mgl32.Vec3) {
	c.viewPos = pos
	p := c.programs[ShaderLighting]
	p.Use()
	p.SetVec3(c.u.viewPos, pos)
}

// ViewPosition returns the camera world position last set.
func (c *Context) ViewPosition() mgl32.Vec3 { return c.viewPos }

// SetAmbientColor sets the flat ambient color applied when no irradiance
// map is bound.
func (c *Context) SetAmbientColor(col core.Color) {
	c.ambient = col
	p := c.programs[ShaderLighting]
	p.Use()
	p.SetVec3(c.u.ambientColor, col.Vec3())
}

// AmbientColor returns the current ambient color.
func (c *Context) AmbientColor() core.Color { return c.ambient }

// SetParallaxLayers configures deep parallax stepping. min and max both
// positive with max > min enables layer marching; otherwise simple offset
// parallax is used.
func (c *Context) SetParallaxLayers(min, max int32) {
	c.parallaxMin = min
	c.parallaxMax = max
	p := c.programs[ShaderLighting]
	p.Use()
	p.SetInt(c.u.parallaxMin, min)
	p.SetInt(c.u.parallaxMax, max)
}

// ParallaxLayers returns the configured parallax layer bounds.
func (c *Context) ParallaxLayers() (min, max int32) {
	return c.parallaxMin, c.parallaxMax
}

// SetCamera sets the mono view and projection matrices for subsequent draws.
func (c *Context) SetCamera(view, proj mgl32.Mat4) {
	c.view = view
	c.proj = proj
	c.mvp[0] = proj.Mul4(view)
	c.mvp[1] = c.mvp[0]
	c.eyes = 1
}

// SetStereoCamera sets per-eye view and projection matrices. Subsequent
// draws render both eyes in a single instanced call.
func (c *Context) SetStereoCamera(view [2]mgl32.Mat4, proj [2]mgl32.Mat4) {
	c.view = view[0]
	c.proj = proj[0]
	c.mvp[0] = proj[0].Mul4(view[0])
	c.mvp[1] = proj[1].Mul4(view[1])
	c.eyes = 2
}

// SetShadowPlanes changes the near/far planes used for shadow projections.
// The far plane also rescales cubemap distance comparisons, so shadow maps
// should be re-rendered after a change.
func (c *Context) SetShadowPlanes(near, far float32) {
	if near <= 0 || far <= near {
		c.log.Errorf("SetShadowPlanes: invalid planes near=%g far=%g", near, far)
		return
	}
	c.shadowNear = near
	c.shadowFar = far
	c.lp().SetFloat(c.u.farPlane, far)
	cp := c.programs[ShaderDepthCubemap]
	cp.Use()
	cp.SetFloat(c.cubeFarPlane, far)
}

// ShadowPlanes returns the near/far planes used for shadow projections.
func (c *Context) ShadowPlanes() (near, far float32) {
	return c.shadowNear, c.shadowFar
}
