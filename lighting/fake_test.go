package lighting

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"light-engine/core"
	"light-engine/gfx"
	"light-engine/scene"
)

// countLogger counts error lines so tests can assert the exactly-one-error
// contract on invalid input.
type countLogger struct {
	core.Logger
	errors  int
	lastErr string
}

func newCountLogger() *countLogger {
	return &countLogger{Logger: core.NewNopLogger()}
}

func (l *countLogger) Errorf(format string, args ...any) {
	l.errors++
	l.lastErr = fmt.Sprintf(format, args...)
}

// fakeProgram records every uniform write keyed by uniform name.
type fakeProgram struct {
	vertex   string
	fragment string

	locs  map[string]int32
	names map[int32]string

	ints   map[string]int32
	floats map[string]float32
	vec2s  map[string]mgl32.Vec2
	vec3s  map[string]mgl32.Vec3
	vec4s  map[string]mgl32.Vec4
	mats   map[string]mgl32.Mat4

	destroyed bool
}

var _ gfx.Program = (*fakeProgram)(nil)

func newFakeProgram(vs, fs string) *fakeProgram {
	return &fakeProgram{
		vertex:   vs,
		fragment: fs,
		locs:     map[string]int32{},
		names:    map[int32]string{},
		ints:     map[string]int32{},
		floats:   map[string]float32{},
		vec2s:    map[string]mgl32.Vec2{},
		vec3s:    map[string]mgl32.Vec3{},
		vec4s:    map[string]mgl32.Vec4{},
		mats:     map[string]mgl32.Mat4{},
	}
}

func (p *fakeProgram) Use() {}

func (p *fakeProgram) Location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := int32(len(p.locs))
	p.locs[name] = loc
	p.names[loc] = name
	return loc
}

func (p *fakeProgram) SetInt(loc int32, v int32)       { p.ints[p.names[loc]] = v }
func (p *fakeProgram) SetFloat(loc int32, v float32)   { p.floats[p.names[loc]] = v }
func (p *fakeProgram) SetVec2(loc int32, v mgl32.Vec2) { p.vec2s[p.names[loc]] = v }
func (p *fakeProgram) SetVec3(loc int32, v mgl32.Vec3) { p.vec3s[p.names[loc]] = v }
func (p *fakeProgram) SetVec4(loc int32, v mgl32.Vec4) { p.vec4s[p.names[loc]] = v }
func (p *fakeProgram) SetMat4(loc int32, m mgl32.Mat4) { p.mats[p.names[loc]] = m }
func (p *fakeProgram) Destroy()                        { p.destroyed = true }

// fakeDepth is a recording stand-in for a shadow map target.
type fakeDepth struct {
	size      int32
	cube      bool
	id        gfx.TextureID
	begins    int
	faces     []int
	ends      int
	destroyed bool
}

var _ gfx.DepthTarget = (*fakeDepth)(nil)

func (d *fakeDepth) Texture() gfx.TextureID { return d.id }
func (d *fakeDepth) IsCube() bool           { return d.cube }
func (d *fakeDepth) Size() int32            { return d.size }
func (d *fakeDepth) Begin()                 { d.begins++ }
func (d *fakeDepth) BeginFace(face int)     { d.faces = append(d.faces, face) }
func (d *fakeDepth) End()                   { d.ends++ }
func (d *fakeDepth) Destroy()               { d.destroyed = true }

type drawCall struct {
	mesh      *scene.Mesh
	instances int32
}

// fakeDevice satisfies gfx.Device without a GL context, recording programs,
// depth targets, texture binds and draw calls.
type fakeDevice struct {
	programs []*fakeProgram
	depths   []*fakeDepth
	nextTex  uint32

	bind2D   map[int32]gfx.TextureID
	bindCube map[int32]gfx.TextureID
	deleted  []gfx.TextureID

	draws     []drawCall
	captures  int
	backdrops int
}

var _ gfx.Device = (*fakeDevice)(nil)

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		nextTex:  1,
		bind2D:   map[int32]gfx.TextureID{},
		bindCube: map[int32]gfx.TextureID{},
	}
}

func (d *fakeDevice) CompileProgram(vs, fs string) (gfx.Program, error) {
	p := newFakeProgram(vs, fs)
	d.programs = append(d.programs, p)
	return p, nil
}

func (d *fakeDevice) newTexID() gfx.TextureID {
	id := gfx.TextureID(d.nextTex)
	d.nextTex++
	return id
}

func (d *fakeDevice) NewDepthMap(size int32) (gfx.DepthTarget, error) {
	t := &fakeDepth{size: size, id: d.newTexID()}
	d.depths = append(d.depths, t)
	return t, nil
}

func (d *fakeDevice) NewDepthCubemap(size int32) (gfx.DepthTarget, error) {
	t := &fakeDepth{size: size, cube: true, id: d.newTexID()}
	d.depths = append(d.depths, t)
	return t, nil
}

func (d *fakeDevice) UploadTexture(tex *scene.Texture) error {
	tex.ID = uint32(d.newTexID())
	return nil
}

func (d *fakeDevice) UploadCubemap(faces [6]*scene.Texture) (gfx.TextureID, error) {
	for i, f := range faces {
		if f == nil {
			return 0, fmt.Errorf("face %d missing", i)
		}
	}
	return d.newTexID(), nil
}

func (d *fakeDevice) NewColorCubemap(size int32, hdr bool) (gfx.TextureID, error) {
	return d.newTexID(), nil
}

func (d *fakeDevice) DeleteTexture(id gfx.TextureID) {
	d.deleted = append(d.deleted, id)
}

func (d *fakeDevice) BindTexture2D(unit int32, id gfx.TextureID) { d.bind2D[unit] = id }
func (d *fakeDevice) BindCubemap(unit int32, id gfx.TextureID)   { d.bindCube[unit] = id }

func (d *fakeDevice) CaptureCubemap(target gfx.TextureID, size int32, draw func(face int)) error {
	d.captures++
	for face := 0; face < 6; face++ {
		draw(face)
	}
	return nil
}

func (d *fakeDevice) Draw(mesh *scene.Mesh, instances int32) {
	d.draws = append(d.draws, drawCall{mesh: mesh, instances: instances})
}

func (d *fakeDevice) ReleaseMesh(mesh *scene.Mesh)    {}
func (d *fakeDevice) SetViewport(width, height int32) {}
func (d *fakeDevice) BeginBackdrop()                  { d.backdrops++ }
func (d *fakeDevice) EndBackdrop()                    {}

// lightingProg returns the lighting program compiled for a context backed
// by the fake device (roles compile in declaration order).
func (d *fakeDevice) lightingProg() *fakeProgram { return d.programs[0] }

func newTestContext(t *testing.T, opts Options) (*Context, *fakeDevice, *countLogger) {
	t.Helper()
	dev := newFakeDevice()
	log := newCountLogger()
	opts.Logger = log
	ctx, err := New(dev, opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx.Close()
		SetActive(nil)
	})
	return ctx, dev, log
}
