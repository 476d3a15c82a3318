// Package gfx declares the graphics-device surface the lighting subsystem
// consumes. The OpenGL implementation lives in internal/opengl; tests supply
// in-memory fakes.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"light-engine/scene"
)

// TextureID identifies a GPU texture object. Zero means "no texture".
type TextureID uint32

// Program is a compiled, linked GPU program with uniform access by location.
// Location lookups are performed once at load time; per-frame writes go
// through the typed setters.
type Program interface {
	Use()
	Location(name string) int32
	SetInt(loc int32, v int32)
	SetFloat(loc int32, v float32)
	SetVec2(loc int32, v mgl32.Vec2)
	SetVec3(loc int32, v mgl32.Vec3)
	SetVec4(loc int32, v mgl32.Vec4)
	SetMat4(loc int32, m mgl32.Mat4)
	Destroy()
}

// DepthTarget is a depth-only render target: a 2D depth texture for
// directional/spot shadow maps or a depth cubemap for omni lights, plus the
// off-screen framebuffer binding it.
type DepthTarget interface {
	Texture() TextureID
	IsCube() bool
	Size() int32

	// Begin binds the framebuffer, sizes the viewport to the target and
	// clears depth. For cube targets, follow with BeginFace per face.
	Begin()
	// BeginFace attaches cube face [0,6) as the depth attachment and clears.
	// No-op for 2D targets.
	BeginFace(face int)
	// End restores the default framebuffer and the previously configured
	// screen viewport.
	End()

	Destroy()
}

// Device is the graphics backend: program compilation, texture and
// framebuffer lifecycle, and draw submission. All methods must be called
// from the rendering thread.
type Device interface {
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)

	NewDepthMap(size int32) (DepthTarget, error)
	NewDepthCubemap(size int32) (DepthTarget, error)

	// UploadTexture pushes tex.Pixels to the GPU and sets tex.ID.
	UploadTexture(tex *scene.Texture) error
	// UploadCubemap uploads six equally sized square faces in the order
	// +X, -X, +Y, -Y, +Z, -Z.
	UploadCubemap(faces [6]*scene.Texture) (TextureID, error)
	// NewColorCubemap allocates an uninitialized renderable cubemap.
	// hdr selects a float16 internal format.
	NewColorCubemap(size int32, hdr bool) (TextureID, error)
	DeleteTexture(id TextureID)

	BindTexture2D(unit int32, id TextureID)
	BindCubemap(unit int32, id TextureID)

	// CaptureCubemap renders into each face of target in turn: the capture
	// framebuffer is bound, the face attached and cleared, then draw(face)
	// is invoked. Used by the equirectangular and irradiance bakes.
	CaptureCubemap(target TextureID, size int32, draw func(face int)) error

	// Draw lazily uploads mesh geometry and issues the draw call,
	// instanced when instances > 1.
	Draw(mesh *scene.Mesh, instances int32)
	ReleaseMesh(mesh *scene.Mesh)

	// SetViewport records the screen viewport; DepthTarget.End and
	// CaptureCubemap restore it.
	SetViewport(width, height int32)

	// BeginBackdrop/EndBackdrop bracket a skybox draw: depth test LEQUAL
	// with depth writes off, restored afterwards.
	BeginBackdrop()
	EndBackdrop()
}
