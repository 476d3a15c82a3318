// Package opengl implements the gfx device interfaces on OpenGL 4.1 core.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"light-engine/core"
	"light-engine/gfx"
	"light-engine/scene"
)

// Device is the OpenGL rendering backend.
// Must be created after the GLFW window context is made current.
type Device struct {
	log core.Logger

	viewportW int32
	viewportH int32

	// Capture FBO/RBO for cubemap bakes (lazily created).
	captureFBO     uint32
	captureRBO     uint32
	captureRBOSize int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

var _ gfx.Device = (*Device)(nil)

// New initialises OpenGL and returns the device.
func New(logger core.Logger) (*Device, error) {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	logger.Infof("OpenGL version: %s", version)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Device{
		log:       logger,
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}, nil
}

// SetViewport resizes the OpenGL viewport and stores the dimensions for
// restoring after off-screen passes.
func (d *Device) SetViewport(width, height int32) {
	d.viewportW = width
	d.viewportH = height
	gl.Viewport(0, 0, width, height)
}

// restoreViewport rebinds the default framebuffer at the screen viewport.
func (d *Device) restoreViewport() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, d.viewportW, d.viewportH)
}

// Clear wipes the color and depth buffers of the default framebuffer.
func (d *Device) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// BeginBackdrop sets the depth state for a skybox draw: depth LEQUAL so
// far-plane fragments pass against the cleared depth value, writes off so
// 1.0 never lands in the depth buffer.
func (d *Device) BeginBackdrop() {
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)
}

// EndBackdrop restores the depth state for scene geometry.
func (d *Device) EndBackdrop() {
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

// Destroy releases every GPU resource the device still tracks.
func (d *Device) Destroy() {
	for mesh := range d.gpuMeshes {
		d.ReleaseMesh(mesh)
	}
	if d.captureFBO != 0 {
		gl.DeleteFramebuffers(1, &d.captureFBO)
		gl.DeleteRenderbuffers(1, &d.captureRBO)
		d.captureFBO = 0
		d.captureRBO = 0
	}
}
